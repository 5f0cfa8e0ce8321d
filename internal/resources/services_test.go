// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Tests for the single-call service wrappers. Each fake is a bare function
// type since the interfaces carry one or two methods.

package resources

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/accessanalyzer"
	aatypes "github.com/aws/aws-sdk-go-v2/service/accessanalyzer/types"
	"github.com/aws/aws-sdk-go-v2/service/auditmanager"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/detective"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/fms"
	"github.com/aws/aws-sdk-go-v2/service/inspector2"
	"github.com/aws/aws-sdk-go-v2/service/ram"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"
	shtypes "github.com/aws/aws-sdk-go-v2/service/securityhub/types"
	"github.com/aws/aws-sdk-go-v2/service/securitylake"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFMSAPI func(*fms.AssociateAdminAccountInput) (*fms.AssociateAdminAccountOutput, error)

func (f fakeFMSAPI) AssociateAdminAccount(_ context.Context, in *fms.AssociateAdminAccountInput, _ ...func(*fms.Options)) (*fms.AssociateAdminAccountOutput, error) {
	return f(in)
}

func TestFMSAssociateAdminAccount(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{
			name: "fresh association",
			err:  nil,
		},
		{
			name: "delegation unsupported in region",
			err:  apiErr("InvalidOperationException"),
		},
		{
			name: "already associated",
			err:  apiErr("InternalErrorException"),
		},
		{
			name:    "denied",
			err:     apiErr("AccessDeniedException"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFMS(fakeFMSAPI(func(in *fms.AssociateAdminAccountInput) (*fms.AssociateAdminAccountOutput, error) {
				assert.Equal(t, "333333333333", awsv2.ToString(in.AdminAccount))
				return nil, tt.err
			}), "us-east-1")

			err := f.AssociateAdminAccount(context.Background(), "333333333333")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type fakeRAMAPI func(*ram.EnableSharingWithAwsOrganizationInput) (*ram.EnableSharingWithAwsOrganizationOutput, error)

func (f fakeRAMAPI) EnableSharingWithAwsOrganization(_ context.Context, in *ram.EnableSharingWithAwsOrganizationInput, _ ...func(*ram.Options)) (*ram.EnableSharingWithAwsOrganizationOutput, error) {
	return f(in)
}

func TestRAMEnableSharingWithOrganization(t *testing.T) {
	r := newRAM(fakeRAMAPI(func(*ram.EnableSharingWithAwsOrganizationInput) (*ram.EnableSharingWithAwsOrganizationOutput, error) {
		return nil, apiErr("OperationNotPermittedException")
	}), "us-east-1")

	assert.NoError(t, r.EnableSharingWithOrganization(context.Background()))
}

type fakeServiceCatalogAPI func(*servicecatalog.EnableAWSOrganizationsAccessInput) (*servicecatalog.EnableAWSOrganizationsAccessOutput, error)

func (f fakeServiceCatalogAPI) EnableAWSOrganizationsAccess(_ context.Context, in *servicecatalog.EnableAWSOrganizationsAccessInput, _ ...func(*servicecatalog.Options)) (*servicecatalog.EnableAWSOrganizationsAccessOutput, error) {
	return f(in)
}

func TestServiceCatalogEnableOrganizationsAccess(t *testing.T) {
	sc := newServiceCatalog(fakeServiceCatalogAPI(func(*servicecatalog.EnableAWSOrganizationsAccessInput) (*servicecatalog.EnableAWSOrganizationsAccessOutput, error) {
		return nil, apiErr("InvalidStateException")
	}), "us-east-1")

	assert.NoError(t, sc.EnableOrganizationsAccess(context.Background()))
}

type fakeCloudFormationAPI func(*cloudformation.ActivateOrganizationsAccessInput) (*cloudformation.ActivateOrganizationsAccessOutput, error)

func (f fakeCloudFormationAPI) ActivateOrganizationsAccess(_ context.Context, in *cloudformation.ActivateOrganizationsAccessInput, _ ...func(*cloudformation.Options)) (*cloudformation.ActivateOrganizationsAccessOutput, error) {
	return f(in)
}

func TestCloudFormationActivateOrganizationsAccess(t *testing.T) {
	cf := newCloudFormation(fakeCloudFormationAPI(func(*cloudformation.ActivateOrganizationsAccessInput) (*cloudformation.ActivateOrganizationsAccessOutput, error) {
		return nil, apiErr("InvalidOperationException")
	}), "us-east-1")

	assert.NoError(t, cf.ActivateOrganizationsAccess(context.Background()))
}

type fakeEC2API func(*ec2.DescribeRegionsInput) (*ec2.DescribeRegionsOutput, error)

func (f fakeEC2API) DescribeRegions(_ context.Context, in *ec2.DescribeRegionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	return f(in)
}

func TestEC2Regions(t *testing.T) {
	e := newEC2(fakeEC2API(func(in *ec2.DescribeRegionsInput) (*ec2.DescribeRegionsOutput, error) {
		require.Len(t, in.Filters, 1)
		assert.Equal(t, "opt-in-status", awsv2.ToString(in.Filters[0].Name))
		assert.Equal(t, []string{"opt-in-not-required"}, in.Filters[0].Values)
		return &ec2.DescribeRegionsOutput{
			Regions: []ec2types.Region{
				{RegionName: awsv2.String("us-west-2")},
				{RegionName: awsv2.String("eu-west-1")},
				{RegionName: awsv2.String("us-east-1")},
			},
		}, nil
	}))

	regions, err := e.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eu-west-1", "us-east-1", "us-west-2"}, regions, "regions should come back sorted")
}

type fakeInspectorAPI func(*inspector2.EnableDelegatedAdminAccountInput) (*inspector2.EnableDelegatedAdminAccountOutput, error)

func (f fakeInspectorAPI) EnableDelegatedAdminAccount(_ context.Context, in *inspector2.EnableDelegatedAdminAccountInput, _ ...func(*inspector2.Options)) (*inspector2.EnableDelegatedAdminAccountOutput, error) {
	return f(in)
}

func TestInspectorEnableDelegatedAdminAccount_AlreadyDelegated(t *testing.T) {
	i := newInspector(fakeInspectorAPI(func(in *inspector2.EnableDelegatedAdminAccountInput) (*inspector2.EnableDelegatedAdminAccountOutput, error) {
		assert.Equal(t, "333333333333", awsv2.ToString(in.DelegatedAdminAccountId))
		return nil, apiErr("ConflictException")
	}), "us-east-1")

	assert.NoError(t, i.EnableDelegatedAdminAccount(context.Background(), "333333333333"))
}

type fakeSecurityLakeAPI func(*securitylake.RegisterDataLakeDelegatedAdministratorInput) (*securitylake.RegisterDataLakeDelegatedAdministratorOutput, error)

func (f fakeSecurityLakeAPI) RegisterDataLakeDelegatedAdministrator(_ context.Context, in *securitylake.RegisterDataLakeDelegatedAdministratorInput, _ ...func(*securitylake.Options)) (*securitylake.RegisterDataLakeDelegatedAdministratorOutput, error) {
	return f(in)
}

func TestSecurityLakeRegisterDelegatedAdministrator_AlreadyDelegated(t *testing.T) {
	s := newSecurityLake(fakeSecurityLakeAPI(func(*securitylake.RegisterDataLakeDelegatedAdministratorInput) (*securitylake.RegisterDataLakeDelegatedAdministratorOutput, error) {
		return nil, apiErr("ValidationException")
	}), "us-east-1")

	assert.NoError(t, s.RegisterDelegatedAdministrator(context.Background(), "333333333333"))
}

type fakeDetectiveAPI func(*detective.EnableOrganizationAdminAccountInput) (*detective.EnableOrganizationAdminAccountOutput, error)

func (f fakeDetectiveAPI) EnableOrganizationAdminAccount(_ context.Context, in *detective.EnableOrganizationAdminAccountInput, _ ...func(*detective.Options)) (*detective.EnableOrganizationAdminAccountOutput, error) {
	return f(in)
}

func TestDetectiveEnableOrganizationAdminAccount(t *testing.T) {
	d := newDetective(fakeDetectiveAPI(func(in *detective.EnableOrganizationAdminAccountInput) (*detective.EnableOrganizationAdminAccountOutput, error) {
		assert.Equal(t, "333333333333", awsv2.ToString(in.AccountId))
		return nil, apiErr("InternalServerException")
	}), "us-east-1")

	assert.NoError(t, d.EnableOrganizationAdminAccount(context.Background(), "333333333333"))
}

type fakeAuditManagerAPI func(*auditmanager.RegisterOrganizationAdminAccountInput) (*auditmanager.RegisterOrganizationAdminAccountOutput, error)

func (f fakeAuditManagerAPI) RegisterOrganizationAdminAccount(_ context.Context, in *auditmanager.RegisterOrganizationAdminAccountInput, _ ...func(*auditmanager.Options)) (*auditmanager.RegisterOrganizationAdminAccountOutput, error) {
	return f(in)
}

func TestAuditManagerRegisterOrganizationAdminAccount(t *testing.T) {
	a := newAuditManager(fakeAuditManagerAPI(func(in *auditmanager.RegisterOrganizationAdminAccountInput) (*auditmanager.RegisterOrganizationAdminAccountOutput, error) {
		assert.Equal(t, "333333333333", awsv2.ToString(in.AdminAccountId))
		return &auditmanager.RegisterOrganizationAdminAccountOutput{}, nil
	}), "us-east-1")

	assert.NoError(t, a.RegisterOrganizationAdminAccount(context.Background(), "333333333333"))
}

type fakeAccessAnalyzerAPI func(*accessanalyzer.CreateAnalyzerInput) (*accessanalyzer.CreateAnalyzerOutput, error)

func (f fakeAccessAnalyzerAPI) CreateAnalyzer(_ context.Context, in *accessanalyzer.CreateAnalyzerInput, _ ...func(*accessanalyzer.Options)) (*accessanalyzer.CreateAnalyzerOutput, error) {
	return f(in)
}

func TestAccessAnalyzerCreateAnalyzers(t *testing.T) {
	var created []string
	a := newAccessAnalyzer(fakeAccessAnalyzerAPI(func(in *accessanalyzer.CreateAnalyzerInput) (*accessanalyzer.CreateAnalyzerOutput, error) {
		created = append(created, string(in.Type)+":"+awsv2.ToString(in.AnalyzerName))
		return nil, apiErr("ConflictException")
	}), "us-east-1")

	ctx := context.Background()
	require.NoError(t, a.CreateOrganizationAnalyzer(ctx))
	require.NoError(t, a.CreateManagementAnalyzer(ctx))
	assert.Equal(t, []string{
		string(aatypes.TypeOrganization) + ":OrganizationAnalyzer",
		string(aatypes.TypeAccount) + ":ManagementAnalyzer",
	}, created)
}

type fakeStandardsAPI struct {
	getEnabledStandards   func(*securityhub.GetEnabledStandardsInput) (*securityhub.GetEnabledStandardsOutput, error)
	batchDisableStandards func(*securityhub.BatchDisableStandardsInput) (*securityhub.BatchDisableStandardsOutput, error)
}

func (f *fakeStandardsAPI) GetEnabledStandards(_ context.Context, in *securityhub.GetEnabledStandardsInput, _ ...func(*securityhub.Options)) (*securityhub.GetEnabledStandardsOutput, error) {
	return f.getEnabledStandards(in)
}

func (f *fakeStandardsAPI) BatchDisableStandards(_ context.Context, in *securityhub.BatchDisableStandardsInput, _ ...func(*securityhub.Options)) (*securityhub.BatchDisableStandardsOutput, error) {
	return f.batchDisableStandards(in)
}

func TestStandardsDisableAll(t *testing.T) {
	var disabled []string
	s := newStandards(&fakeStandardsAPI{
		getEnabledStandards: func(*securityhub.GetEnabledStandardsInput) (*securityhub.GetEnabledStandardsOutput, error) {
			return &securityhub.GetEnabledStandardsOutput{
				StandardsSubscriptions: []shtypes.StandardsSubscription{
					{StandardsSubscriptionArn: awsv2.String("arn:sub/1")},
					{StandardsSubscriptionArn: awsv2.String("arn:sub/2")},
				},
			}, nil
		},
		batchDisableStandards: func(in *securityhub.BatchDisableStandardsInput) (*securityhub.BatchDisableStandardsOutput, error) {
			disabled = in.StandardsSubscriptionArns
			return &securityhub.BatchDisableStandardsOutput{}, nil
		},
	}, "us-east-1")

	n, err := s.DisableAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"arn:sub/1", "arn:sub/2"}, disabled)
}

func TestStandardsDisableAll_HubNotEnabled(t *testing.T) {
	s := newStandards(&fakeStandardsAPI{
		getEnabledStandards: func(*securityhub.GetEnabledStandardsInput) (*securityhub.GetEnabledStandardsOutput, error) {
			return nil, apiErr("InvalidAccessException")
		},
	}, "us-east-1")

	n, err := s.DisableAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStandardsDisableAll_NothingEnabled(t *testing.T) {
	s := newStandards(&fakeStandardsAPI{
		getEnabledStandards: func(*securityhub.GetEnabledStandardsInput) (*securityhub.GetEnabledStandardsOutput, error) {
			return &securityhub.GetEnabledStandardsOutput{}, nil
		},
	}, "us-east-1")

	n, err := s.DisableAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

type fakeSTSAPI func(*sts.GetCallerIdentityInput) (*sts.GetCallerIdentityOutput, error)

func (f fakeSTSAPI) GetCallerIdentity(_ context.Context, in *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f(in)
}

func TestSTSCallerAccountID(t *testing.T) {
	s := newSTS(fakeSTSAPI(func(*sts.GetCallerIdentityInput) (*sts.GetCallerIdentityOutput, error) {
		return &sts.GetCallerIdentityOutput{Account: awsv2.String("111111111111")}, nil
	}))

	id, err := s.CallerAccountID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "111111111111", id)
}
