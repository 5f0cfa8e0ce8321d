// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"
	"github.com/aws/aws-sdk-go-v2/service/securityhub/types"

	"github.com/org-setup/org-setup/internal/log"
)

// allRegions links a finding aggregator to every region, current and future.
const allRegions = "ALL_REGIONS"

// SecurityHubAPI is the subset of the Security Hub client the sweep uses.
type SecurityHubAPI interface {
	EnableOrganizationAdminAccount(ctx context.Context, params *securityhub.EnableOrganizationAdminAccountInput, optFns ...func(*securityhub.Options)) (*securityhub.EnableOrganizationAdminAccountOutput, error)
	UpdateOrganizationConfiguration(ctx context.Context, params *securityhub.UpdateOrganizationConfigurationInput, optFns ...func(*securityhub.Options)) (*securityhub.UpdateOrganizationConfigurationOutput, error)
	CreateMembers(ctx context.Context, params *securityhub.CreateMembersInput, optFns ...func(*securityhub.Options)) (*securityhub.CreateMembersOutput, error)
	ListFindingAggregators(ctx context.Context, params *securityhub.ListFindingAggregatorsInput, optFns ...func(*securityhub.Options)) (*securityhub.ListFindingAggregatorsOutput, error)
	CreateFindingAggregator(ctx context.Context, params *securityhub.CreateFindingAggregatorInput, optFns ...func(*securityhub.Options)) (*securityhub.CreateFindingAggregatorOutput, error)
}

// SecurityHub wraps the Security Hub calls of the sweep. Delegation runs with
// management credentials; organization configuration, members and the finding
// aggregator run with delegated administrator credentials.
type SecurityHub struct {
	api    SecurityHubAPI
	region string
}

// NewSecurityHub binds a real client in the given region.
func NewSecurityHub(cfg awsv2.Config, region string) *SecurityHub {
	return &SecurityHub{
		api: securityhub.NewFromConfig(cfg, func(o *securityhub.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newSecurityHub(api SecurityHubAPI, region string) *SecurityHub {
	return &SecurityHub{api: api, region: region}
}

// EnableOrganizationAdminAccount delegates Security Hub administration to
// accountID. An existing delegation answers with a resource conflict.
func (s *SecurityHub) EnableOrganizationAdminAccount(ctx context.Context, accountID string) error {
	log.Infof("[%s] enabling account %s to be Security Hub admin account", s.region, accountID)
	_, err := s.api.EnableOrganizationAdminAccount(ctx, &securityhub.EnableOrganizationAdminAccountInput{
		AdminAccountId: awsv2.String(accountID),
	})
	if err := ignoreCode(err, "ResourceConflictException"); err != nil {
		return fmt.Errorf("failed to enable Security Hub admin account %s: %w", accountID, err)
	}
	return nil
}

// UpdateOrganizationConfiguration turns on auto-enrollment of new
// organization accounts.
func (s *SecurityHub) UpdateOrganizationConfiguration(ctx context.Context) error {
	log.Infof("[%s] updating Security Hub to auto-enroll new accounts", s.region)
	_, err := s.api.UpdateOrganizationConfiguration(ctx, &securityhub.UpdateOrganizationConfigurationInput{
		AutoEnable: awsv2.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to update Security Hub organization configuration: %w", err)
	}
	return nil
}

// CreateMembers enrolls the given accounts as Security Hub members. Existing
// members are reported as unprocessed, not errors, so the call is repeatable.
func (s *SecurityHub) CreateMembers(ctx context.Context, accounts []Account) error {
	if len(accounts) == 0 {
		return nil
	}

	details := make([]types.AccountDetails, 0, len(accounts))
	for _, account := range accounts {
		details = append(details, types.AccountDetails{
			AccountId: awsv2.String(account.ID),
			Email:     awsv2.String(account.Email),
		})
	}

	log.Infof("[%s] creating %d Security Hub members", s.region, len(details))
	_, err := s.api.CreateMembers(ctx, &securityhub.CreateMembersInput{
		AccountDetails: details,
	})
	if err != nil {
		return fmt.Errorf("failed to create Security Hub members: %w", err)
	}
	return nil
}

// EnsureFindingAggregator creates a finding aggregator covering all regions
// unless one already exists. Runs in the home region only.
func (s *SecurityHub) EnsureFindingAggregator(ctx context.Context) error {
	out, err := s.api.ListFindingAggregators(ctx, &securityhub.ListFindingAggregatorsInput{})
	if err != nil {
		return fmt.Errorf("failed to list finding aggregators: %w", err)
	}
	if len(out.FindingAggregators) > 0 {
		log.Debugf("[%s] finding aggregator already exists", s.region)
		return nil
	}

	log.Infof("[%s] creating Security Hub finding aggregator", s.region)
	_, err = s.api.CreateFindingAggregator(ctx, &securityhub.CreateFindingAggregatorInput{
		RegionLinkingMode: awsv2.String(allRegions),
	})
	if err != nil {
		return fmt.Errorf("failed to create finding aggregator: %w", err)
	}
	return nil
}
