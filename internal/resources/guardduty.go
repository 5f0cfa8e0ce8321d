// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	"github.com/aws/aws-sdk-go-v2/service/guardduty/types"

	"github.com/org-setup/org-setup/internal/log"
)

// GuardDutyAPI is the subset of the GuardDuty client the sweep uses.
type GuardDutyAPI interface {
	EnableOrganizationAdminAccount(ctx context.Context, params *guardduty.EnableOrganizationAdminAccountInput, optFns ...func(*guardduty.Options)) (*guardduty.EnableOrganizationAdminAccountOutput, error)
	ListDetectors(ctx context.Context, params *guardduty.ListDetectorsInput, optFns ...func(*guardduty.Options)) (*guardduty.ListDetectorsOutput, error)
	CreateDetector(ctx context.Context, params *guardduty.CreateDetectorInput, optFns ...func(*guardduty.Options)) (*guardduty.CreateDetectorOutput, error)
	UpdateOrganizationConfiguration(ctx context.Context, params *guardduty.UpdateOrganizationConfigurationInput, optFns ...func(*guardduty.Options)) (*guardduty.UpdateOrganizationConfigurationOutput, error)
	CreateMembers(ctx context.Context, params *guardduty.CreateMembersInput, optFns ...func(*guardduty.Options)) (*guardduty.CreateMembersOutput, error)
}

// GuardDuty wraps the GuardDuty calls of the sweep. Delegation runs with
// management credentials; detector and member management run with delegated
// administrator credentials.
type GuardDuty struct {
	api    GuardDutyAPI
	region string
}

// NewGuardDuty binds a real client in the given region.
func NewGuardDuty(cfg awsv2.Config, region string) *GuardDuty {
	return &GuardDuty{
		api: guardduty.NewFromConfig(cfg, func(o *guardduty.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newGuardDuty(api GuardDutyAPI, region string) *GuardDuty {
	return &GuardDuty{api: api, region: region}
}

// EnableOrganizationAdminAccount delegates GuardDuty administration to
// accountID. GuardDuty answers BadRequestException when the delegation is
// already in place.
func (g *GuardDuty) EnableOrganizationAdminAccount(ctx context.Context, accountID string) error {
	log.Infof("[%s] enabling account %s to be GuardDuty admin account", g.region, accountID)
	_, err := g.api.EnableOrganizationAdminAccount(ctx, &guardduty.EnableOrganizationAdminAccountInput{
		AdminAccountId: awsv2.String(accountID),
	})
	if err := ignoreCode(err, "BadRequestException"); err != nil {
		return fmt.Errorf("failed to enable GuardDuty admin account %s: %w", accountID, err)
	}
	return nil
}

// EnsureDetectors returns the detector IDs in the region, creating one with
// S3 protection when none exists.
func (g *GuardDuty) EnsureDetectors(ctx context.Context) ([]string, error) {
	var detectorIDs []string
	paginator := guardduty.NewListDetectorsPaginator(g.api, &guardduty.ListDetectorsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list detectors: %w", err)
		}
		detectorIDs = append(detectorIDs, page.DetectorIds...)
	}
	if len(detectorIDs) > 0 {
		return detectorIDs, nil
	}

	log.Infof("[%s] creating GuardDuty detector", g.region)
	out, err := g.api.CreateDetector(ctx, &guardduty.CreateDetectorInput{
		Enable: awsv2.Bool(true),
		DataSources: &types.DataSourceConfigurations{
			S3Logs: &types.S3LogsConfiguration{Enable: awsv2.Bool(true)},
		},
		FindingPublishingFrequency: types.FindingPublishingFrequencySixHours,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}
	return []string{awsv2.ToString(out.DetectorId)}, nil
}

// UpdateOrganizationConfiguration turns on auto-enrollment of new accounts,
// including S3 protection, for every detector.
func (g *GuardDuty) UpdateOrganizationConfiguration(ctx context.Context, detectorIDs []string) error {
	for _, detectorID := range detectorIDs {
		log.Infof("[%s] updating GuardDuty detector %s to auto-enroll new accounts", g.region, detectorID)
		_, err := g.api.UpdateOrganizationConfiguration(ctx, &guardduty.UpdateOrganizationConfigurationInput{
			DetectorId: awsv2.String(detectorID),
			AutoEnable: awsv2.Bool(true),
			DataSources: &types.OrganizationDataSourceConfigurations{
				S3Logs: &types.OrganizationS3LogsConfiguration{AutoEnable: awsv2.Bool(true)},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to update organization configuration for detector %s: %w", detectorID, err)
		}
	}
	return nil
}

// CreateMembers enrolls the given accounts as GuardDuty members under every
// detector.
func (g *GuardDuty) CreateMembers(ctx context.Context, detectorIDs []string, accounts []Account) error {
	if len(accounts) == 0 {
		return nil
	}

	details := make([]types.AccountDetail, 0, len(accounts))
	for _, account := range accounts {
		details = append(details, types.AccountDetail{
			AccountId: awsv2.String(account.ID),
			Email:     awsv2.String(account.Email),
		})
	}

	for _, detectorID := range detectorIDs {
		log.Infof("[%s] creating %d GuardDuty members under detector %s", g.region, len(details), detectorID)
		_, err := g.api.CreateMembers(ctx, &guardduty.CreateMembersInput{
			DetectorId:     awsv2.String(detectorID),
			AccountDetails: details,
		})
		if err != nil {
			return fmt.Errorf("failed to create GuardDuty members: %w", err)
		}
	}
	return nil
}
