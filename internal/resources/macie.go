// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/macie2"
	"github.com/aws/aws-sdk-go-v2/service/macie2/types"

	"github.com/org-setup/org-setup/internal/log"
)

// MacieAPI is the subset of the Macie client the sweep uses.
type MacieAPI interface {
	EnableMacie(ctx context.Context, params *macie2.EnableMacieInput, optFns ...func(*macie2.Options)) (*macie2.EnableMacieOutput, error)
	EnableOrganizationAdminAccount(ctx context.Context, params *macie2.EnableOrganizationAdminAccountInput, optFns ...func(*macie2.Options)) (*macie2.EnableOrganizationAdminAccountOutput, error)
	UpdateOrganizationConfiguration(ctx context.Context, params *macie2.UpdateOrganizationConfigurationInput, optFns ...func(*macie2.Options)) (*macie2.UpdateOrganizationConfigurationOutput, error)
	CreateMember(ctx context.Context, params *macie2.CreateMemberInput, optFns ...func(*macie2.Options)) (*macie2.CreateMemberOutput, error)
}

// Macie wraps the Macie calls of the sweep. Macie must be enabled in both the
// management and the delegated administrator account before configuration
// sticks.
type Macie struct {
	api    MacieAPI
	region string
}

// NewMacie binds a real client in the given region.
func NewMacie(cfg awsv2.Config, region string) *Macie {
	return &Macie{
		api: macie2.NewFromConfig(cfg, func(o *macie2.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newMacie(api MacieAPI, region string) *Macie {
	return &Macie{api: api, region: region}
}

// Enable turns Macie on in the caller account. Already-enabled accounts
// answer with a conflict.
func (m *Macie) Enable(ctx context.Context) error {
	log.Infof("[%s] enabling Macie", m.region)
	_, err := m.api.EnableMacie(ctx, &macie2.EnableMacieInput{
		FindingPublishingFrequency: types.FindingPublishingFrequencyFifteenMinutes,
		Status:                     types.MacieStatusEnabled,
	})
	if err := ignoreCode(err, "ConflictException"); err != nil {
		return fmt.Errorf("failed to enable Macie: %w", err)
	}
	return nil
}

// EnableOrganizationAdminAccount delegates Macie administration to accountID.
func (m *Macie) EnableOrganizationAdminAccount(ctx context.Context, accountID string) error {
	log.Infof("[%s] delegating Macie administration to account %s", m.region, accountID)
	_, err := m.api.EnableOrganizationAdminAccount(ctx, &macie2.EnableOrganizationAdminAccountInput{
		AdminAccountId: awsv2.String(accountID),
	})
	if err := ignoreCode(err, "ConflictException"); err != nil {
		return fmt.Errorf("failed to delegate Macie administration to account %s: %w", accountID, err)
	}
	return nil
}

// UpdateOrganizationConfiguration turns on auto-enrollment of new accounts.
func (m *Macie) UpdateOrganizationConfiguration(ctx context.Context) error {
	log.Infof("[%s] updating Macie to auto-enroll new accounts", m.region)
	_, err := m.api.UpdateOrganizationConfiguration(ctx, &macie2.UpdateOrganizationConfigurationInput{
		AutoEnable: awsv2.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to update Macie organization configuration: %w", err)
	}
	return nil
}

// CreateMembers enrolls the given accounts as Macie members, one call per
// account; Macie has no batch member API. The administrator's own account
// answers with a validation error, which is fine.
func (m *Macie) CreateMembers(ctx context.Context, accounts []Account) error {
	for _, account := range accounts {
		_, err := m.api.CreateMember(ctx, &macie2.CreateMemberInput{
			Account: &types.AccountDetail{
				AccountId: awsv2.String(account.ID),
				Email:     awsv2.String(account.Email),
			},
		})
		if err := ignoreCode(err, "ValidationException"); err != nil {
			return fmt.Errorf("failed to create Macie member %s: %w", account.ID, err)
		}
	}
	return nil
}
