// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/auditmanager"

	"github.com/org-setup/org-setup/internal/log"
)

// AuditManagerAPI is the subset of the Audit Manager client the sweep uses.
type AuditManagerAPI interface {
	RegisterOrganizationAdminAccount(ctx context.Context, params *auditmanager.RegisterOrganizationAdminAccountInput, optFns ...func(*auditmanager.Options)) (*auditmanager.RegisterOrganizationAdminAccountOutput, error)
}

// AuditManager wraps the Audit Manager delegation call.
type AuditManager struct {
	api    AuditManagerAPI
	region string
}

// NewAuditManager binds a real client in the given region.
func NewAuditManager(cfg awsv2.Config, region string) *AuditManager {
	return &AuditManager{
		api: auditmanager.NewFromConfig(cfg, func(o *auditmanager.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newAuditManager(api AuditManagerAPI, region string) *AuditManager {
	return &AuditManager{api: api, region: region}
}

// RegisterOrganizationAdminAccount delegates Audit Manager administration to
// accountID.
func (a *AuditManager) RegisterOrganizationAdminAccount(ctx context.Context, accountID string) error {
	log.Infof("[%s] enabling account %s to be Audit Manager admin account", a.region, accountID)
	_, err := a.api.RegisterOrganizationAdminAccount(ctx, &auditmanager.RegisterOrganizationAdminAccountInput{
		AdminAccountId: awsv2.String(accountID),
	})
	if err := ignoreCode(err, "InternalServerException"); err != nil {
		return fmt.Errorf("failed to enable Audit Manager admin account %s: %w", accountID, err)
	}
	return nil
}
