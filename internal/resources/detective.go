// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/detective"

	"github.com/org-setup/org-setup/internal/log"
)

// DetectiveAPI is the subset of the Detective client the sweep uses.
type DetectiveAPI interface {
	EnableOrganizationAdminAccount(ctx context.Context, params *detective.EnableOrganizationAdminAccountInput, optFns ...func(*detective.Options)) (*detective.EnableOrganizationAdminAccountOutput, error)
}

// Detective wraps the Detective delegation call. Delegation requires
// GuardDuty to have been enabled for at least 48 hours, so this step is
// opt-in.
type Detective struct {
	api    DetectiveAPI
	region string
}

// NewDetective binds a real client in the given region.
func NewDetective(cfg awsv2.Config, region string) *Detective {
	return &Detective{
		api: detective.NewFromConfig(cfg, func(o *detective.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newDetective(api DetectiveAPI, region string) *Detective {
	return &Detective{api: api, region: region}
}

// EnableOrganizationAdminAccount delegates Detective administration to
// accountID.
func (d *Detective) EnableOrganizationAdminAccount(ctx context.Context, accountID string) error {
	log.Infof("[%s] delegating Detective administration to account %s", d.region, accountID)
	_, err := d.api.EnableOrganizationAdminAccount(ctx, &detective.EnableOrganizationAdminAccountInput{
		AccountId: awsv2.String(accountID),
	})
	if err := ignoreCode(err, "InternalServerException"); err != nil {
		return fmt.Errorf("failed to delegate Detective administration to account %s: %w", accountID, err)
	}
	return nil
}
