// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/fms"

	"github.com/org-setup/org-setup/internal/log"
)

// FMSAPI is the subset of the Firewall Manager client the sweep uses.
type FMSAPI interface {
	AssociateAdminAccount(ctx context.Context, params *fms.AssociateAdminAccountInput, optFns ...func(*fms.Options)) (*fms.AssociateAdminAccountOutput, error)
}

// FMS wraps the Firewall Manager delegation call.
type FMS struct {
	api    FMSAPI
	region string
}

// NewFMS binds a real client in the given region.
func NewFMS(cfg awsv2.Config, region string) *FMS {
	return &FMS{
		api: fms.NewFromConfig(cfg, func(o *fms.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newFMS(api FMSAPI, region string) *FMS {
	return &FMS{api: api, region: region}
}

// AssociateAdminAccount delegates Firewall Manager administration to
// accountID. Regions where Firewall Manager cannot be delegated answer with
// InvalidOperationException; an existing association surfaces as an internal
// error on repeat calls.
func (f *FMS) AssociateAdminAccount(ctx context.Context, accountID string) error {
	log.Infof("[%s] delegating Firewall Manager administration to account %s", f.region, accountID)
	_, err := f.api.AssociateAdminAccount(ctx, &fms.AssociateAdminAccountInput{
		AdminAccount: awsv2.String(accountID),
	})
	if hasCode(err, "InvalidOperationException") {
		log.Warnf("[%s] Firewall Manager delegation is not supported", f.region)
		return nil
	}
	if err := ignoreCode(err, "InternalErrorException"); err != nil {
		return fmt.Errorf("failed to delegate Firewall Manager administration to account %s: %w", accountID, err)
	}
	return nil
}
