// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ram"

	"github.com/org-setup/org-setup/internal/log"
)

// RAMAPI is the subset of the Resource Access Manager client the sweep uses.
type RAMAPI interface {
	EnableSharingWithAwsOrganization(ctx context.Context, params *ram.EnableSharingWithAwsOrganizationInput, optFns ...func(*ram.Options)) (*ram.EnableSharingWithAwsOrganizationOutput, error)
}

// RAM wraps the resource-sharing enablement call.
type RAM struct {
	api    RAMAPI
	region string
}

// NewRAM binds a real client in the given region.
func NewRAM(cfg awsv2.Config, region string) *RAM {
	return &RAM{
		api: ram.NewFromConfig(cfg, func(o *ram.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newRAM(api RAMAPI, region string) *RAM {
	return &RAM{api: api, region: region}
}

// EnableSharingWithOrganization enables resource sharing across the
// organization. Repeat calls answer with OperationNotPermittedException.
func (r *RAM) EnableSharingWithOrganization(ctx context.Context) error {
	log.Infof("[%s] enabling RAM sharing with organization", r.region)
	_, err := r.api.EnableSharingWithAwsOrganization(ctx, &ram.EnableSharingWithAwsOrganizationInput{})
	if err := ignoreCode(err, "OperationNotPermittedException"); err != nil {
		return fmt.Errorf("failed to enable RAM sharing with organization: %w", err)
	}
	return nil
}
