// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/org-setup/org-setup/internal/log"
)

// CloudFormationAPI is the subset of the CloudFormation client the sweep
// uses.
type CloudFormationAPI interface {
	ActivateOrganizationsAccess(ctx context.Context, params *cloudformation.ActivateOrganizationsAccessInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ActivateOrganizationsAccessOutput, error)
}

// CloudFormation wraps the StackSets organization-access activation call.
type CloudFormation struct {
	api    CloudFormationAPI
	region string
}

// NewCloudFormation binds a real client in the given region.
func NewCloudFormation(cfg awsv2.Config, region string) *CloudFormation {
	return &CloudFormation{
		api: cloudformation.NewFromConfig(cfg, func(o *cloudformation.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newCloudFormation(api CloudFormationAPI, region string) *CloudFormation {
	return &CloudFormation{api: api, region: region}
}

// ActivateOrganizationsAccess activates organization access for StackSets
// with service-managed permissions.
func (c *CloudFormation) ActivateOrganizationsAccess(ctx context.Context) error {
	log.Infof("[%s] activating organizations access for StackSets", c.region)
	_, err := c.api.ActivateOrganizationsAccess(ctx, &cloudformation.ActivateOrganizationsAccessInput{})
	if err := ignoreCode(err, "InvalidOperationException"); err != nil {
		return fmt.Errorf("failed to activate organizations access: %w", err)
	}
	return nil
}
