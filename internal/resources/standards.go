// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"

	"github.com/org-setup/org-setup/internal/log"
)

// StandardsAPI is the subset of the Security Hub client the disablehub CLI
// uses. Kept apart from SecurityHubAPI so the sweep's fakes don't have to
// implement teardown calls.
type StandardsAPI interface {
	GetEnabledStandards(ctx context.Context, params *securityhub.GetEnabledStandardsInput, optFns ...func(*securityhub.Options)) (*securityhub.GetEnabledStandardsOutput, error)
	BatchDisableStandards(ctx context.Context, params *securityhub.BatchDisableStandardsInput, optFns ...func(*securityhub.Options)) (*securityhub.BatchDisableStandardsOutput, error)
}

// Standards disables enabled Security Hub standards in one account/region.
type Standards struct {
	api    StandardsAPI
	region string
}

// NewStandards binds a real client in the given region.
func NewStandards(cfg awsv2.Config, region string) *Standards {
	return &Standards{
		api: securityhub.NewFromConfig(cfg, func(o *securityhub.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newStandards(api StandardsAPI, region string) *Standards {
	return &Standards{api: api, region: region}
}

// DisableAll disables every enabled standard and returns how many it
// disabled. Accounts where Security Hub was never enabled answer with
// InvalidAccessException and count as zero.
func (s *Standards) DisableAll(ctx context.Context) (int, error) {
	var arns []string
	paginator := securityhub.NewGetEnabledStandardsPaginator(s.api, &securityhub.GetEnabledStandardsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if hasCode(err, "InvalidAccessException") {
				return 0, nil
			}
			return 0, fmt.Errorf("failed to get enabled standards: %w", err)
		}
		for _, sub := range page.StandardsSubscriptions {
			arns = append(arns, awsv2.ToString(sub.StandardsSubscriptionArn))
		}
	}

	if len(arns) == 0 {
		log.Debugf("[%s] no enabled Security Hub standards", s.region)
		return 0, nil
	}

	_, err := s.api.BatchDisableStandards(ctx, &securityhub.BatchDisableStandardsInput{
		StandardsSubscriptionArns: arns,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to disable standards: %w", err)
	}
	return len(arns), nil
}
