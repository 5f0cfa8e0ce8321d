// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"
	"sort"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EC2API is the subset of the EC2 client the sweep uses.
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// EC2 wraps region discovery. Only used when the deployment does not pin a
// region list.
type EC2 struct {
	api EC2API
}

// NewEC2 binds a real client in the given region.
func NewEC2(cfg awsv2.Config, region string) *EC2 {
	return &EC2{api: ec2.NewFromConfig(cfg, func(o *ec2.Options) {
		o.Region = region
	})}
}

func newEC2(api EC2API) *EC2 {
	return &EC2{api: api}
}

// Regions returns every region that does not require opt-in, sorted.
func (e *EC2) Regions(ctx context.Context) ([]string, error) {
	out, err := e.api.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		Filters: []types.Filter{
			{
				Name:   awsv2.String("opt-in-status"),
				Values: []string{"opt-in-not-required"},
			},
		},
		AllRegions: awsv2.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, region := range out.Regions {
		regions = append(regions, awsv2.ToString(region.RegionName))
	}
	sort.Strings(regions)
	return regions, nil
}
