// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/accessanalyzer"
	"github.com/aws/aws-sdk-go-v2/service/accessanalyzer/types"

	"github.com/org-setup/org-setup/internal/log"
)

const (
	organizationAnalyzerName = "OrganizationAnalyzer"
	managementAnalyzerName   = "ManagementAnalyzer"
)

// AccessAnalyzerAPI is the subset of the IAM Access Analyzer client the sweep
// uses.
type AccessAnalyzerAPI interface {
	CreateAnalyzer(ctx context.Context, params *accessanalyzer.CreateAnalyzerInput, optFns ...func(*accessanalyzer.Options)) (*accessanalyzer.CreateAnalyzerOutput, error)
}

// AccessAnalyzer wraps analyzer creation. The organization analyzer is
// created with delegated administrator credentials, the management analyzer
// with management credentials.
type AccessAnalyzer struct {
	api    AccessAnalyzerAPI
	region string
}

// NewAccessAnalyzer binds a real client in the given region.
func NewAccessAnalyzer(cfg awsv2.Config, region string) *AccessAnalyzer {
	return &AccessAnalyzer{
		api: accessanalyzer.NewFromConfig(cfg, func(o *accessanalyzer.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newAccessAnalyzer(api AccessAnalyzerAPI, region string) *AccessAnalyzer {
	return &AccessAnalyzer{api: api, region: region}
}

// CreateOrganizationAnalyzer creates the organization-wide analyzer.
func (a *AccessAnalyzer) CreateOrganizationAnalyzer(ctx context.Context) error {
	return a.createAnalyzer(ctx, organizationAnalyzerName, types.TypeOrganization)
}

// CreateManagementAnalyzer creates the account-level analyzer in the
// management account.
func (a *AccessAnalyzer) CreateManagementAnalyzer(ctx context.Context) error {
	return a.createAnalyzer(ctx, managementAnalyzerName, types.TypeAccount)
}

func (a *AccessAnalyzer) createAnalyzer(ctx context.Context, name string, analyzerType types.Type) error {
	log.Infof("[%s] creating %s IAM access analyzer %s", a.region, analyzerType, name)
	_, err := a.api.CreateAnalyzer(ctx, &accessanalyzer.CreateAnalyzerInput{
		AnalyzerName: awsv2.String(name),
		Type:         analyzerType,
	})
	if err := ignoreCode(err, "ConflictException"); err != nil {
		return fmt.Errorf("failed to create analyzer %s: %w", name, err)
	}
	return nil
}
