// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"

	"github.com/org-setup/org-setup/internal/log"
)

// ServiceCatalogAPI is the subset of the Service Catalog client the sweep
// uses.
type ServiceCatalogAPI interface {
	EnableAWSOrganizationsAccess(ctx context.Context, params *servicecatalog.EnableAWSOrganizationsAccessInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.EnableAWSOrganizationsAccessOutput, error)
}

// ServiceCatalog wraps the portfolio-sharing enablement call.
type ServiceCatalog struct {
	api    ServiceCatalogAPI
	region string
}

// NewServiceCatalog binds a real client in the given region.
func NewServiceCatalog(cfg awsv2.Config, region string) *ServiceCatalog {
	return &ServiceCatalog{
		api: servicecatalog.NewFromConfig(cfg, func(o *servicecatalog.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newServiceCatalog(api ServiceCatalogAPI, region string) *ServiceCatalog {
	return &ServiceCatalog{api: api, region: region}
}

// EnableOrganizationsAccess enables organization-wide portfolio sharing.
// Repeat calls answer with InvalidStateException.
func (s *ServiceCatalog) EnableOrganizationsAccess(ctx context.Context) error {
	log.Infof("[%s] enabling organizational access for Service Catalog", s.region)
	_, err := s.api.EnableAWSOrganizationsAccess(ctx, &servicecatalog.EnableAWSOrganizationsAccessInput{})
	if err := ignoreCode(err, "InvalidStateException"); err != nil {
		return fmt.Errorf("failed to enable organizational access for Service Catalog: %w", err)
	}
	return nil
}
