// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/securitylake"

	"github.com/org-setup/org-setup/internal/log"
)

// SecurityLakeAPI is the subset of the Security Lake client the sweep uses.
type SecurityLakeAPI interface {
	RegisterDataLakeDelegatedAdministrator(ctx context.Context, params *securitylake.RegisterDataLakeDelegatedAdministratorInput, optFns ...func(*securitylake.Options)) (*securitylake.RegisterDataLakeDelegatedAdministratorOutput, error)
}

// SecurityLake wraps the Security Lake delegation call.
type SecurityLake struct {
	api    SecurityLakeAPI
	region string
}

// NewSecurityLake binds a real client in the given region.
func NewSecurityLake(cfg awsv2.Config, region string) *SecurityLake {
	return &SecurityLake{
		api: securitylake.NewFromConfig(cfg, func(o *securitylake.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newSecurityLake(api SecurityLakeAPI, region string) *SecurityLake {
	return &SecurityLake{api: api, region: region}
}

// RegisterDelegatedAdministrator delegates Security Lake administration to
// accountID. An existing delegation answers with a validation error.
func (s *SecurityLake) RegisterDelegatedAdministrator(ctx context.Context, accountID string) error {
	log.Infof("[%s] delegating Security Lake administration to account %s", s.region, accountID)
	_, err := s.api.RegisterDataLakeDelegatedAdministrator(ctx, &securitylake.RegisterDataLakeDelegatedAdministratorInput{
		AccountId: awsv2.String(accountID),
	})
	if err := ignoreCode(err, "ValidationException"); err != nil {
		return fmt.Errorf("failed to delegate Security Lake administration to account %s: %w", accountID, err)
	}
	return nil
}
