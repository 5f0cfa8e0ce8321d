// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/inspector2"

	"github.com/org-setup/org-setup/internal/log"
)

// InspectorAPI is the subset of the Inspector client the sweep uses.
type InspectorAPI interface {
	EnableDelegatedAdminAccount(ctx context.Context, params *inspector2.EnableDelegatedAdminAccountInput, optFns ...func(*inspector2.Options)) (*inspector2.EnableDelegatedAdminAccountOutput, error)
}

// Inspector wraps the Inspector delegation call.
type Inspector struct {
	api    InspectorAPI
	region string
}

// NewInspector binds a real client in the given region.
func NewInspector(cfg awsv2.Config, region string) *Inspector {
	return &Inspector{
		api: inspector2.NewFromConfig(cfg, func(o *inspector2.Options) {
			o.Region = region
		}),
		region: region,
	}
}

func newInspector(api InspectorAPI, region string) *Inspector {
	return &Inspector{api: api, region: region}
}

// EnableDelegatedAdminAccount delegates Inspector administration to
// accountID. An existing delegation answers with a conflict.
func (i *Inspector) EnableDelegatedAdminAccount(ctx context.Context, accountID string) error {
	log.Infof("[%s] delegating Inspector administration to account %s", i.region, accountID)
	_, err := i.api.EnableDelegatedAdminAccount(ctx, &inspector2.EnableDelegatedAdminAccountInput{
		DelegatedAdminAccountId: awsv2.String(accountID),
	})
	if err := ignoreCode(err, "ConflictException"); err != nil {
		return fmt.Errorf("failed to delegate Inspector administration to account %s: %w", accountID, err)
	}
	return nil
}
