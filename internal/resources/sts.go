// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSAPI is the subset of the STS client in use.
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// STS answers identity questions for the CLI; role assumption itself lives in
// the awsconf package.
type STS struct {
	api STSAPI
}

// NewSTS binds a real client.
func NewSTS(cfg awsv2.Config) *STS {
	return &STS{api: sts.NewFromConfig(cfg)}
}

func newSTS(api STSAPI) *STS {
	return &STS{api: api}
}

// CallerAccountID returns the account ID of the current credentials.
func (s *STS) CallerAccountID(ctx context.Context) (string, error) {
	out, err := s.api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return awsv2.ToString(out.Account), nil
}
