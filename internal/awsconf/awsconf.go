// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package awsconf

import (
	"context"
	"fmt"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/org-setup/org-setup/internal/log"
)

// maxRetryAttempts matches the retry posture the sweep has always run with:
// standard mode, up to ten attempts per call. Organization-wide enablement
// hits throttling-prone control-plane APIs, so the ceiling is deliberately
// high.
const maxRetryAttempts = 10

// assumeRoleDuration is the shortest duration STS allows. The sweep never
// holds delegated credentials longer than a single invocation.
const assumeRoleDuration = 15 * time.Minute

// options holds optional overrides for AWS config loading.
type options struct {
	profile       string
	region        string
	retryAttempts int
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the execution environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// Load loads AWS SDK v2 config with the standard retry mode. By default it
// inherits the Lambda execution role credentials; the CLI passes WithProfile
// to run against a named profile instead.
func Load(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	o := options{retryAttempts: maxRetryAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("opts applied: profile=%s, region=%s", o.profile, o.region)

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRetryMode(awsv2.RetryModeStandard),
		config.WithRetryMaxAttempts(o.retryAttempts),
	}
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	log.Debugf("config loaded")
	return cfg, nil
}

// AssumeRole derives a config whose credentials come from assuming roleName
// in accountID. Credentials are cached and refreshed by the SDK, so the
// returned config can be shared across regional clients.
func AssumeRole(cfg awsv2.Config, accountID, roleName, sessionName string) awsv2.Config {
	roleARN := fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, roleName)
	log.Infof("assuming role %s in account %s", roleName, accountID)

	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(cfg), roleARN,
		func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = sessionName
			o.Duration = assumeRoleDuration
		})

	out := cfg.Copy()
	out.Credentials = awsv2.NewCredentialsCache(provider)
	return out
}

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithRetryAttempts overrides the retry ceiling; if not set, ten attempts in
// standard mode are used.
func WithRetryAttempts(attempts int) Option {
	return func(o *options) { o.retryAttempts = attempts }
}
