// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/org-setup/org-setup/internal/awsconf"
	"github.com/org-setup/org-setup/internal/config"
	"github.com/org-setup/org-setup/internal/handler"
	"github.com/org-setup/org-setup/internal/log"
	"github.com/org-setup/org-setup/internal/setup"
	"github.com/org-setup/org-setup/internal/version"
)

func main() {
	log.InitLogger()
	log.Debugf("starting org-setup %s", version.Version)
	lambda.Start(run)
}

// run wires configuration, AWS credentials and the sweep together per
// invocation. The payload stays raw; the handler decides what it is.
func run(ctx context.Context, raw json.RawMessage) error {
	settings, err := config.Load()
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		return err
	}

	cfg, err := awsconf.Load(ctx)
	if err != nil {
		log.WithError(err).Error("failed to load AWS config")
		return err
	}

	h := handler.New(settings, setup.New(cfg, settings))
	return h.Handle(ctx, raw)
}
