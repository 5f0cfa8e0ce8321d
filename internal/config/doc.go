// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides the deploy-time settings of the organization setup
// function. In the Lambda the source of truth is the environment variables
// declared by the deployment template; the operator CLI can additionally read
// the same settings from a YAML file and override individual values with
// flags.
package config
