// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package awsconf loads AWS SDK v2 configuration for the management account
// and derives assume-role configurations for cross-account calls into the
// delegated administrator account.
package awsconf
