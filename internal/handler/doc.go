// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package handler routes the raw Lambda payload. Two shapes trigger the
// sweep: the Control Tower SetupLandingZone lifecycle event delivered
// through EventBridge, and a CloudFormation custom-resource Create/Update.
// Custom-resource Deletes are acknowledged and ignored; anything else is
// logged and dropped.
package handler
