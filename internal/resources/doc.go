// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package resources wraps the AWS service calls the organization sweep makes.
//
// Each type covers one service and each operation is a single SDK call. The
// services all report "already enabled" differently, so every operation knows
// the one error code that means the work was done on a previous run and
// treats it as success. Anything else propagates to the caller and fails the
// invocation.
//
// Types take a small API interface rather than a concrete client so tests can
// substitute fakes; the exported constructors bind the real clients.
package resources
