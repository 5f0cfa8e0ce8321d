// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package setup runs the organization-wide configuration sweep: the
// Organizations-level calls first, then the per-region service enablement
// fanned out over a bounded worker pool. Every step is idempotent, so a
// failed invocation can simply be run again.
package setup
