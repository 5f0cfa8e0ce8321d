// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package resources

import (
	"errors"

	"github.com/aws/smithy-go"
)

// Account is the subset of an organization account the sweep cares about.
// Security Hub, GuardDuty and Macie member creation all need the ID/email
// pair; the name is only used to resolve the administrator account.
type Account struct {
	ID    string
	Email string
	Name  string
}

// ignoreCode returns nil when err carries one of the given AWS API error
// codes. The sweep runs once per stack operation, so "already done" codes are
// success, not failure.
func ignoreCode(err error, codes ...string) error {
	if err == nil {
		return nil
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		for _, code := range codes {
			if ae.ErrorCode() == code {
				return nil
			}
		}
	}
	return err
}

// hasCode reports whether err carries the given AWS API error code.
func hasCode(err error, code string) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == code
}
