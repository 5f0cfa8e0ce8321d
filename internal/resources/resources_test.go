// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package resources

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

// apiErr builds the kind of error the SDK surfaces for a service-side
// failure.
func apiErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

func TestIgnoreCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		codes   []string
		wantNil bool
	}{
		{
			name:    "nil error",
			err:     nil,
			codes:   []string{"ConflictException"},
			wantNil: true,
		},
		{
			name:    "matching code",
			err:     apiErr("ConflictException"),
			codes:   []string{"ConflictException"},
			wantNil: true,
		},
		{
			name:    "second code matches",
			err:     apiErr("InternalErrorException"),
			codes:   []string{"InvalidOperationException", "InternalErrorException"},
			wantNil: true,
		},
		{
			name:    "non-matching code",
			err:     apiErr("AccessDeniedException"),
			codes:   []string{"ConflictException"},
			wantNil: false,
		},
		{
			name:    "wrapped API error",
			err:     fmt.Errorf("call failed: %w", apiErr("ConflictException")),
			codes:   []string{"ConflictException"},
			wantNil: true,
		},
		{
			name:    "plain error",
			err:     errors.New("connection reset"),
			codes:   []string{"ConflictException"},
			wantNil: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ignoreCode(tt.err, tt.codes...)
			if tt.wantNil {
				assert.NoError(t, got)
			} else {
				assert.Equal(t, tt.err, got)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	assert.True(t, hasCode(apiErr("ValidationException"), "ValidationException"))
	assert.True(t, hasCode(fmt.Errorf("wrapped: %w", apiErr("ValidationException")), "ValidationException"))
	assert.False(t, hasCode(apiErr("ValidationException"), "ConflictException"))
	assert.False(t, hasCode(errors.New("nope"), "ValidationException"))
	assert.False(t, hasCode(nil, "ValidationException"))
}
