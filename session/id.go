/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const idLayout = "20060102_150405"

var idPattern = regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{8}$`)

// NewID returns a fresh session id stamped with the current time.
func NewID() string {
	return NewIDAt(time.Now())
}

// NewIDAt returns a fresh session id stamped with t.
func NewIDAt(t time.Time) string {
	return t.Format(idLayout) + "_" + uuid.NewString()[:8]
}

// Validate reports whether id is safe to use as a storage prefix. Any
// non-empty id made of letters, digits, '-' and '_' is accepted, so that
// callers may bring their own ids.
func Validate(id string) error {
	if id == "" {
		return errors.New("session id cannot be empty")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("session id %q contains invalid character %q", id, r)
		}
	}
	return nil
}

// StartedAt recovers the timestamp from an id produced by NewID.
func StartedAt(id string) (time.Time, error) {
	if !idPattern.MatchString(id) {
		return time.Time{}, fmt.Errorf("session id %q was not generated by this package", id)
	}
	return time.ParseInLocation(idLayout, id[:len(idLayout)], time.Local)
}

// Prefix is the storage prefix for everything saved under id.
func Prefix(id string) string {
	return "session_" + id
}
