// Package domain holds strongly typed identifiers shared across services.
// Wrapping uuid.UUID in distinct types keeps user and referral identifiers
// from being swapped at call sites.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID identifies a user in the external identity system.
type UserID uuid.UUID

// ReferralID identifies a single converted referral record.
type ReferralID uuid.UUID

// NewReferralID mints a fresh referral identifier.
func NewReferralID() ReferralID {
	return ReferralID(uuid.New())
}

// ParseUserID parses a string form user ID. Rejects the nil UUID so a
// missing field never silently becomes a valid identifier.
func ParseUserID(s string) (UserID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("parse user id: %w", err)
	}
	if parsed == uuid.Nil {
		return UserID{}, fmt.Errorf("user id must not be the nil uuid")
	}
	return UserID(parsed), nil
}

// ParseReferralID parses a string form referral ID.
func ParseReferralID(s string) (ReferralID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ReferralID{}, fmt.Errorf("parse referral id: %w", err)
	}
	if parsed == uuid.Nil {
		return ReferralID{}, fmt.Errorf("referral id must not be the nil uuid")
	}
	return ReferralID(parsed), nil
}

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id ReferralID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the ID is unset.
func (id UserID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ReferralID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText implements encoding.TextMarshaler so IDs serialize as their
// canonical string form in JSON payloads.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ReferralID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ReferralID) UnmarshalText(b []byte) error {
	parsed, err := ParseReferralID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
