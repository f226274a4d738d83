// Package domain holds shared domain primitives: typed identifiers and money.
//
// IDs are distinct uuid-backed types so a SessionID can never be passed where
// a BusinessID is expected. Construct via the Parse functions at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "vocilia/pkg/domain-errors"
)

// SessionID identifies one customer feedback session.
type SessionID uuid.UUID

// BusinessID identifies a participating business.
type BusinessID uuid.UUID

// NewSessionID returns a fresh random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.New())
}

// NewBusinessID returns a fresh random business ID.
func NewBusinessID() BusinessID {
	return BusinessID(uuid.New())
}

// ParseSessionID constructs a SessionID from external input.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session_id")
	if err != nil {
		return SessionID{}, err
	}
	return SessionID(u), nil
}

// ParseBusinessID constructs a BusinessID from external input.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseBusinessID(s string) (BusinessID, error) {
	u, err := parseUUID(s, "business_id")
	if err != nil {
		return BusinessID{}, err
	}
	return BusinessID(u), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" cannot be the nil UUID")
	}
	return u, nil
}

func (id SessionID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string for JSON and logs.
func (id SessionID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText parses and validates an inbound UUID string.
func (id *SessionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id BusinessID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id BusinessID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string for JSON and logs.
func (id BusinessID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText parses and validates an inbound UUID string.
func (id *BusinessID) UnmarshalText(b []byte) error {
	parsed, err := ParseBusinessID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// CustomerHash is the anonymous, non-reversible customer identifier delivered
// by the capture layer. The core never sees the underlying phone number or
// payment handle; it only correlates sessions by this hash.
type CustomerHash string

// IsZero reports whether no customer hash was supplied.
func (h CustomerHash) IsZero() bool { return h == "" }
