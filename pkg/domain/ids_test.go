package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vocilia/pkg/domain-errors"
)

// TestParseSessionID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseSessionID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSessionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSessionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseSessionID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseSessionID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, SessionID(valid), id)
		assert.False(t, id.IsNil())
	})
}

func TestParseBusinessID_Invariants(t *testing.T) {
	t.Run("round-trips through String", func(t *testing.T) {
		id := NewBusinessID()
		parsed, err := ParseBusinessID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseBusinessID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestSessionID_JSONRoundTrip(t *testing.T) {
	type payload struct {
		SessionID  SessionID  `json:"session_id"`
		BusinessID BusinessID `json:"business_id"`
	}

	in := payload{SessionID: NewSessionID(), BusinessID: NewBusinessID()}
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.SessionID.String(), "IDs marshal as UUID strings")

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)

	// Unmarshal validates like Parse does.
	var bad payload
	err = json.Unmarshal([]byte(`{"session_id":"not-a-uuid"}`), &bad)
	require.Error(t, err)
}

// TestTypeDistinction verifies the compiler enforces type safety.
// If this compiles, the invariant holds: a SessionID cannot be assigned
// where a BusinessID is expected.
func TestTypeDistinction(t *testing.T) {
	sessionID := SessionID(uuid.New())
	businessID := BusinessID(uuid.New())

	// These would fail to compile if the types were interchangeable:
	// var _ SessionID = businessID   // compile error
	// var _ BusinessID = sessionID   // compile error

	assert.NotEqual(t, uuid.UUID(sessionID), uuid.UUID(businessID))
}
