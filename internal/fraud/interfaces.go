package fraud

import (
	"context"
	"time"

	"vocilia/internal/transcript"
	id "vocilia/pkg/domain"
)

// Input is the session snapshot a signal evaluates against. Fields a signal
// does not need are left zero; sources must tolerate missing metadata.
type Input struct {
	SessionID    id.SessionID
	BusinessID   id.BusinessID
	CustomerHash id.CustomerHash

	Transcript        *transcript.Aggregator
	DeviceFingerprint string
	ClientIP          string

	// VoiceAuthenticity is the synthetic-voice confidence supplied by the
	// voice front end, nil when it did not report one.
	VoiceAuthenticity *float64
}

// SignalSource evaluates one risk signal. Errors mark the source unavailable;
// the assessor degrades the signal instead of failing the assessment.
type SignalSource interface {
	Type() SignalType
	Evaluate(ctx context.Context, in Input) (SignalResult, error)
}

// DeviceUsage counts how often a fingerprint started sessions per period.
type DeviceUsage struct {
	Daily   int
	Weekly  int
	Monthly int
}

// DeviceUsageStore counts fingerprint use across sessions.
type DeviceUsageStore interface {
	// Touch records one use at the given time and returns the counts
	// including it. The record and read are atomic per fingerprint.
	Touch(ctx context.Context, fingerprint string, at time.Time) (DeviceUsage, error)
}

// Location is a WGS84 coordinate.
type Location struct {
	Latitude  float64
	Longitude float64
}

// LocationObservation is one sighting of a customer.
type LocationObservation struct {
	Location Location
	At       time.Time
}

// LocationResolver maps a client IP to a coordinate. The second return is
// false when no fix is available for the address.
type LocationResolver interface {
	Resolve(ctx context.Context, ip string) (Location, bool, error)
}

// LocationStore keeps the travel history per customer.
type LocationStore interface {
	// Observe records a sighting and returns the previous one, nil when
	// this is the customer's first.
	Observe(ctx context.Context, customer id.CustomerHash, loc Location, at time.Time) (*LocationObservation, error)
}

// BurstStore counts session events in a rolling window.
type BurstStore interface {
	// Touch records one event at the given time and returns how many
	// events the window now holds, including it.
	Touch(ctx context.Context, key string, at time.Time, window time.Duration) (int, error)
}

// TranscriptIndex compares a transcript's shingle set against recent
// transcripts for the same business.
type TranscriptIndex interface {
	// Compare returns the highest Jaccard similarity against the indexed
	// transcripts of the business, excluding the session itself, then
	// indexes the given set.
	Compare(ctx context.Context, businessID id.BusinessID, sessionID id.SessionID, shingles []uint64) (float64, error)
}
