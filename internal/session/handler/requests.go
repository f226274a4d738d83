package handler

import (
	"strings"

	"vocilia/internal/transcript"
	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

// StartSessionRequest is the HTTP request body for POST /sessions.
// session_id is optional; capture layers that pre-generate ids supply one and
// get duplicate detection.
type StartSessionRequest struct {
	SessionID      string   `json:"session_id,omitempty"`
	BusinessID     string   `json:"business_id"`
	CustomerHash   string   `json:"customer_hash"`
	PurchaseAmount int64    `json:"purchase_amount"`
	PurchaseItems  []string `json:"purchase_items,omitempty"`

	// Parsed values (populated by Validate)
	parsedSessionID  id.SessionID
	parsedBusinessID id.BusinessID
	parsedAmount     id.Money
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *StartSessionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.CustomerHash) > 128 {
		return dErrors.New(dErrors.CodeValidation, "customer_hash must be at most 128 characters")
	}
	if len(r.PurchaseItems) > 100 {
		return dErrors.New(dErrors.CodeValidation, "purchase_items must have at most 100 entries")
	}
	for _, item := range r.PurchaseItems {
		if len(item) > 200 {
			return dErrors.New(dErrors.CodeValidation, "purchase item names must be at most 200 characters")
		}
	}

	r.SessionID = strings.TrimSpace(r.SessionID)
	if r.SessionID != "" {
		sessionID, err := id.ParseSessionID(r.SessionID)
		if err != nil {
			return err
		}
		r.parsedSessionID = sessionID
	}

	businessID, err := id.ParseBusinessID(strings.TrimSpace(r.BusinessID))
	if err != nil {
		return err
	}
	r.parsedBusinessID = businessID

	r.CustomerHash = strings.TrimSpace(r.CustomerHash)
	if r.CustomerHash == "" {
		return dErrors.New(dErrors.CodeValidation, "customer_hash is required")
	}

	amount, err := id.ParseMoney(r.PurchaseAmount)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return dErrors.New(dErrors.CodeInvalidAmount, "purchase_amount must be positive")
	}
	r.parsedAmount = amount

	return nil
}

// ParsedSessionID returns the validated session ID, or the nil ID when the
// caller left it to the server.
func (r *StartSessionRequest) ParsedSessionID() id.SessionID {
	return r.parsedSessionID
}

// ParsedBusinessID returns the validated business ID.
func (r *StartSessionRequest) ParsedBusinessID() id.BusinessID {
	return r.parsedBusinessID
}

// ParsedCustomerHash returns the trimmed customer hash.
func (r *StartSessionRequest) ParsedCustomerHash() id.CustomerHash {
	return id.CustomerHash(r.CustomerHash)
}

// ParsedPurchaseAmount returns the validated purchase amount in minor units.
func (r *StartSessionRequest) ParsedPurchaseAmount() id.Money {
	return r.parsedAmount
}

// AppendTurnRequest is the HTTP request body for POST /sessions/{id}/turns.
type AppendTurnRequest struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`

	// Parsed values (populated by Validate)
	parsedTurn transcript.Turn
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AppendTurnRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.Text) > 10_000 {
		return dErrors.New(dErrors.CodeValidation, "text must be at most 10000 characters")
	}

	speaker := transcript.Speaker(strings.ToLower(strings.TrimSpace(r.Speaker)))
	if !speaker.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "speaker must be customer or system")
	}

	r.parsedTurn = transcript.Turn{
		Speaker:    speaker,
		Text:       r.Text,
		Confidence: r.Confidence,
	}
	return r.parsedTurn.Validate()
}

// ParsedTurn returns the validated turn. Its timestamp is zero; the manager
// stamps arrival time.
func (r *AppendTurnRequest) ParsedTurn() transcript.Turn {
	return r.parsedTurn
}

// CompleteSessionRequest is the HTTP request body for
// POST /sessions/{id}/complete. An empty object is a valid body.
type CompleteSessionRequest struct {
	VoiceAuthenticity *float64 `json:"voice_authenticity,omitempty"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CompleteSessionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.VoiceAuthenticity != nil && (*r.VoiceAuthenticity < 0 || *r.VoiceAuthenticity > 1) {
		return dErrors.New(dErrors.CodeValidation, "voice_authenticity must be in [0,1]")
	}
	return nil
}
