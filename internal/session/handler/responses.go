package handler

import (
	"time"

	"vocilia/internal/session"
)

// StartSessionResponse is the HTTP response for POST /sessions.
type StartSessionResponse struct {
	SessionID  string    `json:"session_id"`
	BusinessID string    `json:"business_id"`
	State      string    `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	TurnToken  string    `json:"turn_token"`
}

// FromStartResult converts a start result to an HTTP response.
func FromStartResult(result *session.StartResult) *StartSessionResponse {
	return &StartSessionResponse{
		SessionID:  result.Session.ID.String(),
		BusinessID: result.Session.BusinessID.String(),
		State:      string(result.Session.State),
		StartedAt:  result.Session.StartedAt,
		TurnToken:  result.TurnToken,
	}
}

// SessionResponse is the HTTP representation of a session snapshot. Quality,
// fraud, and reward appear once the session completes.
type SessionResponse struct {
	SessionID      string    `json:"session_id"`
	BusinessID     string    `json:"business_id"`
	State          string    `json:"state"`
	StartedAt      time.Time `json:"started_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Turns          int       `json:"turns"`

	Quality *QualityResponse    `json:"quality,omitempty"`
	Fraud   *AssessmentResponse `json:"fraud,omitempty"`
	Reward  *RewardResponse     `json:"reward,omitempty"`
}

// QualityResponse is the quality portion of a completed session.
type QualityResponse struct {
	Authenticity float64 `json:"authenticity"`
	Concreteness float64 `json:"concreteness"`
	Depth        float64 `json:"depth"`
	Total        float64 `json:"total"`
	Reasoning    string  `json:"reasoning"`
}

// AssessmentResponse is the fraud portion of a completed session.
type AssessmentResponse struct {
	RiskScore    float64 `json:"risk_score"`
	RiskLevel    string  `json:"risk_level"`
	Blocked      bool    `json:"blocked"`
	ManualReview bool    `json:"manual_review"`
}

// RewardResponse is the reward portion of a completed session, amounts in
// minor units.
type RewardResponse struct {
	BaseReward          int64     `json:"base_reward"`
	FraudAdjustedReward int64     `json:"fraud_adjusted_reward"`
	FinalReward         int64     `json:"final_reward"`
	Commission          int64     `json:"commission"`
	BusinessCost        int64     `json:"business_cost"`
	Blocked             bool      `json:"blocked"`
	DecidedAt           time.Time `json:"decided_at"`
}

// FromSession converts a session snapshot to an HTTP response.
func FromSession(sess *session.Session) *SessionResponse {
	resp := &SessionResponse{
		SessionID:      sess.ID.String(),
		BusinessID:     sess.BusinessID.String(),
		State:          string(sess.State),
		StartedAt:      sess.StartedAt,
		LastActivityAt: sess.LastActivityAt,
	}
	if sess.Transcript != nil {
		resp.Turns = sess.Transcript.TotalTurns()
	}
	if sess.Quality != nil {
		resp.Quality = &QualityResponse{
			Authenticity: sess.Quality.Authenticity,
			Concreteness: sess.Quality.Concreteness,
			Depth:        sess.Quality.Depth,
			Total:        sess.Quality.Total,
			Reasoning:    sess.Quality.Reasoning,
		}
	}
	if sess.Assessment != nil {
		resp.Fraud = &AssessmentResponse{
			RiskScore:    sess.Assessment.OverallRiskScore,
			RiskLevel:    string(sess.Assessment.RiskLevel),
			Blocked:      sess.Assessment.SessionBlocked,
			ManualReview: sess.Assessment.ManualReview,
		}
	}
	if sess.Result != nil {
		resp.Reward = &RewardResponse{
			BaseReward:          sess.Result.BaseReward.Minor(),
			FraudAdjustedReward: sess.Result.FraudAdjustedReward.Minor(),
			FinalReward:         sess.Result.TierCappedReward.Minor(),
			Commission:          sess.Result.Commission.Minor(),
			BusinessCost:        sess.Result.BusinessCost.Minor(),
			Blocked:             sess.Result.Blocked,
			DecidedAt:           sess.Result.DecidedAt,
		}
	}
	return resp
}
