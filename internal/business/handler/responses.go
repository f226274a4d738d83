package handler

import (
	"time"

	"vocilia/internal/business"
)

// ContextResponse is the JSON shape of one business context record.
type ContextResponse struct {
	BusinessID   string    `json:"business_id"`
	Name         string    `json:"name"`
	BusinessType string    `json:"business_type"`
	Language     string    `json:"language"`
	StaffNames   []string  `json:"staff_names,omitempty"`
	Departments  []string  `json:"departments,omitempty"`
	Promotions   []string  `json:"promotions,omitempty"`
	KnownIssues  []string  `json:"known_issues,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromContext(c *business.Context) ContextResponse {
	return ContextResponse{
		BusinessID:   c.BusinessID.String(),
		Name:         c.Name,
		BusinessType: string(c.BusinessType),
		Language:     c.Language,
		StaffNames:   c.StaffNames,
		Departments:  c.Departments,
		Promotions:   c.Promotions,
		KnownIssues:  c.KnownIssues,
		UpdatedAt:    c.UpdatedAt,
	}
}
