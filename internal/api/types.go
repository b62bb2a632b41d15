package api

import (
	"time"

	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultPrefix  = "/api"
	defaultTimeout = 60 * time.Second
)

// Config holds the static inputs of the REST client.
type Config struct {
	BaseURL string
	Prefix  string
	Timeout time.Duration
}

// Preferences carries the optional user-profile overrides of a generate
// request. Omitted fields are left to backend defaults.
type Preferences struct {
	BudgetLimit         *float64       `json:"budget_limit,omitempty"`
	Preferences         []string       `json:"preferences,omitempty"`
	SensitiveToRain     *bool          `json:"sensitive_to_rain,omitempty"`
	DietaryRestrictions []string       `json:"dietary_restrictions,omitempty"`
	MobilityConstraints map[string]any `json:"mobility_constraints,omitempty"`
}

// Empty reports whether no override field is set.
func (p Preferences) Empty() bool {
	return p.BudgetLimit == nil &&
		len(p.Preferences) == 0 &&
		p.SensitiveToRain == nil &&
		len(p.DietaryRestrictions) == 0 &&
		len(p.MobilityConstraints) == 0
}

// GenerateRequest is the POST /plan/generate body. Preferences is included
// only when at least one override is set.
type GenerateRequest struct {
	Intent      string       `json:"intent"`
	UserID      string       `json:"user_id,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}

// GenerateResponse is the POST /plan/generate response envelope.
type GenerateResponse struct {
	Success    bool                   `json:"success"`
	Data       *plan.TripPlan         `json:"data,omitempty"`
	Validation *plan.ValidationResult `json:"validation,omitempty"`
	Error      string                 `json:"error,omitempty"`
}
