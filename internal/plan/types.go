// Package plan defines the trip-planning domain model shared by the
// transport clients and the session state. All wire shapes use snake_case
// JSON keys to match the backend API.
package plan

import (
	"encoding/json"
	"strings"
	"time"
)

// PlanStatus is the plan lifecycle state asserted by the backend. The client
// only drives verified -> active (via confirm); every other transition is
// read from responses and pushes.
type PlanStatus string

const (
	StatusDraft      PlanStatus = "draft"
	StatusGenerating PlanStatus = "generating"
	StatusValidating PlanStatus = "validating"
	StatusVerified   PlanStatus = "verified"
	StatusActive     PlanStatus = "active"
	StatusMonitoring PlanStatus = "monitoring"
	StatusCompleted  PlanStatus = "completed"
	StatusCancelled  PlanStatus = "cancelled"
)

// UnmarshalJSON accepts any casing and falls back to draft on unknown text.
func (s *PlanStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := PlanStatus(strings.ToLower(raw)); v {
	case StatusDraft, StatusGenerating, StatusValidating, StatusVerified,
		StatusActive, StatusMonitoring, StatusCompleted, StatusCancelled:
		*s = v
	default:
		*s = StatusDraft
	}
	return nil
}

// ActivityType distinguishes indoor from outdoor activities.
type ActivityType string

const (
	TypeIndoor  ActivityType = "indoor"
	TypeOutdoor ActivityType = "outdoor"
)

// UnmarshalJSON accepts any casing and falls back to indoor on unknown text.
func (t *ActivityType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := ActivityType(strings.ToLower(raw)); v {
	case TypeIndoor, TypeOutdoor:
		*t = v
	default:
		*t = TypeIndoor
	}
	return nil
}

// AlertSeverity ranks pushed alerts. Wire values are uppercase.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// UnmarshalJSON accepts any casing and falls back to INFO on unknown text.
func (s *AlertSeverity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := AlertSeverity(strings.ToUpper(raw)); v {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		*s = v
	default:
		*s = SeverityInfo
	}
	return nil
}

// GeoLocation is a point with a display address. Coordinate ranges are not
// enforced client-side.
type GeoLocation struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// BudgetInfo is the cost attached to a single activity.
type BudgetInfo struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Category string  `json:"category"`
}

// UnmarshalJSON fills the documented defaults for absent fields.
func (b *BudgetInfo) UnmarshalJSON(data []byte) error {
	type alias BudgetInfo
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Currency == "" {
		a.Currency = "USD"
	}
	if a.Category == "" {
		a.Category = "general"
	}
	*b = BudgetInfo(a)
	return nil
}

// ActivityItem is one scheduled item within a plan.
type ActivityItem struct {
	ActivityID  string         `json:"activity_id"`
	Name        string         `json:"name"`
	TimeSlot    string         `json:"time_slot"`
	Location    GeoLocation    `json:"location"`
	Budget      BudgetInfo     `json:"budget"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description,omitempty"`
	Constraints map[string]any `json:"constraints,omitempty"`
	RiskScore   float64        `json:"risk_score"`
	Status      string         `json:"status"`
}

// UnmarshalJSON fills the documented defaults for absent fields.
func (a *ActivityItem) UnmarshalJSON(data []byte) error {
	type alias ActivityItem
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Status == "" {
		v.Status = "pending"
	}
	if v.Type == "" {
		v.Type = TypeIndoor
	}
	*a = ActivityItem(v)
	return nil
}

// TripPlan is a generated itinerary with candidate substitutes and an
// optional AI-authored rationale.
type TripPlan struct {
	PlanID        string         `json:"plan_id"`
	Name          string         `json:"name"`
	Status        PlanStatus     `json:"status"`
	MainItinerary []ActivityItem `json:"main_itinerary"`
	Alternatives  []ActivityItem `json:"alternatives"`
	ReasoningPath string         `json:"reasoning_path,omitempty"`
	CreatedAt     *time.Time     `json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// TotalBudget sums the main itinerary amounts. Alternatives do not count.
func (p *TripPlan) TotalBudget() float64 {
	var total float64
	for _, item := range p.MainItinerary {
		total += item.Budget.Amount
	}
	return total
}

// ActivityCount reports the number of scheduled activities.
func (p *TripPlan) ActivityCount() int {
	return len(p.MainItinerary)
}

// Clone returns a deep copy safe to hand to observers.
func (p *TripPlan) Clone() *TripPlan {
	if p == nil {
		return nil
	}
	cp := *p
	cp.MainItinerary = append([]ActivityItem(nil), p.MainItinerary...)
	cp.Alternatives = append([]ActivityItem(nil), p.Alternatives...)
	return &cp
}

// ValidationResult is the backend's scored judgment of a plan. Violations are
// must-fix, warnings advisory; the client displays both without enforcing any
// relationship to IsValid.
type ValidationResult struct {
	IsValid    bool           `json:"is_valid"`
	Violations []string       `json:"violations"`
	Warnings   []string       `json:"warnings"`
	Score      float64        `json:"score"`
	Details    map[string]any `json:"details,omitempty"`
}

// AlertSignal is an asynchronous notification about an environmental or
// logistical change affecting a plan.
type AlertSignal struct {
	Source         string        `json:"source,omitempty"`
	ChangeType     string        `json:"change_type"`
	Message        string        `json:"message"`
	TriggerValue   string        `json:"trigger_value,omitempty"`
	Severity       AlertSeverity `json:"severity"`
	AffectedPlanID string        `json:"affected_plan_id,omitempty"`
	Timestamp      time.Time     `json:"timestamp,omitzero"`
}

// UnmarshalJSON fills the documented default severity when absent.
func (a *AlertSignal) UnmarshalJSON(data []byte) error {
	type alias AlertSignal
	var v alias
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Severity == "" {
		v.Severity = SeverityInfo
	}
	*a = AlertSignal(v)
	return nil
}

// Critical reports whether the alert demands immediate attention.
func (a AlertSignal) Critical() bool {
	return a.Severity == SeverityCritical
}
