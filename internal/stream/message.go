package stream

import (
	"encoding/json"

	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
)

// Recognized envelope types. Unrecognized types are retained but treated as
// no-ops by consumers.
const (
	TypeAlert        = "alert"
	TypePlanUpdate   = "plan_updated"
	TypeStatusChange = "status_change"
)

// Message is the envelope of one inbound websocket frame.
type Message struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// IsAlert reports whether the frame carries a standalone alert.
func (m Message) IsAlert() bool { return m.Type == TypeAlert }

// IsPlanUpdate reports whether the frame carries a replacement plan.
func (m Message) IsPlanUpdate() bool { return m.Type == TypePlanUpdate }

// IsStatusChange reports whether the frame announces a status transition.
func (m Message) IsStatusChange() bool { return m.Type == TypeStatusChange }

// AsAlert extracts the alert payload from alert and plan_updated frames. The
// payload lives under data.alert, falling back to data itself. A shape
// mismatch yields ok=false, never an error.
func (m Message) AsAlert() (plan.AlertSignal, bool) {
	var zero plan.AlertSignal
	if !m.IsAlert() && !m.IsPlanUpdate() {
		return zero, false
	}
	payload := m.Data
	if nested, found := m.Data["alert"]; found {
		nestedMap, isMap := nested.(map[string]any)
		if !isMap {
			return zero, false
		}
		payload = nestedMap
	}
	if _, found := payload["message"]; !found {
		return zero, false
	}
	var alert plan.AlertSignal
	if !decodeInto(payload, &alert) {
		return zero, false
	}
	return alert, true
}

// AsUpdatedPlan extracts the replacement plan from a plan_updated frame. The
// payload lives under data.updated_plan, falling back to data itself.
func (m Message) AsUpdatedPlan() (*plan.TripPlan, bool) {
	if !m.IsPlanUpdate() {
		return nil, false
	}
	payload := m.Data
	if nested, found := m.Data["updated_plan"]; found {
		nestedMap, isMap := nested.(map[string]any)
		if !isMap {
			return nil, false
		}
		payload = nestedMap
	}
	if _, found := payload["plan_id"]; !found {
		return nil, false
	}
	var p plan.TripPlan
	if !decodeInto(payload, &p) {
		return nil, false
	}
	return &p, true
}

func decodeInto(payload map[string]any, dst any) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
