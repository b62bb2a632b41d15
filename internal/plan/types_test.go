package plan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() TripPlan {
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return TripPlan{
		PlanID: "p1",
		Name:   "SF Date",
		Status: StatusVerified,
		MainItinerary: []ActivityItem{
			{
				ActivityID: "a1",
				Name:       "Museum visit",
				TimeSlot:   "10:00 - 12:00",
				Location:   GeoLocation{Lat: 37.7749, Lng: -122.4194, Address: "SoMa"},
				Budget:     BudgetInfo{Amount: 25, Currency: "USD", Category: "culture"},
				Type:       TypeIndoor,
				RiskScore:  0.1,
				Status:     "pending",
			},
			{
				ActivityID: "a2",
				Name:       "Pier walk",
				TimeSlot:   "18:00 - 22:00",
				Location:   GeoLocation{Lat: 37.8083, Lng: -122.4098, Address: "Pier 39"},
				Budget:     BudgetInfo{Amount: 60, Currency: "USD", Category: "food"},
				Type:       TypeOutdoor,
				RiskScore:  0.4,
				Status:     "pending",
			},
		},
		Alternatives: []ActivityItem{
			{
				ActivityID: "b1",
				Name:       "Aquarium",
				TimeSlot:   "18:00 - 22:00",
				Location:   GeoLocation{Lat: 37.8080, Lng: -122.4090, Address: "Embarcadero"},
				Budget:     BudgetInfo{Amount: 45, Currency: "USD", Category: "culture"},
				Type:       TypeIndoor,
				RiskScore:  0.05,
				Status:     "pending",
			},
		},
		ReasoningPath: "Picked indoor fallbacks because rain is likely.",
		CreatedAt:     &created,
	}
}

func TestTripPlanRoundTrip(t *testing.T) {
	original := samplePlan()

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded TripPlan
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}

func TestAlertSignalRoundTrip(t *testing.T) {
	original := AlertSignal{
		Source:         "scout",
		ChangeType:     "weather",
		Message:        "Heavy rain expected",
		TriggerValue:   "precipitation 80%",
		Severity:       SeverityWarning,
		AffectedPlanID: "p1",
		Timestamp:      time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded AlertSignal
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}

func TestEnumFallbacks(t *testing.T) {
	var status PlanStatus
	require.NoError(t, json.Unmarshal([]byte(`"warp-speed"`), &status))
	assert.Equal(t, StatusDraft, status)

	require.NoError(t, json.Unmarshal([]byte(`"VERIFIED"`), &status))
	assert.Equal(t, StatusVerified, status)

	var typ ActivityType
	require.NoError(t, json.Unmarshal([]byte(`"underwater"`), &typ))
	assert.Equal(t, TypeIndoor, typ)

	require.NoError(t, json.Unmarshal([]byte(`"Outdoor"`), &typ))
	assert.Equal(t, TypeOutdoor, typ)

	var sev AlertSeverity
	require.NoError(t, json.Unmarshal([]byte(`"shrug"`), &sev))
	assert.Equal(t, SeverityInfo, sev)

	require.NoError(t, json.Unmarshal([]byte(`"critical"`), &sev))
	assert.Equal(t, SeverityCritical, sev)
}

func TestBudgetAndActivityDefaults(t *testing.T) {
	var budget BudgetInfo
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 12.5}`), &budget))
	assert.Equal(t, BudgetInfo{Amount: 12.5, Currency: "USD", Category: "general"}, budget)

	var item ActivityItem
	require.NoError(t, json.Unmarshal([]byte(`{"activity_id":"a1","name":"Walk"}`), &item))
	assert.Equal(t, "pending", item.Status)
	assert.Equal(t, TypeIndoor, item.Type)

	var alert AlertSignal
	require.NoError(t, json.Unmarshal([]byte(`{"message":"hello"}`), &alert))
	assert.Equal(t, SeverityInfo, alert.Severity)
	assert.True(t, alert.Timestamp.IsZero())
}

func TestTripPlanDerived(t *testing.T) {
	p := samplePlan()
	assert.InDelta(t, 85, p.TotalBudget(), 1e-9)
	assert.Equal(t, 2, p.ActivityCount())
}

func TestTripPlanClone(t *testing.T) {
	p := samplePlan()
	cp := p.Clone()
	cp.MainItinerary[0].Name = "changed"
	assert.Equal(t, "Museum visit", p.MainItinerary[0].Name)

	var nilPlan *TripPlan
	assert.Nil(t, nilPlan.Clone())
}
