package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func samplePlan(id string) plan.TripPlan {
	return plan.TripPlan{
		PlanID: id,
		Name:   "Tokyo Weekend",
		Status: plan.StatusVerified,
		MainItinerary: activityItems(
			"Ghibli Museum", 35,
			"Shinjuku Gyoen", 10,
		),
	}
}

func activityItems(pairs ...any) []plan.ActivityItem {
	var items []plan.ActivityItem
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, plan.ActivityItem{
			Name: pairs[i].(string),
			Budget: plan.BudgetInfo{
				Amount:   float64(pairs[i+1].(int)),
				Currency: "USD",
				Category: "general",
			},
		})
	}
	return items
}

func TestSaveAndGetPlan(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := samplePlan("plan-1")
	require.NoError(t, store.SavePlan(ctx, p))

	got, err := store.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo Weekend", got.Name)
	assert.Equal(t, plan.StatusVerified, got.Status)
	assert.Len(t, got.MainItinerary, 2)
}

func TestSavePlanReplacesRevision(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := samplePlan("plan-1")
	require.NoError(t, store.SavePlan(ctx, p))

	p.Status = plan.StatusActive
	p.Name = "Tokyo Weekend v2"
	require.NoError(t, store.SavePlan(ctx, p))

	got, err := store.GetPlan(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo Weekend v2", got.Name)
	assert.Equal(t, plan.StatusActive, got.Status)

	records, err := store.ListPlans(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetPlanNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetPlan(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPlansDerivedColumns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, samplePlan("plan-1")))

	records, err := store.ListPlans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 45.0, records[0].TotalBudget)
	assert.Equal(t, 2, records[0].ActivityCount)
	assert.False(t, records[0].SavedAt.IsZero())
}

func TestSaveAndListAlerts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := plan.AlertSignal{
		Source:         "weather",
		ChangeType:     "rain_probability",
		Message:        "Heavy rain expected",
		Severity:       plan.SeverityWarning,
		AffectedPlanID: "plan-1",
		Timestamp:      time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	second := plan.AlertSignal{
		Source:         "venue",
		ChangeType:     "closure",
		Message:        "Museum closed today",
		Severity:       plan.SeverityCritical,
		AffectedPlanID: "plan-1",
		Timestamp:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveAlert(ctx, first))
	require.NoError(t, store.SaveAlert(ctx, second))

	records, err := store.RecentAlerts(ctx, "plan-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Museum closed today", records[0].Message)
	assert.Equal(t, plan.SeverityCritical, records[0].Severity)
	assert.Equal(t, "Heavy rain expected", records[1].Message)
}

func TestSaveAlertDefaultsTimestamp(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAlert(ctx, plan.AlertSignal{
		ChangeType:     "closure",
		Message:        "no timestamp",
		AffectedPlanID: "plan-1",
	}))

	records, err := store.RecentAlerts(ctx, "plan-1", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.WithinDuration(t, time.Now().UTC(), records[0].ReceivedAt, time.Minute)
}

func TestPruneKeepsMostRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"plan-1", "plan-2", "plan-3"} {
		p := samplePlan(id)
		require.NoError(t, store.SavePlan(ctx, p))
		require.NoError(t, store.SaveAlert(ctx, plan.AlertSignal{
			ChangeType:     "closure",
			Message:        "alert for " + id,
			AffectedPlanID: id,
		}))
	}

	require.NoError(t, store.Prune(ctx, 2))

	records, err := store.ListPlans(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// Alerts of pruned plans go with them.
	pruned := map[string]bool{"plan-1": true, "plan-2": true, "plan-3": true}
	for _, rec := range records {
		delete(pruned, rec.PlanID)
	}
	for id := range pruned {
		alerts, err := store.RecentAlerts(ctx, id, 10)
		require.NoError(t, err)
		assert.Empty(t, alerts)
	}
}
