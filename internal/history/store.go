// Package history keeps a local record of generated plans and received
// alerts. It is a client-side cache only; the backend remains the source of
// truth for plan state.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
)

// ErrNotFound is returned when a plan is not in the local history.
var ErrNotFound = errors.New("history: plan not found")

// Store provides persistence for plans and alerts.
type Store struct {
	db *sql.DB
}

// NewStore creates a store on an opened database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// PlanRecord is one row of the plan history listing.
type PlanRecord struct {
	PlanID        string
	Name          string
	Status        plan.PlanStatus
	TotalBudget   float64
	ActivityCount int
	SavedAt       time.Time
}

// AlertRecord is one archived alert.
type AlertRecord struct {
	PlanID       string
	Source       string
	ChangeType   string
	Severity     plan.AlertSeverity
	Message      string
	TriggerValue string
	ReceivedAt   time.Time
}

// SavePlan upserts the plan, replacing any previously saved revision.
func (s *Store) SavePlan(ctx context.Context, p plan.TripPlan) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	savedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO plans(plan_id, name, status, total_budget, activity_count, payload, saved_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(plan_id) DO UPDATE SET
			name=excluded.name, status=excluded.status, total_budget=excluded.total_budget,
			activity_count=excluded.activity_count, payload=excluded.payload, saved_at=excluded.saved_at`,
		p.PlanID, p.Name, string(p.Status), p.TotalBudget(), p.ActivityCount(), string(payload), savedAt); err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// GetPlan loads a fully decoded plan from the local history.
func (s *Store) GetPlan(ctx context.Context, planID string) (*plan.TripPlan, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM plans WHERE plan_id=?`, planID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select plan: %w", err)
	}
	var p plan.TripPlan
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}

// ListPlans returns the most recently saved plans, newest first.
func (s *Store) ListPlans(ctx context.Context, limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT plan_id, name, status, total_budget, activity_count, saved_at
		FROM plans ORDER BY saved_at DESC, plan_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []PlanRecord
	for rows.Next() {
		var rec PlanRecord
		var status, savedAt string
		if err := rows.Scan(&rec.PlanID, &rec.Name, &status, &rec.TotalBudget, &rec.ActivityCount, &savedAt); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		rec.Status = plan.PlanStatus(status)
		rec.SavedAt, _ = time.Parse(time.RFC3339, savedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveAlert archives one received alert.
func (s *Store) SaveAlert(ctx context.Context, a plan.AlertSignal) error {
	receivedAt := a.Timestamp
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO alerts(plan_id, source, change_type, severity, message, trigger_value, received_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		a.AffectedPlanID, a.Source, a.ChangeType, string(a.Severity), a.Message, a.TriggerValue,
		receivedAt.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// RecentAlerts returns the latest alerts for one plan, newest first.
func (s *Store) RecentAlerts(ctx context.Context, planID string, limit int) ([]AlertRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT plan_id, source, change_type, severity, message, trigger_value, received_at
		FROM alerts WHERE plan_id=? ORDER BY received_at DESC, id DESC LIMIT ?`, planID, limit)
	if err != nil {
		return nil, fmt.Errorf("select alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		var severity, receivedAt string
		if err := rows.Scan(&rec.PlanID, &rec.Source, &rec.ChangeType, &severity, &rec.Message, &rec.TriggerValue, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		rec.Severity = plan.AlertSeverity(severity)
		rec.ReceivedAt, _ = time.Parse(time.RFC3339, receivedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Prune keeps the keepLast most recent plans and drops the alerts of every
// removed plan.
func (s *Store) Prune(ctx context.Context, keepLast int) error {
	if keepLast <= 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin prune: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE plan_id NOT IN (
			SELECT plan_id FROM plans ORDER BY saved_at DESC, plan_id LIMIT ?)`, keepLast); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prune plans: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts WHERE plan_id NOT IN (SELECT plan_id FROM plans)`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prune alerts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prune: %w", err)
	}
	return nil
}
