// Package session holds the single mutable state for the plan currently
// being created or monitored. It reconciles REST responses and pushed
// messages into one consistent view and is the only component the
// presentation layer observes.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/KenLuoph/Gemini-Hackathon/internal/api"
	"github.com/KenLuoph/Gemini-Hackathon/internal/plan"
	"github.com/KenLuoph/Gemini-Hackathon/internal/stream"
)

// Planner is the REST surface the session drives.
type Planner interface {
	GeneratePlan(ctx context.Context, req api.GenerateRequest) (*api.GenerateResponse, error)
	ConfirmPlan(ctx context.Context, planID string) (map[string]any, error)
	GetPlan(ctx context.Context, planID string) (*plan.TripPlan, error)
}

// Stream is the real-time surface the session drives.
type Stream interface {
	Connect(planID string)
	Disconnect()
	Messages() <-chan stream.Message
}

// Recorder archives session activity locally. Failures are logged, never
// surfaced.
type Recorder interface {
	SavePlan(ctx context.Context, p plan.TripPlan) error
	SaveAlert(ctx context.Context, a plan.AlertSignal) error
}

// Alert pairs a pushed signal with a local dismissal handle.
type Alert struct {
	ID uuid.UUID
	plan.AlertSignal
}

// Snapshot is a consistent read of the session state, safe to retain across
// notifications.
type Snapshot struct {
	Plan         *plan.TripPlan
	Validation   *plan.ValidationResult
	Loading      bool
	ErrorMessage string
	Alerts       []Alert
}

// HasCriticalAlert reports whether any undismissed alert is critical.
func (s Snapshot) HasCriticalAlert() bool {
	for _, a := range s.Alerts {
		if a.Critical() {
			return true
		}
	}
	return false
}

const (
	fallbackCreateError = "The planner could not create a plan."
	genericFailureError = "Something went wrong. Please try again."
	noPlanError         = "No plan to confirm."
	notVerifiedError    = "Plan must be verified before it can be confirmed."
)

// Options configures optional session collaborators.
type Options struct {
	UserID   string
	Recorder Recorder
}

// Session is the plan session state. All mutations notify subscribers
// exactly once, synchronously, after the state settles.
type Session struct {
	planner Planner
	stream  Stream
	opts    Options

	mu         sync.Mutex
	current    *plan.TripPlan
	validation *plan.ValidationResult
	loading    bool
	errMsg     string
	alerts     []Alert
	listeners  map[uuid.UUID]func(Snapshot)
}

// New creates a session and, when a stream is provided, starts consuming its
// message flow until the stream is disposed.
func New(planner Planner, st Stream, opts Options) *Session {
	s := &Session{
		planner:   planner,
		stream:    st,
		opts:      opts,
		listeners: make(map[uuid.UUID]func(Snapshot)),
	}
	if st != nil {
		go s.pump()
	}
	return s
}

func (s *Session) pump() {
	for msg := range s.stream.Messages() {
		s.Apply(msg)
	}
}

// Subscribe registers an observer and returns its unsubscribe function.
// Observers are invoked synchronously after every mutation.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	id := uuid.New()
	s.mu.Lock()
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Plan:         s.current.Clone(),
		Validation:   s.validation,
		Loading:      s.loading,
		ErrorMessage: s.errMsg,
		Alerts:       append([]Alert(nil), s.alerts...),
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// CreateOptions carries the optional knobs of CreatePlan.
type CreateOptions struct {
	BudgetLimit         *float64
	Preferences         []string
	SensitiveToRain     *bool
	DietaryRestrictions []string
	MobilityConstraints map[string]any
}

// CreatePlan asks the backend to generate a plan and reconciles the outcome
// into the session. Failures surface only through the error message.
func (s *Session) CreatePlan(ctx context.Context, intent string, opts CreateOptions) {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	req := api.GenerateRequest{Intent: intent, UserID: s.opts.UserID}
	prefs := api.Preferences{
		BudgetLimit:         opts.BudgetLimit,
		Preferences:         opts.Preferences,
		SensitiveToRain:     opts.SensitiveToRain,
		DietaryRestrictions: opts.DietaryRestrictions,
		MobilityConstraints: opts.MobilityConstraints,
	}
	if !prefs.Empty() {
		req.Preferences = &prefs
	}

	resp, err := s.planner.GeneratePlan(ctx, req)

	s.mu.Lock()
	switch {
	case err != nil:
		s.errMsg = userMessage(err)
	case resp.Success && resp.Data != nil:
		s.current = resp.Data.Clone()
		s.validation = resp.Validation
		s.errMsg = ""
	case resp.Error != "":
		s.errMsg = resp.Error
	default:
		s.errMsg = fallbackCreateError
	}
	s.loading = false
	created := s.current.Clone()
	ok := err == nil && resp.Success && resp.Data != nil
	s.mu.Unlock()

	if ok {
		s.record(ctx, created, nil)
	}
	s.notify()
}

// LoadPlan fetches an existing plan into the session.
func (s *Session) LoadPlan(ctx context.Context, planID string) {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	p, err := s.planner.GetPlan(ctx, planID)

	s.mu.Lock()
	if err != nil {
		s.errMsg = userMessage(err)
	} else {
		s.current = p.Clone()
		s.validation = nil
		s.errMsg = ""
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// ConfirmPlan confirms the current plan. The verified-status precondition is
// checked client-side; no network call happens when it fails. On a backend
// answer with monitoring_started=true the status transitions to active
// locally (the backend stays authoritative for subsequent states) and the
// real-time channel targets the plan.
func (s *Session) ConfirmPlan(ctx context.Context) {
	s.mu.Lock()
	if s.current == nil {
		s.errMsg = noPlanError
		s.mu.Unlock()
		s.notify()
		return
	}
	if s.current.Status != plan.StatusVerified {
		s.errMsg = notVerifiedError
		s.mu.Unlock()
		s.notify()
		return
	}
	planID := s.current.PlanID
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	result, err := s.planner.ConfirmPlan(ctx, planID)

	s.mu.Lock()
	connect := false
	switch {
	case err != nil:
		s.errMsg = userMessage(err)
	default:
		// The backend only starts monitoring when it answers
		// monitoring_started=true; anything else leaves the plan untouched.
		started, _ := result["monitoring_started"].(bool)
		if started {
			if s.current != nil && s.current.PlanID == planID {
				s.current.Status = plan.StatusActive
			}
			connect = true
		}
	}
	s.loading = false
	s.mu.Unlock()

	if connect && s.stream != nil {
		s.stream.Connect(planID)
	}
	s.notify()
}

// StartMonitoring opens the real-time channel for the current plan without
// confirming it, for plans that are already active or monitoring.
func (s *Session) StartMonitoring() {
	s.mu.Lock()
	var planID string
	if s.current != nil {
		planID = s.current.PlanID
	}
	s.mu.Unlock()
	if planID == "" || s.stream == nil {
		return
	}
	s.stream.Connect(planID)
}

// SwapActivity replaces the main itinerary entry originalID with the
// alternative alternativeID. Local-only; the alternative stays listed.
func (s *Session) SwapActivity(originalID, alternativeID string) error {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return errors.New("no active plan")
	}
	var alternative *plan.ActivityItem
	for i := range s.current.Alternatives {
		if s.current.Alternatives[i].ActivityID == alternativeID {
			alternative = &s.current.Alternatives[i]
			break
		}
	}
	if alternative == nil {
		s.mu.Unlock()
		return fmt.Errorf("alternative %s not found", alternativeID)
	}
	replaced := false
	for i := range s.current.MainItinerary {
		if s.current.MainItinerary[i].ActivityID == originalID {
			s.current.MainItinerary[i] = *alternative
			replaced = true
			break
		}
	}
	s.mu.Unlock()
	if !replaced {
		return fmt.Errorf("activity %s not in itinerary", originalID)
	}
	s.notify()
	return nil
}

// ClearPlan resets the whole session and disconnects the real-time channel.
func (s *Session) ClearPlan() {
	s.mu.Lock()
	s.current = nil
	s.validation = nil
	s.loading = false
	s.errMsg = ""
	s.alerts = nil
	s.mu.Unlock()
	if s.stream != nil {
		s.stream.Disconnect()
	}
	s.notify()
}

// DismissAlert removes one alert by its local handle.
func (s *Session) DismissAlert(id uuid.UUID) {
	s.mu.Lock()
	kept := s.alerts[:0]
	for _, a := range s.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.alerts = kept
	s.mu.Unlock()
	s.notify()
}

// DismissAllAlerts empties the alert list.
func (s *Session) DismissAllAlerts() {
	s.mu.Lock()
	s.alerts = nil
	s.mu.Unlock()
	s.notify()
}

// HasCriticalAlert reports whether any undismissed alert is critical.
func (s *Session) HasCriticalAlert() bool {
	return s.Snapshot().HasCriticalAlert()
}

// Apply reconciles one pushed message into the session. plan_updated frames
// replace the current plan wholesale, discarding local-only edits; alert
// payloads append to the alert list. Exactly one notification per applied
// message.
func (s *Session) Apply(msg stream.Message) {
	switch {
	case msg.IsPlanUpdate():
		updated, hasPlan := msg.AsUpdatedPlan()
		alert, hasAlert := msg.AsAlert()
		if !hasPlan && !hasAlert {
			return
		}
		s.mu.Lock()
		if hasPlan {
			s.current = updated
		}
		if hasAlert {
			s.appendAlertLocked(alert)
		}
		s.mu.Unlock()
		if hasPlan {
			s.record(context.Background(), updated.Clone(), nil)
		}
		if hasAlert {
			s.record(context.Background(), nil, &alert)
		}
		s.notify()
	case msg.IsAlert():
		alert, ok := msg.AsAlert()
		if !ok {
			return
		}
		s.mu.Lock()
		s.appendAlertLocked(alert)
		s.mu.Unlock()
		s.record(context.Background(), nil, &alert)
		s.notify()
	}
}

func (s *Session) appendAlertLocked(alert plan.AlertSignal) {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now().UTC()
	}
	s.alerts = append(s.alerts, Alert{ID: uuid.New(), AlertSignal: alert})
}

func (s *Session) record(ctx context.Context, p *plan.TripPlan, a *plan.AlertSignal) {
	if s.opts.Recorder == nil {
		return
	}
	if p != nil {
		if err := s.opts.Recorder.SavePlan(ctx, *p); err != nil {
			log.Warn().Err(err).Str("plan_id", p.PlanID).Msg("session: failed to archive plan")
		}
	}
	if a != nil {
		if err := s.opts.Recorder.SaveAlert(ctx, *a); err != nil {
			log.Warn().Err(err).Msg("session: failed to archive alert")
		}
	}
}

func userMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return genericFailureError
}
