package audit

import (
	"context"
	"log/slog"

	"inkwell/internal/platform/metrics"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

// Entry is what callers hand the recorder; the recorder stamps identity and
// time before persisting.
type Entry struct {
	ActorID    id.UserID
	Action     Action
	EntityType string
	EntityID   string
	Detail     map[string]any
	Origin     Origin
}

// Recorder turns caller entries into immutable audit records.
//
// Two write modes:
//   - Record never fails the caller. A persistence failure is logged and
//     counted but does not propagate, so audit trouble cannot block a login.
//   - RecordSync surfaces persistence failures as audit_write_failed, for
//     mutations whose contract requires the trail to exist.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type RecorderOption func(*Recorder)

func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithRecorderMetrics(m *metrics.Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record writes the entry, swallowing persistence failures.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if err := r.write(ctx, entry); err != nil {
		r.logger.Error("audit record dropped",
			"error", err,
			"action", entry.Action.String(),
			"entity_type", entry.EntityType,
			"entity_id", entry.EntityID,
		)
		r.metrics.IncrementAuditWriteFailures()
	}
}

// RecordSync writes the entry and reports failure to the caller.
func (r *Recorder) RecordSync(ctx context.Context, entry Entry) error {
	if err := r.write(ctx, entry); err != nil {
		r.metrics.IncrementAuditWriteFailures()
		return dErrors.Wrap(err, dErrors.CodeAuditWriteFailed, "failed to write audit record")
	}
	return nil
}

func (r *Recorder) write(ctx context.Context, entry Entry) error {
	if !entry.Action.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid audit action")
	}

	record := &Record{
		ID:         id.NewAuditID(),
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Detail:     entry.Detail,
		OriginIP:   entry.Origin.IP,
		UserAgent:  entry.Origin.UserAgent,
		CreatedAt:  requesttime.Now(ctx),
	}
	if err := r.store.Append(ctx, record); err != nil {
		return err
	}
	r.metrics.IncrementAuditRecords(entry.Action.String())
	return nil
}

// Query passes a filter through to the store.
func (r *Recorder) Query(ctx context.Context, filter Filter) ([]*Record, error) {
	records, err := r.store.Query(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query audit records")
	}
	return records, nil
}
