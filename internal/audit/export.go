package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mssola/useragent"

	"inkwell/internal/platform/metrics"
	"inkwell/internal/tracer"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

const defaultExportLimit = 10000

var exportHeader = []string{
	"record_id",
	"created_at",
	"actor_id",
	"action",
	"entity_type",
	"entity_id",
	"origin_ip",
	"client",
	"detail",
}

// Exporter streams filtered audit records as RFC 4180 CSV. Every export is
// capped at maxRows regardless of the requested limit.
type Exporter struct {
	recorder *Recorder
	maxRows  int
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

type ExporterOption func(*Exporter)

func WithExportLimit(limit int) ExporterOption {
	return func(e *Exporter) {
		if limit > 0 {
			e.maxRows = limit
		}
	}
}

func WithExporterLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithExporterMetrics(m *metrics.Metrics) ExporterOption {
	return func(e *Exporter) {
		e.metrics = m
	}
}

func WithExporterTracer(t tracer.Tracer) ExporterOption {
	return func(e *Exporter) {
		if t != nil {
			e.tracer = t
		}
	}
}

func NewExporter(recorder *Recorder, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		recorder: recorder,
		maxRows:  defaultExportLimit,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WriteCSV writes header plus matching rows to w and returns the row count.
func (e *Exporter) WriteCSV(ctx context.Context, w io.Writer, filter Filter) (int, error) {
	ctx, span := e.tracer.Start(ctx, "audit.export")
	defer span.End()

	if filter.Limit <= 0 || filter.Limit > e.maxRows {
		filter.Limit = e.maxRows
	}

	records, err := e.recorder.Query(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttribute("rows", len(records))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write export header")
	}
	for _, r := range records {
		if err := cw.Write(exportRow(r)); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write export row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to flush export")
	}

	e.metrics.IncrementAuditExports()
	e.logger.Info("audit export written", "rows", len(records))
	return len(records), nil
}

// Filename derives the attachment name from the request time, so repeated
// exports never collide on the client side.
func (e *Exporter) Filename(ctx context.Context) string {
	return fmt.Sprintf("audit-export-%s.csv", requesttime.Now(ctx).UTC().Format("20060102T150405Z"))
}

func exportRow(r *Record) []string {
	detail := ""
	if len(r.Detail) > 0 {
		if b, err := json.Marshal(r.Detail); err == nil {
			detail = string(b)
		}
	}
	return []string{
		r.ID.String(),
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.ActorID.String(),
		r.Action.String(),
		r.EntityType,
		r.EntityID,
		r.OriginIP,
		clientDisplay(r.UserAgent),
		detail,
	}
}

// clientDisplay condenses a raw User-Agent header into a readable label,
// falling back to the raw string when parsing yields nothing usable.
func clientDisplay(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return raw
	}
	if os := ua.OSInfo().Name; os != "" {
		return fmt.Sprintf("%s %s (%s)", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}
