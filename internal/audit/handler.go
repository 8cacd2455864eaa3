package audit

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/platform/middleware"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/httputil"
)

// Handler serves the audit trail read surface: a JSON listing and the CSV
// export download. Both accept the same filter query parameters.
type Handler struct {
	recorder *Recorder
	exporter *Exporter
	logger   *slog.Logger
}

func NewHandler(recorder *Recorder, exporter *Exporter, logger *slog.Logger) *Handler {
	return &Handler{recorder: recorder, exporter: exporter, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/export", h.Export)
	return r
}

// List returns matching audit records as JSON in insertion order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.recorder.Query(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "audit list failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"records": toResponses(records),
		"count":   len(records),
	})
}

// Export sends the filtered trail as a CSV attachment. The download itself
// is recorded as an EXPORT action.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Exports are capped, so buffering is affordable and keeps the failure
	// path able to set a real status instead of truncating a 200 CSV.
	var buf bytes.Buffer
	rows, err := h.exporter.WriteCSV(ctx, &buf, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit export failed",
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	filename := h.exporter.Filename(ctx)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = buf.WriteTo(w)

	if principal := middleware.GetPrincipal(ctx); principal != nil {
		h.recorder.Record(ctx, Entry{
			ActorID:    principal.UserID,
			Action:     ActionExport,
			EntityType: "audit",
			Detail:     map[string]any{"rows": rows, "filename": filename},
			Origin:     OriginFromRequest(r),
		})
	}
}

// OriginFromRequest captures the caller's network context for audit entries.
func OriginFromRequest(r *http.Request) Origin {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return Origin{IP: ip, UserAgent: r.Header.Get("User-Agent")}
}

func filterFromQuery(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	var filter Filter

	if raw := q.Get("actor_id"); raw != "" {
		actorID, err := id.ParseUserID(raw)
		if err != nil {
			return Filter{}, dErrors.New(dErrors.CodeValidation, "invalid actor_id filter")
		}
		filter.ActorID = &actorID
	}
	if raw := q.Get("action"); raw != "" {
		action, err := ParseAction(raw)
		if err != nil {
			return Filter{}, err
		}
		filter.Action = &action
	}
	if raw := q.Get("entity_type"); raw != "" {
		filter.EntityType = &raw
	}
	if raw := q.Get("start"); raw != "" {
		start, err := parseFilterTime(raw, false)
		if err != nil {
			return Filter{}, err
		}
		filter.Start = &start
	}
	if raw := q.Get("end"); raw != "" {
		end, err := parseFilterTime(raw, true)
		if err != nil {
			return Filter{}, err
		}
		filter.End = &end
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return Filter{}, dErrors.New(dErrors.CodeValidation, "invalid limit filter")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return Filter{}, dErrors.New(dErrors.CodeValidation, "invalid offset filter")
		}
		filter.Offset = offset
	}
	return filter, nil
}

// parseFilterTime accepts RFC 3339 timestamps or bare dates. A bare end date
// covers the whole day, keeping the range inclusive on both ends.
func parseFilterTime(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "invalid date filter, expected RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

type recordResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	OriginIP   string         `json:"origin_ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func toResponses(records []*Record) []recordResponse {
	out := make([]recordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, recordResponse{
			ID:         r.ID.String(),
			ActorID:    r.ActorID.String(),
			Action:     r.Action.String(),
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Detail:     r.Detail,
			OriginIP:   r.OriginIP,
			UserAgent:  r.UserAgent,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}
