package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/audit"
	"inkwell/internal/content/models"
	"inkwell/internal/content/service"
	identitymodels "inkwell/internal/identity/models"
	"inkwell/internal/platform/middleware"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/httputil"
)

// Handler exposes the content management surface. Role enforcement is
// mounted by the router; handlers only need the principal as audit actor.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

func NewHandler(service *service.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ReadRoutes is the listing/lookup surface available to every role.
func (h *Handler) ReadRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/pages", h.ListPages)
	r.Get("/pages/{slug}", h.GetPage)
	r.Get("/menus", h.ListMenus)
	r.Get("/menus/{name}", h.GetMenu)
	r.Get("/media", h.ListMedia)
	r.Get("/footer", h.GetFooter)
	r.Get("/settings", h.ListSettings)
	r.Get("/settings/{key}", h.GetSetting)
	r.Get("/topics", h.ListTopics)
	return r
}

// WriteRoutes is the mutation surface for editors and admins.
func (h *Handler) WriteRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/pages", h.CreatePage)
	r.Put("/pages/{pageID}", h.UpdatePage)
	r.Delete("/pages/{pageID}", h.DeletePage)
	r.Put("/menus", h.UpsertMenu)
	r.Post("/media", h.RegisterMedia)
	r.Delete("/media/{mediaID}", h.DeleteMedia)
	r.Put("/footer", h.ReplaceFooter)
	r.Post("/topics", h.UpsertTopic)
	r.Delete("/topics/{topicID}", h.DeleteTopic)
	r.Get("/topics/export", h.ExportTopics)
	r.Post("/topics/import", h.ImportTopics)
	return r
}

// SettingsWriteRoutes is split out so the router can restrict it to admins.
func (h *Handler) SettingsWriteRoutes() chi.Router {
	r := chi.NewRouter()
	r.Put("/{key}", h.PutSetting)
	return r
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (*identitymodels.Principal, bool) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return nil, false
	}
	return principal, true
}

func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.service.ListPages(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	summaries := make([]models.PageSummary, 0, len(pages))
	for _, p := range pages {
		summaries = append(summaries, p.Summary())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"pages": summaries})
}

func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pageResponse(page))
}

func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreatePageRequest](w, r, h.logger, r.Context(), middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	page, err := h.service.CreatePage(r.Context(), principal, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, pageResponse(page))
}

func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	pageID, err := id.ParsePageID(chi.URLParam(r, "pageID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid page id"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdatePageRequest](w, r, h.logger, r.Context(), middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	page, err := h.service.UpdatePage(r.Context(), principal, pageID, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pageResponse(page))
}

func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	pageID, err := id.ParsePageID(chi.URLParam(r, "pageID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid page id"))
		return
	}

	if err := h.service.DeletePage(r.Context(), principal, pageID, audit.OriginFromRequest(r)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.service.ListMenus(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"menus": menusResponse(menus)})
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.service.GetMenu(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, menuResponse(menu))
}

func (h *Handler) UpsertMenu(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpsertMenuRequest](w, r, h.logger, r.Context(), middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	menu, err := h.service.UpsertMenu(r.Context(), principal, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, menuResponse(menu))
}

func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListMedia(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"media": mediaListResponse(all)})
}

func (h *Handler) RegisterMedia(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.RegisterMediaRequest](w, r, h.logger, r.Context(), middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	media, err := h.service.RegisterMedia(r.Context(), principal, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, mediaResponse(media))
}

func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	mediaID, err := id.ParseMediaID(chi.URLParam(r, "mediaID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid media id"))
		return
	}

	if err := h.service.DeleteMedia(r.Context(), principal, mediaID, audit.OriginFromRequest(r)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetFooter(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.GetFooter(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sections": footerResponse(sections)})
}

func (h *Handler) ReplaceFooter(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.ReplaceFooterRequest](w, r, h.logger, r.Context(), middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	sections, err := h.service.ReplaceFooter(r.Context(), principal, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sections": footerResponse(sections)})
}

func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.ListSettings(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"settings": settingsResponse(settings)})
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.service.GetSetting(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settingResponse(setting))
}

func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.PutSettingRequest](w, r, h.logger, r.Context(), middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	setting, err := h.service.PutSetting(r.Context(), principal, chi.URLParam(r, "key"), *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settingResponse(setting))
}

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.ListTopics(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"topics": topicsResponse(topics)})
}

func (h *Handler) UpsertTopic(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpsertTopicRequest](w, r, h.logger, r.Context(), middleware.GetRequestID(r.Context()))
	if !ok {
		return
	}

	topic, err := h.service.UpsertTopic(r.Context(), principal, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, topicResponse(topic))
}

func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	topicID, err := id.ParseTopicID(chi.URLParam(r, "topicID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid topic id"))
		return
	}

	if err := h.service.DeleteTopic(r.Context(), principal, topicID, audit.OriginFromRequest(r)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ExportTopics(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="topics.csv"`)
	if _, err := h.service.ExportTopicsCSV(r.Context(), principal, w, audit.OriginFromRequest(r)); err != nil {
		h.logger.ErrorContext(r.Context(), "topic export failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
	}
}

func (h *Handler) ImportTopics(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	summary, err := h.service.ImportTopicsCSV(r.Context(), principal, r.Body, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}
