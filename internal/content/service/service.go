// Package service implements the content management operations. Every
// mutation is audited via RecordSync: the change persists first, then the
// audit record must be written for the operation to report success.
package service

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/audit"
	"inkwell/internal/content/models"
	"inkwell/internal/content/store"
	identitymodels "inkwell/internal/identity/models"
	"inkwell/internal/platform/metrics"
	"inkwell/internal/sentinel"
	"inkwell/internal/tracer"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

// AuditRecorder is the audit dependency; RecordSync failures bubble up as
// audit_write_failed.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
	RecordSync(ctx context.Context, entry audit.Entry) error
}

type Service struct {
	pages    store.PageStore
	menus    store.MenuStore
	media    store.MediaStore
	footer   store.FooterStore
	settings store.SettingStore
	topics   store.TopicStore
	recorder AuditRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

// Stores bundles the per-aggregate persistence dependencies.
type Stores struct {
	Pages    store.PageStore
	Menus    store.MenuStore
	Media    store.MediaStore
	Footer   store.FooterStore
	Settings store.SettingStore
	Topics   store.TopicStore
}

// NewMemoryStores wires the full in-memory store set.
func NewMemoryStores() Stores {
	return Stores{
		Pages:    store.NewInMemoryPageStore(),
		Menus:    store.NewInMemoryMenuStore(),
		Media:    store.NewInMemoryMediaStore(),
		Footer:   store.NewInMemoryFooterStore(),
		Settings: store.NewInMemorySettingStore(),
		Topics:   store.NewInMemoryTopicStore(),
	}
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func New(stores Stores, recorder AuditRecorder, opts ...Option) *Service {
	s := &Service{
		pages:    stores.Pages,
		menus:    stores.Menus,
		media:    stores.Media,
		footer:   stores.Footer,
		settings: stores.Settings,
		topics:   stores.Topics,
		recorder: recorder,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// recordMutation writes the audit record that makes a mutation count.
func (s *Service) recordMutation(ctx context.Context, actor *identitymodels.Principal, action audit.Action, entityType, entityID string, detail map[string]any, origin audit.Origin) error {
	if err := s.recorder.RecordSync(ctx, audit.Entry{
		ActorID:    actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		Origin:     origin,
	}); err != nil {
		return err
	}
	s.metrics.IncrementContentMutations(entityType)
	return nil
}

// CreatePage registers an unpublished page under a unique slug.
func (s *Service) CreatePage(ctx context.Context, actor *identitymodels.Principal, req models.CreatePageRequest, origin audit.Origin) (*models.Page, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requesttime.Now(ctx)
	page := &models.Page{
		ID:        id.NewPageID(),
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.pages.Create(ctx, page); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeConflict, "slug is already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create page")
	}

	if err := s.recordMutation(ctx, actor, audit.ActionCreate, "page", page.ID.String(),
		map[string]any{"slug": page.Slug}, origin); err != nil {
		return nil, err
	}
	return page, nil
}

// UpdatePage replaces the editable fields, including the published flag.
func (s *Service) UpdatePage(ctx context.Context, actor *identitymodels.Principal, pageID id.PageID, req models.UpdatePageRequest, origin audit.Origin) (*models.Page, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "page not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up page")
	}

	page.Title = req.Title
	page.Body = req.Body
	page.Published = req.Published
	page.UpdatedAt = requesttime.Now(ctx)
	if err := s.pages.Update(ctx, page); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update page")
	}

	if err := s.recordMutation(ctx, actor, audit.ActionUpdate, "page", page.ID.String(),
		map[string]any{"slug": page.Slug, "published": page.Published}, origin); err != nil {
		return nil, err
	}
	return page, nil
}

// DeletePage removes a page and frees its slug.
func (s *Service) DeletePage(ctx context.Context, actor *identitymodels.Principal, pageID id.PageID, origin audit.Origin) error {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "page not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up page")
	}
	if err := s.pages.Delete(ctx, pageID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete page")
	}

	return s.recordMutation(ctx, actor, audit.ActionDelete, "page", pageID.String(),
		map[string]any{"slug": page.Slug}, origin)
}

func (s *Service) GetPageBySlug(ctx context.Context, slug string) (*models.Page, error) {
	page, err := s.pages.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "page not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up page")
	}
	return page, nil
}

func (s *Service) ListPages(ctx context.Context) ([]*models.Page, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pages")
	}
	return pages, nil
}

// UpsertMenu replaces a named menu's items wholesale.
func (s *Service) UpsertMenu(ctx context.Context, actor *identitymodels.Principal, req models.UpsertMenuRequest, origin audit.Origin) (*models.Menu, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requesttime.Now(ctx)
	action := audit.ActionUpdate
	menu, err := s.menus.GetByName(ctx, req.Name)
	switch {
	case err == nil:
		menu.Items = req.Items
		menu.UpdatedAt = now
	case errors.Is(err, sentinel.ErrNotFound):
		action = audit.ActionCreate
		menu = &models.Menu{ID: id.NewMenuID(), Name: req.Name, Items: req.Items, CreatedAt: now, UpdatedAt: now}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up menu")
	}

	if err := s.menus.Upsert(ctx, menu); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save menu")
	}

	if err := s.recordMutation(ctx, actor, action, "menu", menu.ID.String(),
		map[string]any{"name": menu.Name, "items": len(menu.Items)}, origin); err != nil {
		return nil, err
	}
	return menu, nil
}

func (s *Service) GetMenu(ctx context.Context, name string) (*models.Menu, error) {
	menu, err := s.menus.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "menu not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up menu")
	}
	return menu, nil
}

func (s *Service) ListMenus(ctx context.Context) ([]*models.Menu, error) {
	menus, err := s.menus.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list menus")
	}
	return menus, nil
}

// RegisterMedia records metadata for an uploaded asset.
func (s *Service) RegisterMedia(ctx context.Context, actor *identitymodels.Principal, req models.RegisterMediaRequest, origin audit.Origin) (*models.Media, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	media := &models.Media{
		ID:          id.NewMediaID(),
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		AltText:     req.AltText,
		UploadedBy:  actor.UserID,
		CreatedAt:   requesttime.Now(ctx),
	}
	if err := s.media.Create(ctx, media); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register media")
	}

	if err := s.recordMutation(ctx, actor, audit.ActionCreate, "media", media.ID.String(),
		map[string]any{"file_name": media.FileName, "size_bytes": media.SizeBytes}, origin); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *Service) DeleteMedia(ctx context.Context, actor *identitymodels.Principal, mediaID id.MediaID, origin audit.Origin) error {
	media, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "media not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up media")
	}
	if err := s.media.Delete(ctx, mediaID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete media")
	}

	return s.recordMutation(ctx, actor, audit.ActionDelete, "media", mediaID.String(),
		map[string]any{"file_name": media.FileName}, origin)
}

func (s *Service) ListMedia(ctx context.Context) ([]*models.Media, error) {
	all, err := s.media.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list media")
	}
	return all, nil
}

// ReplaceFooter swaps the whole footer in one audited operation.
func (s *Service) ReplaceFooter(ctx context.Context, actor *identitymodels.Principal, req models.ReplaceFooterRequest, origin audit.Origin) ([]*models.FooterSection, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requesttime.Now(ctx)
	sections := make([]*models.FooterSection, 0, len(req.Sections))
	for _, in := range req.Sections {
		sections = append(sections, &models.FooterSection{
			ID:        id.NewFooterID(),
			Heading:   in.Heading,
			Links:     in.Links,
			Position:  in.Position,
			UpdatedAt: now,
		})
	}
	if err := s.footer.Replace(ctx, sections); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace footer")
	}

	if err := s.recordMutation(ctx, actor, audit.ActionUpdate, "footer", "",
		map[string]any{"sections": len(sections)}, origin); err != nil {
		return nil, err
	}
	return s.footer.List(ctx)
}

func (s *Service) GetFooter(ctx context.Context) ([]*models.FooterSection, error) {
	sections, err := s.footer.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list footer sections")
	}
	return sections, nil
}

// PutSetting writes one site-wide configuration value.
func (s *Service) PutSetting(ctx context.Context, actor *identitymodels.Principal, key string, req models.PutSettingRequest, origin audit.Origin) (*models.Setting, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "setting key is required")
	}

	setting := &models.Setting{Key: key, Value: req.Value, UpdatedAt: requesttime.Now(ctx)}
	if err := s.settings.Put(ctx, setting); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save setting")
	}

	if err := s.recordMutation(ctx, actor, audit.ActionUpdate, "setting", key, nil, origin); err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *Service) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "setting not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up setting")
	}
	return setting, nil
}

func (s *Service) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list settings")
	}
	return settings, nil
}
