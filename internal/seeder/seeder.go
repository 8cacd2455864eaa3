// Package seeder populates demo accounts and sample content for local
// development. It is only invoked when SEED_DEMO_DATA=true.
package seeder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	contentmodels "inkwell/internal/content/models"
	contentstore "inkwell/internal/content/store"
	identitymodels "inkwell/internal/identity/models"
	identitystore "inkwell/internal/identity/store"
	"inkwell/internal/sentinel"
	id "inkwell/pkg/domain"
	"inkwell/pkg/secrets"
)

// demoPassword is intentionally weak; the seeder must never run in production.
const demoPassword = "inkwell-demo-password"

type Seeder struct {
	users  identitystore.UserStore
	pages  contentstore.PageStore
	menus  contentstore.MenuStore
	topics contentstore.TopicStore
	logger *slog.Logger
}

func New(users identitystore.UserStore, pages contentstore.PageStore, menus contentstore.MenuStore, topics contentstore.TopicStore, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, pages: pages, menus: menus, topics: topics, logger: logger}
}

// Run inserts the demo fixtures, skipping anything already present.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	if err := s.seedContent(ctx); err != nil {
		return err
	}
	s.logger.Info("demo data seeded")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) error {
	hash, err := secrets.Hash(demoPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	demo := []identitymodels.User{
		{Email: "admin@inkwell.local", DisplayName: "Demo Admin", Role: identitymodels.RoleAdmin},
		{Email: "editor@inkwell.local", DisplayName: "Demo Editor", Role: identitymodels.RoleEditor},
		{Email: "viewer@inkwell.local", DisplayName: "Demo Viewer", Role: identitymodels.RoleViewer},
	}
	for _, u := range demo {
		u.ID = id.NewUserID()
		u.PasswordHash = hash
		u.Active = true
		u.CreatedAt = now
		u.UpdatedAt = now
		if err := s.users.Create(ctx, &u); err != nil && !errors.Is(err, sentinel.ErrDuplicate) {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedContent(ctx context.Context) error {
	now := time.Now()

	pages := []contentmodels.Page{
		{Slug: "home", Title: "Welcome", Body: "Welcome to Inkwell.", Published: true},
		{Slug: "about", Title: "About", Body: "What this site is about."},
	}
	for _, p := range pages {
		p.ID = id.NewPageID()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.pages.Create(ctx, &p); err != nil && !errors.Is(err, sentinel.ErrDuplicate) {
			return err
		}
	}

	menu := &contentmodels.Menu{
		ID:   id.NewMenuID(),
		Name: "main",
		Items: []contentmodels.MenuItem{
			{Label: "Home", URL: "/", Position: 0},
			{Label: "About", URL: "/about", Position: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.menus.Upsert(ctx, menu); err != nil {
		return err
	}

	topics := []contentmodels.Topic{
		{Question: "How do I publish a page?", Answer: "Open the page and enable the published flag.", Category: "editing", Position: 1},
		{Question: "Who can manage users?", Answer: "Only administrators.", Category: "accounts", Position: 1},
	}
	for _, t := range topics {
		t.ID = id.NewTopicID()
		t.CreatedAt = now
		t.UpdatedAt = now
		if err := s.topics.Create(ctx, &t); err != nil && !errors.Is(err, sentinel.ErrDuplicate) {
			return err
		}
	}
	return nil
}
