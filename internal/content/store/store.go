// Package store defines the persistence ports for the content domain and
// their in-memory implementations.
//
// Error Contract (all interfaces):
// - Create returns sentinel.ErrDuplicate on unique key collisions.
// - Get/Update/Delete return sentinel.ErrNotFound for unknown identities.
package store

import (
	"context"

	"inkwell/internal/content/models"
	id "inkwell/pkg/domain"
)

type PageStore interface {
	Create(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, pageID id.PageID) (*models.Page, error)
	GetBySlug(ctx context.Context, slug string) (*models.Page, error)
	Update(ctx context.Context, page *models.Page) error
	Delete(ctx context.Context, pageID id.PageID) error
	List(ctx context.Context) ([]*models.Page, error)
}

type MenuStore interface {
	Upsert(ctx context.Context, menu *models.Menu) error
	GetByName(ctx context.Context, name string) (*models.Menu, error)
	List(ctx context.Context) ([]*models.Menu, error)
}

type MediaStore interface {
	Create(ctx context.Context, media *models.Media) error
	GetByID(ctx context.Context, mediaID id.MediaID) (*models.Media, error)
	Delete(ctx context.Context, mediaID id.MediaID) error
	List(ctx context.Context) ([]*models.Media, error)
}

type FooterStore interface {
	Replace(ctx context.Context, sections []*models.FooterSection) error
	List(ctx context.Context) ([]*models.FooterSection, error)
}

type SettingStore interface {
	Put(ctx context.Context, setting *models.Setting) error
	Get(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]*models.Setting, error)
}

type TopicStore interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, topicID id.TopicID) (*models.Topic, error)
	GetByQuestion(ctx context.Context, question string) (*models.Topic, error)
	Update(ctx context.Context, topic *models.Topic) error
	Delete(ctx context.Context, topicID id.TopicID) error
	List(ctx context.Context) ([]*models.Topic, error)
}
