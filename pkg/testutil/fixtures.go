// Package testutil provides fixture builders shared across test suites.
package testutil

import (
	"time"

	contentmodels "inkwell/internal/content/models"
	"inkwell/internal/identity/models"
	id "inkwell/pkg/domain"
)

// FixedTime is the deterministic base timestamp suites inject via
// requesttime.WithTime.
func FixedTime() time.Time {
	return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
}

// UserBuilder builds identity users with sensible defaults.
type UserBuilder struct {
	user models.User
}

func NewUserBuilder() *UserBuilder {
	now := FixedTime()
	return &UserBuilder{user: models.User{
		ID:           id.NewUserID(),
		Email:        "user@example.com",
		PasswordHash: "$2a$04$notarealhashnotarealhashnotarealhash",
		DisplayName:  "Test User",
		Role:         models.RoleViewer,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithRole(role models.Role) *UserBuilder {
	b.user.Role = role
	return b
}

func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.user.PasswordHash = hash
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.user.Active = false
	return b
}

func (b *UserBuilder) Build() *models.User {
	copied := b.user
	return &copied
}

// PageBuilder builds content pages with sensible defaults.
type PageBuilder struct {
	page contentmodels.Page
}

func NewPageBuilder() *PageBuilder {
	now := FixedTime()
	return &PageBuilder{page: contentmodels.Page{
		ID:        id.NewPageID(),
		Slug:      "sample-page",
		Title:     "Sample Page",
		Body:      "Sample body.",
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

func (b *PageBuilder) WithSlug(slug string) *PageBuilder {
	b.page.Slug = slug
	return b
}

func (b *PageBuilder) WithTitle(title string) *PageBuilder {
	b.page.Title = title
	return b
}

func (b *PageBuilder) Published() *PageBuilder {
	b.page.Published = true
	return b
}

func (b *PageBuilder) Build() *contentmodels.Page {
	copied := b.page
	return &copied
}

// TopicBuilder builds question/answer topics with sensible defaults.
type TopicBuilder struct {
	topic contentmodels.Topic
}

func NewTopicBuilder() *TopicBuilder {
	now := FixedTime()
	return &TopicBuilder{topic: contentmodels.Topic{
		ID:        id.NewTopicID(),
		Question:  "What is this?",
		Answer:    "An example.",
		Category:  "general",
		Position:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

func (b *TopicBuilder) WithQuestion(question string) *TopicBuilder {
	b.topic.Question = question
	return b
}

func (b *TopicBuilder) WithAnswer(answer string) *TopicBuilder {
	b.topic.Answer = answer
	return b
}

func (b *TopicBuilder) WithCategory(category string) *TopicBuilder {
	b.topic.Category = category
	return b
}

func (b *TopicBuilder) WithPosition(position int) *TopicBuilder {
	b.topic.Position = position
	return b
}

func (b *TopicBuilder) Build() *contentmodels.Topic {
	copied := b.topic
	return &copied
}
