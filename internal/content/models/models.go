// Package models holds the content domain entities: the publishable
// surfaces an editor manages through the admin application.
package models

import (
	"time"

	id "inkwell/pkg/domain"
)

// Page is a publishable content page addressed by slug.
type Page struct {
	ID        id.PageID
	Slug      string // unique, lowercase, URL-safe
	Title     string
	Body      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PageSummary is the JSON projection for page listings.
type PageSummary struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Published bool      `json:"published"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Page) Summary() PageSummary {
	return PageSummary{
		ID:        p.ID.String(),
		Slug:      p.Slug,
		Title:     p.Title,
		Published: p.Published,
		UpdatedAt: p.UpdatedAt,
	}
}

// MenuItem is one entry in a navigation menu, ordered by Position.
type MenuItem struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Menu is a named navigation structure, e.g. "main" or "footer".
type Menu struct {
	ID        id.MenuID
	Name      string // unique
	Items     []MenuItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Media is the stored metadata for an uploaded asset. The binary itself
// lives in the object store; this record is what the admin UI lists.
type Media struct {
	ID          id.MediaID
	FileName    string
	ContentType string
	SizeBytes   int64
	AltText     string
	UploadedBy  id.UserID
	CreatedAt   time.Time
}

// FooterLink is one link inside a footer section.
type FooterLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// FooterSection is a heading with ordered links shown in the site footer.
type FooterSection struct {
	ID        id.FooterID
	Heading   string
	Links     []FooterLink
	Position  int
	UpdatedAt time.Time
}

// Setting is a site-wide key/value configuration entry.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Topic is a question/answer entry grouped by category; the bulk CSV
// import/export surface operates on these.
type Topic struct {
	ID        id.TopicID
	Question  string // unique case-insensitively; bulk import upserts on it
	Answer    string
	Category  string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}
