package handler

import (
	"time"

	"inkwell/internal/content/models"
)

type pageBody struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func pageResponse(p *models.Page) pageBody {
	return pageBody{
		ID:        p.ID.String(),
		Slug:      p.Slug,
		Title:     p.Title,
		Body:      p.Body,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type menuBody struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Items     []models.MenuItem `json:"items"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func menuResponse(m *models.Menu) menuBody {
	return menuBody{ID: m.ID.String(), Name: m.Name, Items: m.Items, UpdatedAt: m.UpdatedAt}
}

func menusResponse(menus []*models.Menu) []menuBody {
	out := make([]menuBody, 0, len(menus))
	for _, m := range menus {
		out = append(out, menuResponse(m))
	}
	return out
}

type mediaBody struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	AltText     string    `json:"alt_text,omitempty"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func mediaResponse(m *models.Media) mediaBody {
	return mediaBody{
		ID:          m.ID.String(),
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		AltText:     m.AltText,
		UploadedBy:  m.UploadedBy.String(),
		CreatedAt:   m.CreatedAt,
	}
}

func mediaListResponse(all []*models.Media) []mediaBody {
	out := make([]mediaBody, 0, len(all))
	for _, m := range all {
		out = append(out, mediaResponse(m))
	}
	return out
}

type footerSectionBody struct {
	ID       string              `json:"id"`
	Heading  string              `json:"heading"`
	Links    []models.FooterLink `json:"links"`
	Position int                 `json:"position"`
}

func footerResponse(sections []*models.FooterSection) []footerSectionBody {
	out := make([]footerSectionBody, 0, len(sections))
	for _, s := range sections {
		out = append(out, footerSectionBody{
			ID:       s.ID.String(),
			Heading:  s.Heading,
			Links:    s.Links,
			Position: s.Position,
		})
	}
	return out
}

type settingBody struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func settingResponse(s *models.Setting) settingBody {
	return settingBody{Key: s.Key, Value: s.Value, UpdatedAt: s.UpdatedAt}
}

func settingsResponse(settings []*models.Setting) []settingBody {
	out := make([]settingBody, 0, len(settings))
	for _, s := range settings {
		out = append(out, settingResponse(s))
	}
	return out
}

type topicBody struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
	Position int    `json:"position"`
}

func topicResponse(t *models.Topic) topicBody {
	return topicBody{
		ID:       t.ID.String(),
		Question: t.Question,
		Answer:   t.Answer,
		Category: t.Category,
		Position: t.Position,
	}
}

func topicsResponse(topics []*models.Topic) []topicBody {
	out := make([]topicBody, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicResponse(t))
	}
	return out
}
