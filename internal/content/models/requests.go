package models

import (
	"regexp"
	"strings"

	dErrors "inkwell/pkg/domain-errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreatePageRequest registers a new page. Pages start unpublished.
type CreatePageRequest struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r *CreatePageRequest) Normalize() {
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	r.Title = strings.TrimSpace(r.Title)
}

func (r *CreatePageRequest) Validate() error {
	if !slugPattern.MatchString(r.Slug) {
		return dErrors.New(dErrors.CodeValidation, "slug must be lowercase letters, digits and hyphens")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return nil
}

// UpdatePageRequest replaces a page's editable fields, including the
// published flag.
type UpdatePageRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (r *UpdatePageRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *UpdatePageRequest) Validate() error {
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	return nil
}

// UpsertMenuRequest replaces a named menu's items wholesale.
type UpsertMenuRequest struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

func (r *UpsertMenuRequest) Normalize() {
	r.Name = strings.ToLower(strings.TrimSpace(r.Name))
	for i := range r.Items {
		r.Items[i].Label = strings.TrimSpace(r.Items[i].Label)
		r.Items[i].URL = strings.TrimSpace(r.Items[i].URL)
	}
}

func (r *UpsertMenuRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "menu name is required")
	}
	for _, item := range r.Items {
		if item.Label == "" || item.URL == "" {
			return dErrors.New(dErrors.CodeValidation, "every menu item needs a label and a url")
		}
	}
	return nil
}

// RegisterMediaRequest records metadata for an uploaded asset.
type RegisterMediaRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	AltText     string `json:"alt_text"`
}

func (r *RegisterMediaRequest) Normalize() {
	r.FileName = strings.TrimSpace(r.FileName)
	r.ContentType = strings.ToLower(strings.TrimSpace(r.ContentType))
	r.AltText = strings.TrimSpace(r.AltText)
}

func (r *RegisterMediaRequest) Validate() error {
	if r.FileName == "" {
		return dErrors.New(dErrors.CodeValidation, "file name is required")
	}
	if r.ContentType == "" {
		return dErrors.New(dErrors.CodeValidation, "content type is required")
	}
	if r.SizeBytes <= 0 {
		return dErrors.New(dErrors.CodeValidation, "size must be positive")
	}
	return nil
}

// ReplaceFooterRequest replaces all footer sections in one operation.
type ReplaceFooterRequest struct {
	Sections []FooterSectionInput `json:"sections"`
}

// FooterSectionInput is one section in a footer replacement.
type FooterSectionInput struct {
	Heading  string       `json:"heading"`
	Links    []FooterLink `json:"links"`
	Position int          `json:"position"`
}

func (r *ReplaceFooterRequest) Normalize() {
	for i := range r.Sections {
		r.Sections[i].Heading = strings.TrimSpace(r.Sections[i].Heading)
	}
}

func (r *ReplaceFooterRequest) Validate() error {
	for _, s := range r.Sections {
		if s.Heading == "" {
			return dErrors.New(dErrors.CodeValidation, "every footer section needs a heading")
		}
		for _, l := range s.Links {
			if l.Label == "" || l.URL == "" {
				return dErrors.New(dErrors.CodeValidation, "every footer link needs a label and a url")
			}
		}
	}
	return nil
}

// PutSettingRequest sets one site-wide configuration value.
type PutSettingRequest struct {
	Value string `json:"value"`
}

func (r *PutSettingRequest) Normalize() {
	r.Value = strings.TrimSpace(r.Value)
}

func (r *PutSettingRequest) Validate() error {
	return nil
}

// UpsertTopicRequest creates or edits one question/answer entry.
type UpsertTopicRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Position int    `json:"position"`
}

func (r *UpsertTopicRequest) Normalize() {
	r.Question = strings.TrimSpace(r.Question)
	r.Answer = strings.TrimSpace(r.Answer)
	r.Category = strings.TrimSpace(r.Category)
}

func (r *UpsertTopicRequest) Validate() error {
	if r.Question == "" {
		return dErrors.New(dErrors.CodeValidation, "question is required")
	}
	if r.Answer == "" {
		return dErrors.New(dErrors.CodeValidation, "answer is required")
	}
	return nil
}
