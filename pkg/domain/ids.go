// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "inkwell/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a UserID where a PageID is expected.
type (
	UserID   uuid.UUID
	PageID   uuid.UUID
	MenuID   uuid.UUID
	MediaID  uuid.UUID
	TopicID  uuid.UUID
	FooterID uuid.UUID
	AuditID  uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParsePageID(s string) (PageID, error) {
	id, err := parseUUID(s, "page ID")
	return PageID(id), err
}

func ParseMenuID(s string) (MenuID, error) {
	id, err := parseUUID(s, "menu ID")
	return MenuID(id), err
}

func ParseMediaID(s string) (MediaID, error) {
	id, err := parseUUID(s, "media ID")
	return MediaID(id), err
}

func ParseTopicID(s string) (TopicID, error) {
	id, err := parseUUID(s, "topic ID")
	return TopicID(id), err
}

func ParseFooterID(s string) (FooterID, error) {
	id, err := parseUUID(s, "footer section ID")
	return FooterID(id), err
}

func ParseAuditID(s string) (AuditID, error) {
	id, err := parseUUID(s, "audit record ID")
	return AuditID(id), err
}

// String methods - for logging and debugging.

func (id UserID) String() string   { return uuid.UUID(id).String() }
func (id PageID) String() string   { return uuid.UUID(id).String() }
func (id MenuID) String() string   { return uuid.UUID(id).String() }
func (id MediaID) String() string  { return uuid.UUID(id).String() }
func (id TopicID) String() string  { return uuid.UUID(id).String() }
func (id FooterID) String() string { return uuid.UUID(id).String() }
func (id AuditID) String() string  { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PageID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id MenuID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id MediaID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id TopicID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id FooterID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AuditID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// New constructors for freshly created entities.

func NewUserID() UserID     { return UserID(uuid.New()) }
func NewPageID() PageID     { return PageID(uuid.New()) }
func NewMenuID() MenuID     { return MenuID(uuid.New()) }
func NewMediaID() MediaID   { return MediaID(uuid.New()) }
func NewTopicID() TopicID   { return TopicID(uuid.New()) }
func NewFooterID() FooterID { return FooterID(uuid.New()) }
func NewAuditID() AuditID   { return AuditID(uuid.New()) }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
