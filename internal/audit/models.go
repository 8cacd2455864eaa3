package audit

import (
	"time"

	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
)

// Action is the closed set of audited operation kinds.
type Action string

const (
	ActionCreate      Action = "CREATE"
	ActionUpdate      Action = "UPDATE"
	ActionDelete      Action = "DELETE"
	ActionExport      Action = "EXPORT"
	ActionImport      Action = "IMPORT"
	ActionLogin       Action = "LOGIN"
	ActionLoginFailed Action = "LOGIN_FAILED"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionExport, ActionImport, ActionLogin, ActionLoginFailed:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// ParseAction validates an action string at trust boundaries (export filters).
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid audit action")
	}
	return a, nil
}

// Record is one immutable audit trail entry: who did what to which entity,
// from where, and when. Records are append-only; identical parameters logged
// twice yield two distinct records.
type Record struct {
	ID         id.AuditID
	ActorID    id.UserID
	Action     Action
	EntityType string
	EntityID   string
	Detail     map[string]any
	OriginIP   string
	UserAgent  string
	CreatedAt  time.Time
}

// Origin bundles the network context captured at the transport boundary.
type Origin struct {
	IP        string
	UserAgent string
}

// Filter narrows an audit query. All set fields are ANDed; the date range is
// inclusive on both ends. Limit of zero means "use the configured default".
type Filter struct {
	ActorID    *id.UserID
	Action     *Action
	EntityType *string
	Start      *time.Time
	End        *time.Time
	Limit      int
	Offset     int
}

// Matches reports whether the record satisfies every set filter field.
func (f Filter) Matches(r *Record) bool {
	if f.ActorID != nil && r.ActorID != *f.ActorID {
		return false
	}
	if f.Action != nil && r.Action != *f.Action {
		return false
	}
	if f.EntityType != nil && r.EntityType != *f.EntityType {
		return false
	}
	if f.Start != nil && r.CreatedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && r.CreatedAt.After(*f.End) {
		return false
	}
	return true
}
