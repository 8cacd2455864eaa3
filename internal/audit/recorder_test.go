package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

type failingStore struct {
	err error
}

func (f *failingStore) Append(context.Context, *Record) error {
	return f.err
}

func (f *failingStore) Query(context.Context, Filter) ([]*Record, error) {
	return nil, f.err
}

type RecorderSuite struct {
	suite.Suite
	ctx      context.Context
	store    *InMemoryStore
	recorder *Recorder
	actor    id.UserID
	now      time.Time
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.now = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requesttime.WithTime(context.Background(), s.now)
	s.store = NewInMemoryStore()
	s.recorder = NewRecorder(s.store)
	s.actor = id.NewUserID()
}

func (s *RecorderSuite) TestRecordStampsIdentityAndTime() {
	s.recorder.Record(s.ctx, Entry{
		ActorID:    s.actor,
		Action:     ActionCreate,
		EntityType: "page",
		EntityID:   "p1",
		Detail:     map[string]any{"title": "Home"},
		Origin:     Origin{IP: "203.0.113.9", UserAgent: "curl/8.5.0"},
	})

	got, err := s.store.Query(s.ctx, Filter{})
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.False(got[0].ID.IsNil())
	s.Equal(s.actor, got[0].ActorID)
	s.Equal(s.now, got[0].CreatedAt)
	s.Equal("203.0.113.9", got[0].OriginIP)
}

func (s *RecorderSuite) TestRecordSwallowsStoreFailure() {
	broken := NewRecorder(&failingStore{err: errors.New("disk full")})

	s.NotPanics(func() {
		broken.Record(s.ctx, Entry{ActorID: s.actor, Action: ActionLogin, EntityType: "session"})
	})
}

func (s *RecorderSuite) TestRecordSyncSurfacesStoreFailure() {
	broken := NewRecorder(&failingStore{err: errors.New("disk full")})

	err := broken.RecordSync(s.ctx, Entry{ActorID: s.actor, Action: ActionDelete, EntityType: "page", EntityID: "p1"})
	s.True(dErrors.HasCode(err, dErrors.CodeAuditWriteFailed))
}

func (s *RecorderSuite) TestRecordSyncSucceeds() {
	err := s.recorder.RecordSync(s.ctx, Entry{ActorID: s.actor, Action: ActionUpdate, EntityType: "menu", EntityID: "m1"})
	s.Require().NoError(err)
	s.Equal(1, s.store.Len())
}

func (s *RecorderSuite) TestInvalidActionRejected() {
	err := s.recorder.RecordSync(s.ctx, Entry{ActorID: s.actor, Action: Action("SHRUG"), EntityType: "page"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(0, s.store.Len())
}
