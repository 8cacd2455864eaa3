package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"inkwell/internal/content/models"
	"inkwell/internal/sentinel"
	id "inkwell/pkg/domain"
	"inkwell/pkg/testutil"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx context.Context
	now time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
}

func (s *MemoryStoreSuite) TestPageSlugIsUniqueAndImmutable() {
	pages := NewInMemoryPageStore()
	page := testutil.NewPageBuilder().WithSlug("about").WithTitle("About").Build()
	s.Require().NoError(pages.Create(s.ctx, page))

	dup := testutil.NewPageBuilder().WithSlug("about").WithTitle("Other").Build()
	s.ErrorIs(pages.Create(s.ctx, dup), sentinel.ErrDuplicate)

	page.Slug = "renamed"
	page.Title = "About Us"
	s.Require().NoError(pages.Update(s.ctx, page))

	got, err := pages.GetBySlug(s.ctx, "about")
	s.Require().NoError(err)
	s.Equal("About Us", got.Title)
	s.Equal("about", got.Slug)
}

func (s *MemoryStoreSuite) TestPageDeleteFreesTheSlug() {
	pages := NewInMemoryPageStore()
	page := &models.Page{ID: id.NewPageID(), Slug: "about", Title: "About"}
	s.Require().NoError(pages.Create(s.ctx, page))
	s.Require().NoError(pages.Delete(s.ctx, page.ID))

	_, err := pages.GetBySlug(s.ctx, "about")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.NoError(pages.Create(s.ctx, &models.Page{ID: id.NewPageID(), Slug: "about", Title: "New About"}))
}

func (s *MemoryStoreSuite) TestMenuUpsertReplacesItems() {
	menus := NewInMemoryMenuStore()
	menu := &models.Menu{ID: id.NewMenuID(), Name: "main", Items: []models.MenuItem{{Label: "Home", URL: "/", Position: 0}}}
	s.Require().NoError(menus.Upsert(s.ctx, menu))

	menu.Items = []models.MenuItem{{Label: "Blog", URL: "/blog", Position: 0}}
	s.Require().NoError(menus.Upsert(s.ctx, menu))

	got, err := menus.GetByName(s.ctx, "MAIN")
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Equal("Blog", got.Items[0].Label)
}

func (s *MemoryStoreSuite) TestFooterReplaceSortsByPosition() {
	footer := NewInMemoryFooterStore()
	s.Require().NoError(footer.Replace(s.ctx, []*models.FooterSection{
		{ID: id.NewFooterID(), Heading: "Legal", Position: 2},
		{ID: id.NewFooterID(), Heading: "Company", Position: 1},
	}))

	got, err := footer.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("Company", got[0].Heading)
}

func (s *MemoryStoreSuite) TestSettingPutOverwrites() {
	settings := NewInMemorySettingStore()
	s.Require().NoError(settings.Put(s.ctx, &models.Setting{Key: "site_title", Value: "Inkwell"}))
	s.Require().NoError(settings.Put(s.ctx, &models.Setting{Key: "site_title", Value: "Inkwell CMS"}))

	got, err := settings.Get(s.ctx, "site_title")
	s.Require().NoError(err)
	s.Equal("Inkwell CMS", got.Value)

	_, err = settings.Get(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestTopicQuestionIndexIsCaseInsensitive() {
	topics := NewInMemoryTopicStore()
	topic := testutil.NewTopicBuilder().WithQuestion("How do I reset my password?").Build()
	s.Require().NoError(topics.Create(s.ctx, topic))

	got, err := topics.GetByQuestion(s.ctx, "how do i reset my password?")
	s.Require().NoError(err)
	s.Equal(topic.ID, got.ID)

	dup := testutil.NewTopicBuilder().WithQuestion("HOW DO I RESET MY PASSWORD?").Build()
	s.ErrorIs(topics.Create(s.ctx, dup), sentinel.ErrDuplicate)
}

func (s *MemoryStoreSuite) TestTopicUpdateMovesQuestionIndex() {
	topics := NewInMemoryTopicStore()
	topic := &models.Topic{ID: id.NewTopicID(), Question: "Old question?", Answer: "A"}
	other := &models.Topic{ID: id.NewTopicID(), Question: "Taken question?", Answer: "B"}
	s.Require().NoError(topics.Create(s.ctx, topic))
	s.Require().NoError(topics.Create(s.ctx, other))

	topic.Question = "Taken question?"
	s.ErrorIs(topics.Update(s.ctx, topic), sentinel.ErrDuplicate)

	topic.Question = "New question?"
	s.Require().NoError(topics.Update(s.ctx, topic))

	_, err := topics.GetByQuestion(s.ctx, "Old question?")
	s.ErrorIs(err, sentinel.ErrNotFound)
	got, err := topics.GetByQuestion(s.ctx, "new question?")
	s.Require().NoError(err)
	s.Equal(topic.ID, got.ID)
}

func (s *MemoryStoreSuite) TestTopicListOrdersByCategoryThenPosition() {
	topics := NewInMemoryTopicStore()
	s.Require().NoError(topics.Create(s.ctx, testutil.NewTopicBuilder().WithQuestion("B?").WithCategory("billing").WithPosition(2).Build()))
	s.Require().NoError(topics.Create(s.ctx, testutil.NewTopicBuilder().WithQuestion("A?").WithCategory("billing").WithPosition(1).Build()))
	s.Require().NoError(topics.Create(s.ctx, testutil.NewTopicBuilder().WithQuestion("C?").WithCategory("account").WithPosition(9).Build()))

	got, err := topics.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("C?", got[0].Question)
	s.Equal("A?", got[1].Question)
	s.Equal("B?", got[2].Question)
}
