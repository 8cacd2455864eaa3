package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"inkwell/internal/content/models"
	"inkwell/internal/sentinel"
	id "inkwell/pkg/domain"
)

// InMemoryPageStore indexes pages by ID with a secondary slug index.
type InMemoryPageStore struct {
	mu     sync.RWMutex
	byID   map[id.PageID]*models.Page
	bySlug map[string]id.PageID
}

func NewInMemoryPageStore() *InMemoryPageStore {
	return &InMemoryPageStore{
		byID:   make(map[id.PageID]*models.Page),
		bySlug: make(map[string]id.PageID),
	}
}

func (s *InMemoryPageStore) Create(_ context.Context, page *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySlug[page.Slug]; exists {
		return sentinel.ErrDuplicate
	}
	copied := *page
	s.byID[page.ID] = &copied
	s.bySlug[page.Slug] = page.ID
	return nil
}

func (s *InMemoryPageStore) GetByID(_ context.Context, pageID id.PageID) (*models.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.byID[pageID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *page
	return &copied, nil
}

func (s *InMemoryPageStore) GetBySlug(_ context.Context, slug string) (*models.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pageID, ok := s.bySlug[strings.ToLower(slug)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[pageID]
	return &copied, nil
}

func (s *InMemoryPageStore) Update(_ context.Context, page *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[page.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	// Slug is immutable once created.
	copied := *page
	copied.Slug = existing.Slug
	s.byID[page.ID] = &copied
	return nil
}

func (s *InMemoryPageStore) Delete(_ context.Context, pageID id.PageID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.byID[pageID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.bySlug, page.Slug)
	delete(s.byID, pageID)
	return nil
}

func (s *InMemoryPageStore) List(_ context.Context) ([]*models.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pages := make([]*models.Page, 0, len(s.byID))
	for _, p := range s.byID {
		copied := *p
		pages = append(pages, &copied)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })
	return pages, nil
}

// InMemoryMenuStore keys menus by their lowercase name.
type InMemoryMenuStore struct {
	mu     sync.RWMutex
	byName map[string]*models.Menu
}

func NewInMemoryMenuStore() *InMemoryMenuStore {
	return &InMemoryMenuStore{byName: make(map[string]*models.Menu)}
}

func (s *InMemoryMenuStore) Upsert(_ context.Context, menu *models.Menu) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *menu
	copied.Items = append([]models.MenuItem(nil), menu.Items...)
	s.byName[strings.ToLower(menu.Name)] = &copied
	return nil
}

func (s *InMemoryMenuStore) GetByName(_ context.Context, name string) (*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	menu, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *menu
	copied.Items = append([]models.MenuItem(nil), menu.Items...)
	return &copied, nil
}

func (s *InMemoryMenuStore) List(_ context.Context) ([]*models.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	menus := make([]*models.Menu, 0, len(s.byName))
	for _, m := range s.byName {
		copied := *m
		copied.Items = append([]models.MenuItem(nil), m.Items...)
		menus = append(menus, &copied)
	}
	sort.Slice(menus, func(i, j int) bool { return menus[i].Name < menus[j].Name })
	return menus, nil
}

// InMemoryMediaStore keeps uploaded asset metadata by ID.
type InMemoryMediaStore struct {
	mu   sync.RWMutex
	byID map[id.MediaID]*models.Media
}

func NewInMemoryMediaStore() *InMemoryMediaStore {
	return &InMemoryMediaStore{byID: make(map[id.MediaID]*models.Media)}
}

func (s *InMemoryMediaStore) Create(_ context.Context, media *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[media.ID]; exists {
		return sentinel.ErrDuplicate
	}
	copied := *media
	s.byID[media.ID] = &copied
	return nil
}

func (s *InMemoryMediaStore) GetByID(_ context.Context, mediaID id.MediaID) (*models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	media, ok := s.byID[mediaID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *media
	return &copied, nil
}

func (s *InMemoryMediaStore) Delete(_ context.Context, mediaID id.MediaID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[mediaID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, mediaID)
	return nil
}

func (s *InMemoryMediaStore) List(_ context.Context) ([]*models.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Media, 0, len(s.byID))
	for _, m := range s.byID {
		copied := *m
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FileName < all[j].FileName })
	return all, nil
}

// InMemoryFooterStore holds the footer as one replaceable ordered list.
type InMemoryFooterStore struct {
	mu       sync.RWMutex
	sections []*models.FooterSection
}

func NewInMemoryFooterStore() *InMemoryFooterStore {
	return &InMemoryFooterStore{}
}

func (s *InMemoryFooterStore) Replace(_ context.Context, sections []*models.FooterSection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]*models.FooterSection, 0, len(sections))
	for _, sec := range sections {
		c := *sec
		c.Links = append([]models.FooterLink(nil), sec.Links...)
		copied = append(copied, &c)
	}
	sort.Slice(copied, func(i, j int) bool { return copied[i].Position < copied[j].Position })
	s.sections = copied
	return nil
}

func (s *InMemoryFooterStore) List(_ context.Context) ([]*models.FooterSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.FooterSection, 0, len(s.sections))
	for _, sec := range s.sections {
		c := *sec
		c.Links = append([]models.FooterLink(nil), sec.Links...)
		out = append(out, &c)
	}
	return out, nil
}

// InMemorySettingStore is a key/value table for site settings.
type InMemorySettingStore struct {
	mu    sync.RWMutex
	byKey map[string]*models.Setting
}

func NewInMemorySettingStore() *InMemorySettingStore {
	return &InMemorySettingStore{byKey: make(map[string]*models.Setting)}
}

func (s *InMemorySettingStore) Put(_ context.Context, setting *models.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *setting
	s.byKey[setting.Key] = &copied
	return nil
}

func (s *InMemorySettingStore) Get(_ context.Context, key string) (*models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setting, ok := s.byKey[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *setting
	return &copied, nil
}

func (s *InMemorySettingStore) List(_ context.Context) ([]*models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Setting, 0, len(s.byKey))
	for _, setting := range s.byKey {
		copied := *setting
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	return all, nil
}

// InMemoryTopicStore indexes topics by ID with a case-insensitive question
// index, which is what the bulk import upserts on.
type InMemoryTopicStore struct {
	mu         sync.RWMutex
	byID       map[id.TopicID]*models.Topic
	byQuestion map[string]id.TopicID
}

func NewInMemoryTopicStore() *InMemoryTopicStore {
	return &InMemoryTopicStore{
		byID:       make(map[id.TopicID]*models.Topic),
		byQuestion: make(map[string]id.TopicID),
	}
}

func questionKey(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

func (s *InMemoryTopicStore) Create(_ context.Context, topic *models.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := questionKey(topic.Question)
	if _, exists := s.byQuestion[key]; exists {
		return sentinel.ErrDuplicate
	}
	copied := *topic
	s.byID[topic.ID] = &copied
	s.byQuestion[key] = topic.ID
	return nil
}

func (s *InMemoryTopicStore) GetByID(_ context.Context, topicID id.TopicID) (*models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topic, ok := s.byID[topicID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *topic
	return &copied, nil
}

func (s *InMemoryTopicStore) GetByQuestion(_ context.Context, question string) (*models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topicID, ok := s.byQuestion[questionKey(question)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[topicID]
	return &copied, nil
}

func (s *InMemoryTopicStore) Update(_ context.Context, topic *models.Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[topic.ID]
	if !ok {
		return sentinel.ErrNotFound
	}

	newKey := questionKey(topic.Question)
	oldKey := questionKey(existing.Question)
	if newKey != oldKey {
		if _, taken := s.byQuestion[newKey]; taken {
			return sentinel.ErrDuplicate
		}
		delete(s.byQuestion, oldKey)
		s.byQuestion[newKey] = topic.ID
	}

	copied := *topic
	s.byID[topic.ID] = &copied
	return nil
}

func (s *InMemoryTopicStore) Delete(_ context.Context, topicID id.TopicID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	topic, ok := s.byID[topicID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byQuestion, questionKey(topic.Question))
	delete(s.byID, topicID)
	return nil
}

func (s *InMemoryTopicStore) List(_ context.Context) ([]*models.Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.Topic, 0, len(s.byID))
	for _, t := range s.byID {
		copied := *t
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Category != all[j].Category {
			return all[i].Category < all[j].Category
		}
		if all[i].Position != all[j].Position {
			return all[i].Position < all[j].Position
		}
		return all[i].Question < all[j].Question
	})
	return all, nil
}
