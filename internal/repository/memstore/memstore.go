// Package memstore is an in-memory implementation of the persistence
// gateway. It mirrors the MySQL repositories' uniqueness and foreign-key
// behavior and backs STORAGE=memory as well as the service and handler tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository"
)

type pairKey struct {
	sender, receiver string
}

// Store holds all records behind a single lock.
type Store struct {
	mu sync.RWMutex

	users    map[string]model.User
	emails   map[string]string
	profiles map[string]model.Profile // keyed by user id

	matches    map[string]model.Match
	matchOrder []string
	pairs      map[pairKey]string

	messages []model.Message
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[string]model.User),
		emails:   make(map[string]string),
		profiles: make(map[string]model.Profile),
		matches:  make(map[string]model.Match),
		pairs:    make(map[pairKey]string),
	}
}

// Users returns the user view of the store.
func (s *Store) Users() *Users { return &Users{s: s} }

// Profiles returns the profile view of the store.
func (s *Store) Profiles() *Profiles { return &Profiles{s: s} }

// Matches returns the match view of the store.
func (s *Store) Matches() *Matches { return &Matches{s: s} }

// Messages returns the message view of the store.
func (s *Store) Messages() *Messages { return &Messages{s: s} }

// SetProfileActive toggles search visibility directly. Used to seed fixtures.
func (s *Store) SetProfileActive(userID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		p.IsActive = active
		s.profiles[userID] = p
	}
}

func (s *Store) summary(userID string) model.UserSummary {
	u := s.users[userID]
	sum := model.UserSummary{ID: u.ID, Email: u.Email}
	if p, ok := s.profiles[userID]; ok {
		sum.Profile = &model.ProfileNameOnly{Name: p.Name}
	}
	return sum
}

// Users implements user persistence.
type Users struct{ s *Store }

func (u *Users) CreateWithProfile(_ context.Context, user *model.User, profile *model.Profile) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, taken := u.s.emails[user.Email]; taken {
		return repository.ErrDuplicateEmail
	}
	u.s.users[user.ID] = *user
	u.s.emails[user.Email] = user.ID
	u.s.profiles[profile.UserID] = cloneProfile(*profile)
	return nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	id, ok := u.s.emails[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user := u.s.users[id]
	return &user, nil
}

func (u *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

// Delete removes a user and its profile. Only fixtures use it.
func (u *Users) Delete(id string) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if user, ok := u.s.users[id]; ok {
		delete(u.s.emails, user.Email)
		delete(u.s.users, id)
		delete(u.s.profiles, id)
	}
}

// Profiles implements profile persistence and search.
type Profiles struct{ s *Store }

func (p *Profiles) GetByUserID(_ context.Context, userID string) (*model.Profile, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	prof, ok := p.s.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	prof = cloneProfile(prof)
	return &prof, nil
}

func (p *Profiles) Update(_ context.Context, prof *model.Profile) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	existing, ok := p.s.profiles[prof.UserID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	updated := cloneProfile(*prof)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	p.s.profiles[prof.UserID] = updated
	return nil
}

func (p *Profiles) Search(_ context.Context, f model.SearchFilter, limit int) ([]model.SearchResult, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	var hits []model.Profile
	for _, prof := range p.s.profiles {
		if matchesFilter(prof, f) {
			hits = append(hits, prof)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].UpdatedAt.Equal(hits[j].UpdatedAt) {
			return hits[i].UpdatedAt.After(hits[j].UpdatedAt)
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]model.SearchResult, 0, len(hits))
	for _, h := range hits {
		h = cloneProfile(h)
		results = append(results, model.SearchResult{
			ID: h.ID, Name: h.Name, Age: h.Age, Gender: h.Gender,
			Location: h.Location, About: h.About, UserID: h.UserID,
		})
	}
	return results, nil
}

func matchesFilter(p model.Profile, f model.SearchFilter) bool {
	switch {
	case !p.IsActive:
		return false
	case f.AgeMin != nil && p.Age < *f.AgeMin:
		return false
	case f.AgeMax != nil && p.Age > *f.AgeMax:
		return false
	case f.Gender != "" && p.Gender != f.Gender:
		return false
	case f.Location != "" && p.Location != f.Location:
		return false
	case f.ExcludeUserID != "" && p.UserID == f.ExcludeUserID:
		return false
	}
	return true
}

// Matches implements like/match persistence.
type Matches struct{ s *Store }

func (m *Matches) Create(_ context.Context, match *model.Match) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.users[match.SenderID]; !ok {
		return repository.ErrUserNotFound
	}
	if _, ok := m.s.users[match.ReceiverID]; !ok {
		return repository.ErrUserNotFound
	}
	key := pairKey{match.SenderID, match.ReceiverID}
	if _, dup := m.s.pairs[key]; dup {
		return repository.ErrDuplicateMatch
	}
	m.s.matches[match.ID] = *match
	m.s.pairs[key] = match.ID
	m.s.matchOrder = append(m.s.matchOrder, match.ID)
	return nil
}

func (m *Matches) GetByID(_ context.Context, id string) (*model.Match, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	match, ok := m.s.matches[id]
	if !ok {
		return nil, repository.ErrMatchNotFound
	}
	return &match, nil
}

func (m *Matches) GetByPair(_ context.Context, senderID, receiverID string) (*model.Match, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	id, ok := m.s.pairs[pairKey{senderID, receiverID}]
	if !ok {
		return nil, repository.ErrMatchNotFound
	}
	match := m.s.matches[id]
	return &match, nil
}

func (m *Matches) UpdateStatus(_ context.Context, id string, status model.MatchStatus, at time.Time) (*model.Match, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	match, ok := m.s.matches[id]
	if !ok {
		return nil, repository.ErrMatchNotFound
	}
	match.Status = status
	match.UpdatedAt = at
	m.s.matches[id] = match
	return &match, nil
}

func (m *Matches) CountIncoming(_ context.Context, receiverID string, statuses ...model.MatchStatus) (int, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	count := 0
	for _, match := range m.s.matches {
		if match.ReceiverID == receiverID && slices.Contains(statuses, match.Status) {
			count++
		}
	}
	return count, nil
}

func (m *Matches) ListIncoming(_ context.Context, receiverID string, status model.MatchStatus) ([]model.IncomingMatch, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	items := make([]model.IncomingMatch, 0)
	for i := len(m.s.matchOrder) - 1; i >= 0; i-- {
		match := m.s.matches[m.s.matchOrder[i]]
		if match.ReceiverID != receiverID || match.Status != status {
			continue
		}
		items = append(items, model.IncomingMatch{Match: match, Sender: m.s.summary(match.SenderID)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// Messages implements direct message persistence.
type Messages struct{ s *Store }

func (m *Messages) Create(_ context.Context, msg *model.Message) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.users[msg.SenderID]; !ok {
		return repository.ErrUserNotFound
	}
	if _, ok := m.s.users[msg.ReceiverID]; !ok {
		return repository.ErrUserNotFound
	}
	m.s.messages = append(m.s.messages, *msg)
	return nil
}

func (m *Messages) ListInbox(_ context.Context, receiverID string) ([]model.InboxMessage, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	items := make([]model.InboxMessage, 0)
	for i := len(m.s.messages) - 1; i >= 0; i-- {
		msg := m.s.messages[i]
		if msg.ReceiverID != receiverID {
			continue
		}
		items = append(items, model.InboxMessage{Message: msg, Sender: m.s.summary(msg.SenderID)})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (m *Messages) ListConversation(_ context.Context, userID, partnerID string) ([]model.Message, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	messages := make([]model.Message, 0)
	for _, msg := range m.s.messages {
		if (msg.SenderID == userID && msg.ReceiverID == partnerID) ||
			(msg.SenderID == partnerID && msg.ReceiverID == userID) {
			messages = append(messages, msg)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func cloneProfile(p model.Profile) model.Profile {
	if p.About != nil {
		about := *p.About
		p.About = &about
	}
	return p
}
