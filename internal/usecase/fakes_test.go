package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"skill-swap/internal/domain/message"
	"skill-swap/internal/domain/profile"
	"skill-swap/internal/domain/review"
	"skill-swap/internal/domain/swap"
	"skill-swap/internal/domain/user"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

// memSwapRepo keeps the same conditional-write contract as the Postgres
// repository: UpdateStatus only succeeds while the stored status matches.
type memSwapRepo struct {
	mu       sync.Mutex
	swaps    map[uuid.UUID]swap.Swap
	balances map[uuid.UUID]int

	getErr     error
	updateErr  error
	requestErr error
	// beforeUpdate runs after GetByID has been answered and before the
	// conditional write, letting tests interleave a competing writer.
	beforeUpdate func()
}

func newMemSwapRepo() *memSwapRepo {
	return &memSwapRepo{swaps: map[uuid.UUID]swap.Swap{}, balances: map[uuid.UUID]int{}}
}

func (m *memSwapRepo) put(s swap.Swap) swap.Swap {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Hours == 0 {
		s.Hours = 1
	}
	if s.ServiceName == "" {
		s.ServiceName = "Guitar lessons"
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	m.swaps[s.ID] = s
	return s
}

func (m *memSwapRepo) status(id uuid.UUID) swap.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swaps[id].Status
}

func (m *memSwapRepo) balance(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[id]
}

func (m *memSwapRepo) GetByID(_ context.Context, id uuid.UUID) (swap.Swap, error) {
	if m.getErr != nil {
		return swap.Swap{}, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.swaps[id]
	if !ok {
		return swap.Swap{}, repository.ErrSwapNotFound
	}
	return s, nil
}

func (m *memSwapRepo) RequestSwap(_ context.Context, senderID, receiverID uuid.UUID, serviceName string, hours int) (repository.RequestSwapResult, error) {
	if m.requestErr != nil {
		return repository.RequestSwapResult{}, m.requestErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[receiverID]; !ok {
		return repository.RequestSwapResult{Code: repository.RequestCodeReceiverNotFound, Message: "receiver not found"}, nil
	}
	if m.balances[senderID] < hours {
		return repository.RequestSwapResult{Code: repository.RequestCodeInsufficientBalance, Message: "not enough hours"}, nil
	}
	m.balances[senderID] -= hours
	now := time.Now().UTC()
	s := swap.Swap{
		ID:          uuid.New(),
		SenderID:    senderID,
		ReceiverID:  receiverID,
		ServiceName: serviceName,
		Status:      swap.StatusPending,
		Hours:       hours,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.swaps[s.ID] = s
	return repository.RequestSwapResult{Success: true, Code: repository.RequestCodeOK, SwapID: s.ID}, nil
}

func (m *memSwapRepo) UpdateStatus(_ context.Context, id uuid.UUID, expected, next swap.Status) (swap.Swap, error) {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	if m.updateErr != nil {
		return swap.Swap{}, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.swaps[id]
	if !ok {
		return swap.Swap{}, repository.ErrSwapNotFound
	}
	if s.Status != expected {
		return swap.Swap{}, repository.ErrSwapConflict
	}
	s.Status = next
	s.UpdatedAt = time.Now().UTC()
	m.swaps[id] = s
	switch next {
	case swap.StatusCanceled:
		m.balances[s.SenderID] += s.Hours
	case swap.StatusCompleted:
		m.balances[s.ReceiverID] += s.Hours
	}
	return s, nil
}

func (m *memSwapRepo) ListForUser(_ context.Context, f repository.SwapListFilter) ([]swap.Swap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]swap.Swap, 0)
	for _, s := range m.swaps {
		switch f.Direction {
		case repository.DirectionIncoming:
			if s.ReceiverID != f.UserID {
				continue
			}
		case repository.DirectionOutgoing:
			if s.SenderID != f.UserID {
				continue
			}
		default:
			if !s.IsParticipant(f.UserID) {
				continue
			}
		}
		if f.Status != nil && s.Status != *f.Status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memSwapRepo) CountPendingIncoming(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.swaps {
		if s.ReceiverID == userID && s.Status == swap.StatusPending {
			n++
		}
	}
	return n, nil
}

func (m *memSwapRepo) ListConversations(_ context.Context, userID uuid.UUID) ([]repository.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.Conversation, 0)
	for _, s := range m.swaps {
		if !s.IsParticipant(userID) {
			continue
		}
		if s.Status != swap.StatusAccepted && s.Status != swap.StatusCompleted {
			continue
		}
		other, _ := s.Counterpart(userID)
		out = append(out, repository.Conversation{Swap: s, Counterpart: repository.ProfileSummary{ID: other}})
	}
	return out, nil
}

func (m *memSwapRepo) GetUserStats(_ context.Context, userID uuid.UUID) (profile.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st profile.Stats
	for _, s := range m.swaps {
		if !s.IsParticipant(userID) {
			continue
		}
		switch s.Status {
		case swap.StatusAccepted:
			st.MatchesCount++
		case swap.StatusCompleted:
			st.MatchesCount++
			st.HoursInvested += s.Hours
		}
	}
	return st, nil
}

type memReviewRepo struct {
	mu    sync.Mutex
	items []review.Review
	// skipFind makes FindBySwapAndReviewer always miss, so the insert path
	// has to detect the duplicate on its own.
	skipFind bool
}

func (m *memReviewRepo) Insert(_ context.Context, rv review.Review) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.SwapID == rv.SwapID && it.ReviewerID == rv.ReviewerID {
			return review.Review{}, repository.ErrReviewExists
		}
	}
	rv.CreatedAt = time.Now().UTC()
	m.items = append(m.items, rv)
	return rv, nil
}

func (m *memReviewRepo) FindBySwapAndReviewer(_ context.Context, swapID, reviewerID uuid.UUID) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.skipFind {
		for _, it := range m.items {
			if it.SwapID == swapID && it.ReviewerID == reviewerID {
				return it, nil
			}
		}
	}
	return review.Review{}, repository.ErrReviewNotFound
}

func (m *memReviewRepo) ListReceived(_ context.Context, userID uuid.UUID) ([]review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]review.Review, 0)
	for _, it := range m.items {
		if it.ReviewerID != userID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memMessageRepo struct {
	mu    sync.Mutex
	swaps *memSwapRepo
	items []message.Message
}

func (m *memMessageRepo) Append(ctx context.Context, swapID, senderID uuid.UUID, content string) (message.Message, error) {
	s, err := m.swaps.GetByID(ctx, swapID)
	if err != nil {
		return message.Message{}, err
	}
	if !s.IsParticipant(senderID) {
		return message.Message{}, repository.ErrNotParticipant
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := message.Message{ID: uuid.New(), SwapID: swapID, SenderID: senderID, Content: content, CreatedAt: time.Now().UTC()}
	m.items = append(m.items, msg)
	return msg, nil
}

func (m *memMessageRepo) ListBySwap(_ context.Context, swapID uuid.UUID, limit int, _ *time.Time) ([]message.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]message.Message, 0)
	for _, it := range m.items {
		if it.SwapID == swapID {
			out = append(out, it)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type memProfileRepo struct {
	mu         sync.Mutex
	profiles   map[uuid.UUID]profile.Profile
	candidates []profile.Profile
	lastUpdate repository.ProfileUpdate
	lastSkills map[profile.SkillType][]string
}

func newMemProfileRepo(ps ...profile.Profile) *memProfileRepo {
	m := &memProfileRepo{profiles: map[uuid.UUID]profile.Profile{}}
	for _, p := range ps {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *memProfileRepo) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return profile.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (m *memProfileRepo) Update(_ context.Context, id uuid.UUID, upd repository.ProfileUpdate, skills map[profile.SkillType][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return repository.ErrProfileNotFound
	}
	m.lastUpdate = upd
	m.lastSkills = skills
	if upd.Title != nil {
		p.Title = upd.Title
	}
	if upd.AvatarURL != nil {
		p.AvatarURL = upd.AvatarURL
	}
	for t, names := range skills {
		kept := make([]profile.Skill, 0, len(p.Skills))
		for _, s := range p.Skills {
			if s.Type != t {
				kept = append(kept, s)
			}
		}
		for _, n := range names {
			kept = append(kept, profile.Skill{ID: uuid.New(), UserID: id, Name: n, Type: t})
		}
		p.Skills = kept
	}
	m.profiles[id] = p
	return nil
}

func (m *memProfileRepo) ListFeedCandidates(_ context.Context, _ uuid.UUID, limit int) ([]profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.candidates) > limit {
		return m.candidates[:limit], nil
	}
	return m.candidates, nil
}

type memCache struct {
	mu      sync.Mutex
	items   map[string]profile.Stats
	deleted []string
	gets    int
}

func newMemCache() *memCache {
	return &memCache{items: map[string]profile.Stats{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	st, ok := c.items[key]
	if !ok {
		return false, nil
	}
	*(out.(*profile.Stats)) = st
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value.(profile.Stats)
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) snapshot() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

type memUserRepo struct {
	mu        sync.Mutex
	users     map[uuid.UUID]user.User
	usernames map[string]uuid.UUID
	balances  map[uuid.UUID]int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uuid.UUID]user.User{}, usernames: map[string]uuid.UUID{}, balances: map[uuid.UUID]int{}}
}

func (m *memUserRepo) Register(_ context.Context, reg user.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, reg.User.Email) {
			return user.ErrEmailTaken
		}
	}
	if _, ok := m.usernames[reg.Username]; ok {
		return user.ErrUsernameTaken
	}
	m.users[reg.User.ID] = reg.User
	m.usernames[reg.Username] = reg.User.ID
	m.balances[reg.User.ID] = reg.StartingTimeBalance
	return nil
}

func (m *memUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(context.Background(), email)
	return err == nil, nil
}
