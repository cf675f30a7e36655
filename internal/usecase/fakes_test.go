package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/repository"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeStateRepo struct {
	mu    sync.RWMutex
	data  map[string][]byte
	saves int
	err   error
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{data: make(map[string][]byte)}
}

func (r *fakeStateRepo) Load(ctx context.Context, userID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]byte(nil), r.data[userID]...), nil
}

func (r *fakeStateRepo) Save(ctx context.Context, userID string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves++
	r.data[userID] = append([]byte(nil), data...)
	return nil
}

func (r *fakeStateRepo) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, userID)
	return nil
}

func (r *fakeStateRepo) saveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

type fakeProfileRepo struct {
	mu    sync.RWMutex
	items map[string]entity.Profile
	saves int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{items: make(map[string]entity.Profile)}
}

func (r *fakeProfileRepo) Get(ctx context.Context, userID string) (*entity.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[userID]
	if !ok {
		return nil, entity.ErrProfileNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) Save(ctx context.Context, profile *entity.Profile) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := *profile
	if existing, ok := r.items[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = fixedNow
	}
	p.UpdatedAt = fixedNow
	r.items[p.ID] = p
	r.saves++
	return &p, nil
}

func (r *fakeProfileRepo) TopByXP(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profiles := make([]entity.Profile, 0, len(r.items))
	for _, p := range r.items {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].TotalXP != profiles[j].TotalXP {
			return profiles[i].TotalXP > profiles[j].TotalXP
		}
		return profiles[i].ID < profiles[j].ID
	})
	if len(profiles) > limit {
		profiles = profiles[:limit]
	}
	out := make([]entity.LeaderboardEntry, len(profiles))
	for i, p := range profiles {
		out[i] = entity.LeaderboardEntry{
			Rank:     i + 1,
			UserID:   p.ID,
			Username: p.DisplayName(),
			XP:       p.TotalXP,
			Level:    p.Level,
			Streak:   p.Streak,
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) put(p entity.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
}

func (r *fakeProfileRepo) get(id string) (entity.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	return p, ok
}

type fakeGuildRepo struct {
	mu       sync.RWMutex
	guilds   map[string]entity.Guild
	members  map[string]entity.GuildMember // keyed by user id
	profiles *fakeProfileRepo
	refresh  int
	// refreshErr, when set, fails RefreshTotals.
	refreshErr error
}

func newFakeGuildRepo(profiles *fakeProfileRepo) *fakeGuildRepo {
	return &fakeGuildRepo{
		guilds:   make(map[string]entity.Guild),
		members:  make(map[string]entity.GuildMember),
		profiles: profiles,
	}
}

func (r *fakeGuildRepo) Create(ctx context.Context, guild *entity.Guild, leader *entity.GuildMember) (*entity.Guild, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guilds {
		if g.Name == guild.Name {
			return nil, entity.ErrDuplicateGuildName
		}
	}
	if _, ok := r.members[leader.UserID]; ok {
		return nil, entity.ErrAlreadyInGuild
	}
	g := *guild
	g.LeaderID = leader.UserID
	g.MemberCount = 1
	g.TotalXP = leader.XP
	r.guilds[g.ID] = g
	m := *leader
	m.GuildID = g.ID
	m.Role = entity.GuildRoleLeader
	r.members[m.UserID] = m
	return &g, nil
}

func (r *fakeGuildRepo) Get(ctx context.Context, id string) (*entity.Guild, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.guilds[id]
	if !ok {
		return nil, entity.ErrGuildNotFound
	}
	return &g, nil
}

func (r *fakeGuildRepo) ListTop(ctx context.Context, limit int) ([]entity.Guild, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Guild, 0, len(r.guilds))
	for _, g := range r.guilds {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalXP != out[j].TotalXP {
			return out[i].TotalXP > out[j].TotalXP
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeGuildRepo) MembershipOf(ctx context.Context, userID string) (*entity.GuildMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[userID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *fakeGuildRepo) Members(ctx context.Context, guildID string) ([]entity.GuildMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.GuildMember
	for _, m := range r.members {
		if m.GuildID == guildID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeGuildRepo) AddMember(ctx context.Context, member *entity.GuildMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[member.UserID]; ok {
		return entity.ErrAlreadyInGuild
	}
	r.members[member.UserID] = *member
	return nil
}

func (r *fakeGuildRepo) RemoveMember(ctx context.Context, guildID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[userID]
	if !ok || m.GuildID != guildID {
		return entity.ErrNotInGuild
	}
	delete(r.members, userID)
	return nil
}

func (r *fakeGuildRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for uid, m := range r.members {
		if m.GuildID == id {
			delete(r.members, uid)
		}
	}
	delete(r.guilds, id)
	return nil
}

func (r *fakeGuildRepo) RefreshTotals(ctx context.Context, guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refreshErr != nil {
		return r.refreshErr
	}
	g, ok := r.guilds[guildID]
	if !ok {
		return entity.ErrGuildNotFound
	}
	g.MemberCount, g.TotalXP = 0, 0
	for _, m := range r.members {
		if m.GuildID != guildID {
			continue
		}
		g.MemberCount++
		if r.profiles != nil {
			if p, ok := r.profiles.get(m.UserID); ok {
				g.TotalXP += p.TotalXP
			}
		}
	}
	r.guilds[guildID] = g
	r.refresh++
	return nil
}

type fakeRewardRepo struct {
	mu   sync.RWMutex
	rows map[string]entity.LoginReward // keyed by user id + date
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{rows: make(map[string]entity.LoginReward)}
}

func (r *fakeRewardRepo) Recent(ctx context.Context, userID string, limit int) ([]entity.LoginReward, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.LoginReward
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoginDate > out[j].LoginDate })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRewardRepo) Upsert(ctx context.Context, reward *entity.LoginReward) (*entity.LoginReward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := *reward
	key := row.UserID + "|" + row.LoginDate
	if existing, ok := r.rows[key]; ok {
		row.ID = existing.ID
	}
	r.rows[key] = row
	return &row, nil
}

func (r *fakeRewardRepo) put(row entity.LoginReward) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[row.UserID+"|"+row.LoginDate] = row
}

type fakeVocabularyRepo struct {
	mu    sync.RWMutex
	seq   int
	items map[string]entity.VocabularyEntry
	fail  error
}

func newFakeVocabularyRepo() *fakeVocabularyRepo {
	return &fakeVocabularyRepo{items: make(map[string]entity.VocabularyEntry)}
}

func (r *fakeVocabularyRepo) Upsert(ctx context.Context, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	if existing, ok := r.lookupLocked(entry.UserID, entry.Word); ok {
		existing.Translation = entry.Translation
		existing.Pronunciation = entry.Pronunciation
		existing.PartOfSpeech = entry.PartOfSpeech
		existing.Language = entry.Language
		existing.Example = entry.Example
		r.items[existing.ID] = existing
		return &existing, nil
	}
	r.seq++
	e := *entry
	if e.ID == "" {
		e.ID = fmt.Sprintf("v%03d", r.seq)
	}
	e.CreatedAt = fixedNow
	r.items[e.ID] = e
	return &e, nil
}

func (r *fakeVocabularyRepo) UpdatePractice(ctx context.Context, entry *entity.VocabularyEntry) (*entity.VocabularyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.items[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return nil, entity.ErrWordNotFound
	}
	existing.Mastery = entry.Mastery
	existing.TimesSeen = entry.TimesSeen
	existing.TimesCorrect = entry.TimesCorrect
	existing.LastPracticedAt = entry.LastPracticedAt
	r.items[existing.ID] = existing
	return &existing, nil
}

func (r *fakeVocabularyRepo) GetByID(ctx context.Context, userID, id string) (*entity.VocabularyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.items[id]
	if !ok || e.UserID != userID {
		return nil, entity.ErrWordNotFound
	}
	return &e, nil
}

func (r *fakeVocabularyRepo) FindByWord(ctx context.Context, userID, word string) (*entity.VocabularyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.lookupLocked(userID, word); ok {
		return &e, nil
	}
	return nil, nil
}

func (r *fakeVocabularyRepo) List(ctx context.Context, query *repository.ListVocabularyQuery) ([]entity.VocabularyEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if query.Filter != "" {
		return nil, 0, errors.New("fake repository does not filter")
	}
	var out []entity.VocabularyEntry
	for _, e := range r.items {
		if e.UserID == query.UserID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, int64(len(out)), nil
}

func (r *fakeVocabularyRepo) Stats(ctx context.Context, userID string) (entity.VocabularyStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stats entity.VocabularyStats
	for _, e := range r.items {
		if e.UserID != userID {
			continue
		}
		stats.Total++
		if e.Mastery >= entity.MasteryKnown {
			stats.Mastered++
		}
	}
	stats.Learning = stats.Total - stats.Mastered
	return stats, nil
}

func (r *fakeVocabularyRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || e.UserID != userID {
		return entity.ErrWordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeVocabularyRepo) lookupLocked(userID, word string) (entity.VocabularyEntry, bool) {
	for _, e := range r.items {
		if e.UserID == userID && e.Word == word {
			return e, true
		}
	}
	return entity.VocabularyEntry{}, false
}

type fakeTutor struct {
	mu       sync.Mutex
	reply    *entity.TutorReply
	err      error
	requests []entity.TutorRequest
}

func (t *fakeTutor) Reply(ctx context.Context, req entity.TutorRequest) (*entity.TutorReply, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
	if t.err != nil {
		return nil, t.err
	}
	reply := *t.reply
	reply.Words = append([]entity.WordInContext(nil), t.reply.Words...)
	return &reply, nil
}

type fakeGateway struct {
	mu         sync.Mutex
	status     entity.SubscriptionStatus
	successURL string
	cancelURL  string
}

func (g *fakeGateway) CreateCheckout(ctx context.Context, account entity.Account, successURL, cancelURL string) (*entity.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.successURL, g.cancelURL = successURL, cancelURL
	return &entity.CheckoutSession{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

func (g *fakeGateway) SubscriptionStatus(ctx context.Context, account entity.Account) (*entity.SubscriptionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	status := g.status
	return &status, nil
}

// newTestSessions wires a registry over in-memory repositories with the
// fixed clock.
func newTestSessions(states *fakeStateRepo, profiles *fakeProfileRepo, guilds repository.GuildRepository) SessionRegistry {
	ps := NewProfileSync(profiles, guilds, nil)
	ps.(*profileSync).clock = fixedClock
	return NewSessionRegistry(states, profiles, ps, nil, SessionOptions{Clock: fixedClock})
}
