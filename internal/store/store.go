package store

import (
	"sync"
	"time"

	"github.com/eslsoft/lingolive/internal/entity"
)

// Store holds one learner's language choice, vocabulary, transcript and
// progress counters. All methods are safe for concurrent use.
type Store struct {
	clock func() time.Time

	mu             sync.RWMutex
	targetLanguage *entity.Language
	progress       entity.UserProgress
	vocabulary     []entity.Word
	index          map[string]int
	messages       []entity.Message
	storyMode      string

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for practice timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMessagesLimit sets the message quota for non-premium accounts.
func WithMessagesLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.progress.MessagesLimit = limit
		}
	}
}

// New constructs an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:     time.Now,
		progress:  entity.NewUserProgress(entity.DefaultMessagesLimit),
		index:     make(map[string]int),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.listenersMu.Unlock()
	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()
	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}

// TargetLanguage returns the selected language, if any.
func (s *Store) TargetLanguage() (entity.Language, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.targetLanguage == nil {
		return entity.Language{}, false
	}
	return *s.targetLanguage, true
}

// Progress returns a copy of the progress counters.
func (s *Store) Progress() entity.UserProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// Vocabulary returns the words in insertion order.
func (s *Store) Vocabulary() []entity.Word {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Word, len(s.vocabulary))
	for i, w := range s.vocabulary {
		out[i] = w.Clone()
	}
	return out
}

// Word looks up a vocabulary entry by id.
func (s *Store) Word(id string) (entity.Word, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return entity.Word{}, false
	}
	return s.vocabulary[i].Clone(), true
}

// Messages returns the transcript in call order.
func (s *Store) Messages() []entity.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// StoryMode returns the active scenario id, if any.
func (s *Store) StoryMode() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storyMode, s.storyMode != ""
}

// SetTargetLanguage selects a language. The first selection on an empty
// vocabulary seeds the bundled sample for that language, if one exists.
func (s *Store) SetTargetLanguage(lang entity.Language) {
	s.mu.Lock()
	l := lang
	s.targetLanguage = &l
	if len(s.vocabulary) == 0 {
		for _, w := range entity.SampleVocabulary(lang.Code) {
			s.appendWordLocked(w)
		}
		s.progress.Recount(s.vocabulary)
	}
	ev := Event{Kind: EventLanguageChanged, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
}

// AddWord appends a word unless one with the same id exists. It reports
// whether the word was inserted. Counts are derived from the collection, so a
// word arriving with mastery at or above the known threshold counts as known.
func (s *Store) AddWord(w entity.Word) bool {
	s.mu.Lock()
	if _, exists := s.index[w.ID]; exists {
		s.mu.Unlock()
		return false
	}
	s.appendWordLocked(w.Clone())
	s.progress.Recount(s.vocabulary)
	ev := Event{Kind: EventWordAdded, Progress: s.progress, WordID: w.ID}
	s.mu.Unlock()
	s.emit(ev)
	return true
}

func (s *Store) appendWordLocked(w entity.Word) {
	s.index[w.ID] = len(s.vocabulary)
	s.vocabulary = append(s.vocabulary, w)
}

// UpdateWordMastery applies one recall outcome to a word. Unknown ids leave
// the store untouched and report found=false.
func (s *Store) UpdateWordMastery(id string, correct bool) (entity.Word, bool) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return entity.Word{}, false
	}
	s.vocabulary[i].Practice(correct, s.clock())
	s.progress.Recount(s.vocabulary)
	updated := s.vocabulary[i].Clone()
	ev := Event{Kind: EventMasteryUpdated, Progress: s.progress, WordID: id}
	s.mu.Unlock()
	s.emit(ev)
	return updated, true
}

// AddMessage appends to the transcript.
func (s *Store) AddMessage(m entity.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, m.Clone())
	ev := Event{Kind: EventMessageAdded, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
}

// ClearMessages empties the transcript.
func (s *Store) ClearMessages() {
	s.mu.Lock()
	s.messages = nil
	ev := Event{Kind: EventMessagesCleared, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
}

// SetStoryMode records the active scenario. An empty id clears it.
func (s *Store) SetStoryMode(id string) {
	s.mu.Lock()
	s.storyMode = id
	ev := Event{Kind: EventStoryModeChanged, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
}

// UseMessage consumes one unit of message quota. Premium accounts are not
// metered. It returns false, without mutating, when the quota is exhausted.
func (s *Store) UseMessage() bool {
	s.mu.Lock()
	if s.progress.IsPremium {
		s.mu.Unlock()
		return true
	}
	if s.progress.MessagesUsed >= s.progress.MessagesLimit {
		s.mu.Unlock()
		return false
	}
	s.progress.MessagesUsed++
	ev := Event{Kind: EventMessageUsed, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
	return true
}

// UpgradeToPremium marks the account as premium.
func (s *Store) UpgradeToPremium() {
	s.mu.Lock()
	if s.progress.IsPremium {
		s.mu.Unlock()
		return
	}
	s.progress.IsPremium = true
	ev := Event{Kind: EventPremiumUpgraded, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
}

// AddXP credits experience and resolves level-ups. It returns the number
// of levels gained.
func (s *Store) AddXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	s.mu.Lock()
	gained := s.progress.AddXP(amount)
	events := []Event{{Kind: EventXPAdded, Progress: s.progress, Amount: amount}}
	if gained > 0 {
		events = append(events, Event{Kind: EventLevelUp, Progress: s.progress, Amount: s.progress.CurrentLevel})
	}
	s.mu.Unlock()
	s.emit(events...)
	return gained
}

// ProgressOverride carries values reconciled from durable storage. Nil
// fields are left unchanged.
type ProgressOverride struct {
	XP            *int
	Level         *int
	XPToNextLevel *int
	TotalXP       *int
	Streak        *int
	MessagesUsed  *int
	IsPremium     *bool
}

// ApplyOverride replaces progress counters wholesale with reconciled values.
// Unlike UpgradeToPremium it can also clear the premium flag.
func (s *Store) ApplyOverride(o ProgressOverride) {
	s.mu.Lock()
	p := &s.progress
	if o.XP != nil && *o.XP >= 0 {
		p.XP = *o.XP
	}
	if o.Level != nil && *o.Level >= 1 {
		p.CurrentLevel = *o.Level
	}
	if o.XPToNextLevel != nil && *o.XPToNextLevel > 0 {
		p.XPToNextLevel = *o.XPToNextLevel
	}
	if o.TotalXP != nil && *o.TotalXP >= 0 {
		p.TotalXP = *o.TotalXP
	}
	if o.Streak != nil && *o.Streak >= 0 {
		p.Streak = *o.Streak
	}
	if o.MessagesUsed != nil && *o.MessagesUsed >= 0 {
		p.MessagesUsed = *o.MessagesUsed
	}
	if o.IsPremium != nil {
		p.IsPremium = *o.IsPremium
	}
	p.Settle()
	ev := Event{Kind: EventProgressSynced, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
}
