package store

import (
	"encoding/json"
	"fmt"

	"github.com/eslsoft/lingolive/internal/entity"
)

// StorageKey names the persisted state blob.
const StorageKey = "lingo-live-storage"

// snapshotVersion is bumped when the persisted shape changes incompatibly.
const snapshotVersion = 0

// Snapshot is the persisted part of a store. The transcript is not included.
type Snapshot struct {
	TargetLanguage   *entity.Language    `json:"targetLanguage"`
	Progress         entity.UserProgress `json:"progress"`
	Vocabulary       []entity.Word       `json:"vocabulary"`
	CurrentStoryMode *string             `json:"currentStoryMode"`
}

type envelope struct {
	State   Snapshot `json:"state"`
	Version int      `json:"version"`
}

// Snapshot captures the persisted state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Progress:   s.progress,
		Vocabulary: make([]entity.Word, len(s.vocabulary)),
	}
	if s.targetLanguage != nil {
		lang := *s.targetLanguage
		snap.TargetLanguage = &lang
	}
	for i, w := range s.vocabulary {
		snap.Vocabulary[i] = w.Clone()
	}
	if s.storyMode != "" {
		mode := s.storyMode
		snap.CurrentStoryMode = &mode
	}
	return snap
}

// Restore replaces the persisted state with snap. The transcript is left
// as is. Word counts are recomputed from the vocabulary, duplicate ids
// keep their first occurrence and negative counters fall back to their
// initial values.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	limit := s.progress.MessagesLimit
	s.targetLanguage = nil
	if snap.TargetLanguage != nil {
		lang := *snap.TargetLanguage
		s.targetLanguage = &lang
	}
	s.vocabulary = nil
	s.index = make(map[string]int, len(snap.Vocabulary))
	for _, w := range snap.Vocabulary {
		if _, dup := s.index[w.ID]; dup {
			continue
		}
		w.Mastery = entity.ClampMastery(w.Mastery)
		s.appendWordLocked(w.Clone())
	}
	s.storyMode = ""
	if snap.CurrentStoryMode != nil {
		s.storyMode = *snap.CurrentStoryMode
	}
	s.progress = snap.Progress
	if s.progress.MessagesLimit <= 0 {
		s.progress.MessagesLimit = limit
	}
	s.progress.MessagesUsed = max(s.progress.MessagesUsed, 0)
	s.progress.XP = max(s.progress.XP, 0)
	s.progress.TotalXP = max(s.progress.TotalXP, 0)
	if s.progress.Streak < 0 {
		s.progress.Streak = entity.InitialStreak
	}
	s.progress.Settle()
	s.progress.Recount(s.vocabulary)
	ev := Event{Kind: EventRestored, Progress: s.progress}
	s.mu.Unlock()
	s.emit(ev)
}

// Encode serializes a snapshot into the persisted blob format.
func Encode(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(envelope{State: snap, Version: snapshotVersion})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a persisted blob.
func Decode(data []byte) (Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if env.Version > snapshotVersion {
		return Snapshot{}, fmt.Errorf("decode snapshot: unsupported version %d", env.Version)
	}
	return env.State, nil
}
