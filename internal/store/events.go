package store

import "github.com/eslsoft/lingolive/internal/entity"

// EventKind names a store mutation.
type EventKind string

const (
	EventLanguageChanged  EventKind = "language_changed"
	EventWordAdded        EventKind = "word_added"
	EventMasteryUpdated   EventKind = "mastery_updated"
	EventMessageAdded     EventKind = "message_added"
	EventMessagesCleared  EventKind = "messages_cleared"
	EventStoryModeChanged EventKind = "story_mode_changed"
	EventMessageUsed      EventKind = "message_used"
	EventPremiumUpgraded  EventKind = "premium_upgraded"
	EventXPAdded          EventKind = "xp_added"
	EventLevelUp          EventKind = "level_up"
	EventProgressSynced   EventKind = "progress_synced"
	EventRestored         EventKind = "progress_restored"
)

// Event is delivered to listeners after a mutation has been applied.
type Event struct {
	Kind     EventKind
	Progress entity.UserProgress
	// WordID is set for word events.
	WordID string
	// Amount carries the XP delta for EventXPAdded and the new level for
	// EventLevelUp.
	Amount int
}

// Persistent reports whether the event changes state that is saved in a
// snapshot. Transcript events are not.
func (e Event) Persistent() bool {
	switch e.Kind {
	case EventMessageAdded, EventMessagesCleared:
		return false
	default:
		return true
	}
}

// Listener receives store events. Listeners run synchronously on the
// mutating goroutine after the store lock is released, so they may read
// the store but should not block.
type Listener func(Event)
