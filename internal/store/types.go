package store

import "time"

// Role identifies who produced a conversational turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Mood is a coarse estimate of the user's emotional state, updated by
// keyword heuristics and fed back into the model prompt.
type Mood string

const (
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodHappy   Mood = "happy"
)

// Turn is a single user or assistant message. Immutable once recorded.
type Turn struct {
	Role    Role
	Content string
	At      time.Time
}
