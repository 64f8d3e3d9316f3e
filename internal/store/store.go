package store

import (
	"strings"
	"sync"
	"time"
)

// DefaultCapacity bounds how many turns are kept per user.
const DefaultCapacity = 12

// preferenceCutset is trimmed from both ends of a declared preference.
const preferenceCutset = " \t\r\n:,.¡!¿?\"'"

// userState is the per-user slice of the store. History is a fixed-size
// ring: once count reaches capacity the oldest entry is overwritten.
type userState struct {
	mu          sync.Mutex
	createdAt   time.Time
	preferences []string
	mood        Mood
	history     []Turn
	start       int
	count       int
}

// Store holds all in-process conversational state, keyed by a stable
// transport user id. State is ephemeral: it lives exactly as long as the
// process and is never read back from the archive.
//
// The outer lock only guards the user map; every mutation of one user's
// state serializes on that user's own mutex, so different users never
// contend with each other.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*userState
	capacity int
}

func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		users:    make(map[string]*userState),
		capacity: capacity,
	}
}

// user returns the state for id, creating it lazily on first access.
func (s *Store) user(id string) *userState {
	s.mu.RLock()
	u, ok := s.users[id]
	s.mu.RUnlock()
	if ok {
		return u
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u
	}
	u = &userState{
		createdAt: time.Now().UTC(),
		mood:      MoodNeutral,
		history:   make([]Turn, s.capacity),
	}
	s.users[id] = u
	return u
}

// RecordTurn appends a turn to the user's history, evicting the oldest
// entry once the ring is full. It cannot fail.
func (s *Store) RecordTurn(userID string, role Role, content string) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := (u.start + u.count) % len(u.history)
	u.history[idx] = Turn{Role: role, Content: content, At: time.Now().UTC()}
	if u.count == len(u.history) {
		u.start = (u.start + 1) % len(u.history)
	} else {
		u.count++
	}
}

// RecordPreference normalizes text (whitespace and surrounding punctuation
// trimmed) and appends it if non-empty and not already stored. It returns
// the normalized value, empty when nothing usable was left after trimming.
// Recording the same preference twice is a no-op.
func (s *Store) RecordPreference(userID, text string) string {
	normalized := strings.Trim(strings.TrimSpace(text), preferenceCutset)
	if normalized == "" {
		return ""
	}

	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, p := range u.preferences {
		if p == normalized {
			return normalized
		}
	}
	u.preferences = append(u.preferences, normalized)
	return normalized
}

// Preferences returns the user's stored preferences in insertion order.
func (s *Store) Preferences(userID string) []string {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.preferences))
	copy(out, u.preferences)
	return out
}

// History returns the user's turns in chronological order, oldest first.
func (s *Store) History(userID string) []Turn {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Turn, 0, u.count)
	for i := 0; i < u.count; i++ {
		out = append(out, u.history[(u.start+i)%len(u.history)])
	}
	return out
}

// Context renders the preferences and recent history as prompt text.
func (s *Store) Context(userID string) string {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	likes := "—"
	if len(u.preferences) > 0 {
		likes = strings.Join(u.preferences, ", ")
	}

	var b strings.Builder
	b.WriteString("Gustos del usuario: ")
	b.WriteString(likes)
	b.WriteString("\nHistorial reciente:\n")
	for i := 0; i < u.count; i++ {
		t := u.history[(u.start+i)%len(u.history)]
		who := "Usuario"
		if t.Role == RoleAssistant {
			who = "Akira"
		}
		b.WriteString(who)
		b.WriteString(": ")
		b.WriteString(t.Content)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// SetMood overwrites the user's estimated mood. Unknown values are ignored
// so the field always holds one of the enumerated moods.
func (s *Store) SetMood(userID string, mood Mood) {
	switch mood {
	case MoodNeutral, MoodSad, MoodHappy:
	default:
		return
	}
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.mood = mood
}

// Mood returns the user's current estimated mood.
func (s *Store) Mood(userID string) Mood {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.mood
}

// UserCount reports how many users have state in this process.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
