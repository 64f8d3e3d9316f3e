package store

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestRecordTurnEvictsOldest(t *testing.T) {
	s := New(3)
	for i := 1; i <= 5; i++ {
		s.RecordTurn("u1", RoleUser, fmt.Sprintf("msg-%d", i))
	}

	got := s.History("u1")
	if len(got) != 3 {
		t.Fatalf("history length = %d, want 3", len(got))
	}
	for i, want := range []string{"msg-3", "msg-4", "msg-5"} {
		if got[i].Content != want {
			t.Fatalf("history[%d] = %q, want %q", i, got[i].Content, want)
		}
	}
}

func TestRecordTurnExactCapacity(t *testing.T) {
	s := New(2)
	s.RecordTurn("u1", RoleUser, "a")
	s.RecordTurn("u1", RoleAssistant, "b")

	got := s.History("u1")
	if len(got) != 2 {
		t.Fatalf("history length = %d, want 2", len(got))
	}
	if got[0].Content != "a" || got[1].Content != "b" {
		t.Fatalf("unexpected history order: %+v", got)
	}
}

func TestRecordPreferenceTrimsAndDeduplicates(t *testing.T) {
	s := New(0)

	if got := s.RecordPreference("u1", "  el ajedrez!¿ "); got != "el ajedrez" {
		t.Fatalf("RecordPreference() = %q, want %q", got, "el ajedrez")
	}
	// Same text again must leave the set unchanged.
	if got := s.RecordPreference("u1", "el ajedrez"); got != "el ajedrez" {
		t.Fatalf("RecordPreference() repeat = %q, want %q", got, "el ajedrez")
	}
	if got := s.Preferences("u1"); len(got) != 1 {
		t.Fatalf("preferences = %v, want single entry", got)
	}

	if got := s.RecordPreference("u1", " ¡!¿? "); got != "" {
		t.Fatalf("RecordPreference() punctuation-only = %q, want empty", got)
	}
	if got := s.Preferences("u1"); len(got) != 1 {
		t.Fatalf("preferences after empty input = %v, want single entry", got)
	}
}

func TestContextRendersPlaceholderWithoutPreferences(t *testing.T) {
	s := New(0)
	ctx := s.Context("u1")
	if want := "Gustos del usuario: —"; !strings.Contains(ctx, want) {
		t.Fatalf("Context() = %q, want it to contain %q", ctx, want)
	}
}

func TestContextIncludesPreferencesAndHistory(t *testing.T) {
	s := New(0)
	s.RecordPreference("u1", "el ajedrez")
	s.RecordTurn("u1", RoleUser, "hola akira")
	s.RecordTurn("u1", RoleAssistant, "hola humano")

	ctx := s.Context("u1")
	for _, want := range []string{
		"Gustos del usuario: el ajedrez",
		"Usuario: hola akira",
		"Akira: hola humano",
	} {
		if !strings.Contains(ctx, want) {
			t.Fatalf("Context() = %q, missing %q", ctx, want)
		}
	}
}

func TestMoodDefaultsToNeutralAndRejectsUnknown(t *testing.T) {
	s := New(0)
	if got := s.Mood("u1"); got != MoodNeutral {
		t.Fatalf("Mood() = %q, want %q", got, MoodNeutral)
	}

	s.SetMood("u1", MoodSad)
	if got := s.Mood("u1"); got != MoodSad {
		t.Fatalf("Mood() = %q, want %q", got, MoodSad)
	}

	s.SetMood("u1", Mood("furious"))
	if got := s.Mood("u1"); got != MoodSad {
		t.Fatalf("Mood() after unknown value = %q, want %q", got, MoodSad)
	}
}

func TestConcurrentTurnsStayBounded(t *testing.T) {
	s := New(4)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.RecordTurn("u1", RoleUser, fmt.Sprintf("m%d", n))
		}(i)
	}
	wg.Wait()

	if got := s.History("u1"); len(got) != 4 {
		t.Fatalf("history length = %d, want 4", len(got))
	}
	if got := s.UserCount(); got != 1 {
		t.Fatalf("UserCount() = %d, want 1", got)
	}
}
