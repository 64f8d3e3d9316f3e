package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	got := Split("hola mundo", 1400)
	if len(got) != 1 || got[0] != "hola mundo" {
		t.Fatalf("Split() = %v, want single unchanged chunk", got)
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	text := "Primera frase corta. Segunda frase bastante mas larga que sigue."
	got := Split(text, 30)
	if len(got) < 2 {
		t.Fatalf("Split() = %v, want at least two chunks", got)
	}
	if got[0] != "Primera frase corta." {
		t.Fatalf("first chunk = %q, want cut after the sentence period", got[0])
	}
}

func TestSplitWithoutBoundaryTerminates(t *testing.T) {
	text := strings.Repeat("a", 10000)
	got := Split(text, 1400)
	if len(got) != 8 {
		t.Fatalf("chunks = %d, want 8 (7 full + remainder)", len(got))
	}
	for i := 0; i < 7; i++ {
		if n := utf8.RuneCountInString(got[i]); n != 1400 {
			t.Fatalf("chunk %d length = %d, want 1400", i, n)
		}
	}
	if n := utf8.RuneCountInString(got[7]); n != 10000-7*1400 {
		t.Fatalf("remainder length = %d, want %d", n, 10000-7*1400)
	}
}

func TestSplitRoundTripLosesNoText(t *testing.T) {
	text := "Hola. Esto es una prueba de troceo. Cada frase debería sobrevivir entera. " +
		strings.Repeat("Palabras y más palabras para alargar el texto. ", 40)
	got := Split(text, 120)

	joined := strings.Join(got, " ")
	if normalize(joined) != normalize(text) {
		t.Fatalf("rejoined text differs from input:\n got %q\nwant %q", normalize(joined), normalize(text))
	}
	for i, part := range got {
		if n := utf8.RuneCountInString(part); n > 120 {
			t.Fatalf("chunk %d length = %d, want <= 120", i, n)
		}
	}
}

func TestSplitMultibyteRunesNeverBroken(t *testing.T) {
	text := strings.Repeat("ñá", 50)
	for _, part := range Split(text, 7) {
		if !utf8.ValidString(part) {
			t.Fatalf("chunk %q is not valid UTF-8", part)
		}
	}
}

func TestSplitTinyLimitMakesProgress(t *testing.T) {
	got := Split("abcdef", 1)
	if len(got) != 6 {
		t.Fatalf("chunks = %d, want 6", len(got))
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
