// Package chunk splits reply text into transport-sized messages. WhatsApp
// via Twilio rejects bodies over ~1600 characters, so Akira sends several
// shorter messages, cutting at sentence boundaries when possible.
package chunk

import "strings"

// DefaultMaxChars is a safe per-message budget for WhatsApp.
const DefaultMaxChars = 1400

// Split cuts text into ordered chunks of at most maxChars runes. Within
// each window it prefers the last ". " boundary so sentences stay whole;
// without one it cuts at the raw limit, which guarantees forward progress.
// Chunk edges are whitespace-trimmed and an empty remainder is dropped.
func Split(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}

	runes := []rune(text)
	var parts []string
	for len(runes) > maxChars {
		window := string(runes[:maxChars])
		cutLen := maxChars
		if i := strings.LastIndex(window, ". "); i >= 0 {
			// The period is ASCII, so the byte prefix is valid UTF-8.
			cutLen = len([]rune(window[:i+1]))
		}
		if part := strings.TrimSpace(string(runes[:cutLen])); part != "" {
			parts = append(parts, part)
		}
		runes = runes[cutLen:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
