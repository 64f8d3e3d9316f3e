package heuristics

import (
	"fmt"
	"strings"

	"github.com/akira-bot/akira/internal/store"
)

// Rule is one pattern heuristic. TryMatch may read and mutate the store;
// it returns the instant reply and whether the rule fired.
type Rule interface {
	Name() string
	TryMatch(userID, text string, st *store.Store) (string, bool)
}

// Matcher evaluates rules in declared order. The first rule that fires
// wins and evaluation stops; rules never combine.
//
// Precedence is fixed as: preference declaration, preference query,
// greeting, negative sentiment, positive sentiment. A message like
// "hola, estoy triste" therefore takes the greeting path.
type Matcher struct {
	rules []Rule
}

func NewMatcher(rules ...Rule) *Matcher {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Matcher{rules: rules}
}

func DefaultRules() []Rule {
	return []Rule{
		preferenceDeclaration{},
		preferenceQuery{},
		greeting{},
		sadSentiment{},
		happySentiment{},
	}
}

// Match returns the reply, the name of the rule that produced it, and
// whether any rule fired. Matching is case-insensitive and substring-based.
func (m *Matcher) Match(userID, text string, st *store.Store) (string, string, bool) {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return "", "", false
	}
	for _, r := range m.rules {
		if reply, ok := r.TryMatch(userID, msg, st); ok {
			return reply, r.Name(), true
		}
	}
	return "", "", false
}

const preferenceTrigger = "me gusta"

// preferenceDeclaration stores "me gusta ..." declarations. When nothing
// usable remains after the trigger (e.g. the message is itself a "que me
// gusta" query), it declines so later rules can run.
type preferenceDeclaration struct{}

func (preferenceDeclaration) Name() string { return "preference_declaration" }

func (preferenceDeclaration) TryMatch(userID, msg string, st *store.Store) (string, bool) {
	idx := strings.Index(msg, preferenceTrigger)
	if idx < 0 {
		return "", false
	}
	liked := st.RecordPreference(userID, msg[idx+len(preferenceTrigger):])
	if liked == "" {
		return "", false
	}
	return fmt.Sprintf("¡Wau! También me gusta **%s** 🐾😄 ¿Quieres que lo recuerde para recomendarte cosas?", liked), true
}

type preferenceQuery struct{}

func (preferenceQuery) Name() string { return "preference_query" }

func (preferenceQuery) TryMatch(userID, msg string, st *store.Store) (string, bool) {
	if !strings.Contains(msg, "qué me gusta") && !strings.Contains(msg, "que me gusta") {
		return "", false
	}
	likes := st.Preferences(userID)
	if len(likes) == 0 {
		return "Aún no me has contado tus gustos 😅. Dime: *me gusta ...*", true
	}
	return fmt.Sprintf("🐾 Me contaste que te gusta: %s.", strings.Join(likes, ", ")), true
}

var greetingTokens = []string{"hola", "buenas", "hey", "ola", "holi"}

type greeting struct{}

func (greeting) Name() string { return "greeting" }

func (greeting) TryMatch(_, msg string, _ *store.Store) (string, bool) {
	if !containsAny(msg, greetingTokens) {
		return "", false
	}
	return "¡Hey! 🐾 Soy Akira. ¿En qué te ayudo hoy — tarea, resumen, imagen o investigación?", true
}

var sadTokens = []string{"triste", "depre", "deprimid", "mal", "ansioso", "ansiosa"}

type sadSentiment struct{}

func (sadSentiment) Name() string { return "sad_sentiment" }

func (sadSentiment) TryMatch(userID, msg string, st *store.Store) (string, bool) {
	if !containsAny(msg, sadTokens) {
		return "", false
	}
	st.SetMood(userID, store.MoodSad)
	return "Estoy contigo 💙 Respira, aquí estoy a tu lado. ¿Quieres que te explique algo o te saque un resumen rapidito?", true
}

var happyTokens = []string{"feliz", "logré", "logre", "me salió", "me salio", "contento", "contenta"}

type happySentiment struct{}

func (happySentiment) Name() string { return "happy_sentiment" }

func (happySentiment) TryMatch(userID, msg string, st *store.Store) (string, bool) {
	if !containsAny(msg, happyTokens) {
		return "", false
	}
	st.SetMood(userID, store.MoodHappy)
	return "¡Guau! ¡Qué emoción! 🐶💙 ¿Te ayudo a guardar ese logro o a planear lo que sigue?", true
}

func containsAny(msg string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(msg, tok) {
			return true
		}
	}
	return false
}
