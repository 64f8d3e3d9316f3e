package engine

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/akira-bot/akira/internal/archive"
	"github.com/akira-bot/akira/internal/brain"
	"github.com/akira-bot/akira/internal/heuristics"
	"github.com/akira-bot/akira/internal/observability"
	"github.com/akira-bot/akira/internal/store"
)

// Config carries the fixed generation parameters for the remote model.
type Config struct {
	BrainTimeout time.Duration
	MaxTokens    int64
	Temperature  float64
}

// Engine runs one conversational turn: record the inbound message, try the
// heuristic short-circuit, otherwise assemble context and ask the brain.
// It never returns an error to the transport; every failure path ends in
// user-visible text.
type Engine struct {
	store   *store.Store
	matcher *heuristics.Matcher
	brain   brain.Adapter
	archive archive.Store
	metrics *observability.Metrics
	cfg     Config
}

func New(st *store.Store, matcher *heuristics.Matcher, adapter brain.Adapter, transcripts archive.Store, metrics *observability.Metrics, cfg Config) *Engine {
	if cfg.BrainTimeout <= 0 {
		cfg.BrainTimeout = 30 * time.Second
	}
	return &Engine{
		store:   st,
		matcher: matcher,
		brain:   adapter,
		archive: transcripts,
		metrics: metrics,
		cfg:     cfg,
	}
}

const emptyMessageReply = "Creo que tu mensaje llegó vacío 😅 ¿Me lo escribes de nuevo?"

// HandleMessage produces the reply text for one inbound message.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) string {
	if strings.TrimSpace(text) == "" {
		e.countTurn("fallback")
		return emptyMessageReply
	}

	e.store.RecordTurn(userID, store.RoleUser, text)
	e.archiveTurn(ctx, userID, store.RoleUser, text, "inbound")
	e.observeUsers()

	if reply, rule, ok := e.matcher.Match(userID, text, e.store); ok {
		e.store.RecordTurn(userID, store.RoleAssistant, reply)
		e.archiveTurn(ctx, userID, store.RoleAssistant, reply, "heuristic:"+rule)
		e.countTurn("heuristic")
		if e.metrics != nil {
			e.metrics.HeuristicMatches.WithLabelValues(rule).Inc()
		}
		return reply
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.BrainTimeout)
	defer cancel()

	start := time.Now()
	replyText, err := e.brain.Complete(callCtx, brain.CompletionRequest{
		Messages:    e.assembleContext(userID, text),
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if e.metrics != nil {
		e.metrics.ObserveBrainLatency(time.Since(start))
	}

	source := "model"
	if err != nil {
		log.Printf("brain completion failed for user %s: %v", userID, err)
		replyText = apologyFor(err)
		source = "fallback"
		if e.metrics != nil {
			e.metrics.BrainFailures.WithLabelValues(string(failureReason(err))).Inc()
		}
	}
	reply := strings.TrimSpace(replyText)

	e.store.RecordTurn(userID, store.RoleAssistant, reply)
	e.archiveTurn(ctx, userID, store.RoleAssistant, reply, source)
	e.countTurn(source)
	return reply
}

func (e *Engine) countTurn(path string) {
	if e.metrics != nil {
		e.metrics.TurnsTotal.WithLabelValues(path).Inc()
	}
}

func (e *Engine) observeUsers() {
	if e.metrics != nil {
		e.metrics.KnownUsers.Set(float64(e.store.UserCount()))
	}
}

// archiveTurn writes to the transcript log best-effort; archive failures
// never affect the reply.
func (e *Engine) archiveTurn(ctx context.Context, userID string, role store.Role, content, source string) {
	if e.archive == nil {
		return
	}
	err := e.archive.SaveTurn(ctx, archive.TurnRecord{
		UserID:  userID,
		Role:    string(role),
		Content: content,
		Source:  source,
	})
	if err != nil {
		log.Printf("transcript archive write failed: %v", err)
	}
}

func failureReason(err error) brain.Reason {
	var bErr *brain.Error
	if errors.As(err, &bErr) {
		return bErr.Reason
	}
	return brain.ReasonNetwork
}

// apologyFor turns a tagged brain failure into the user-facing reply.
func apologyFor(err error) string {
	hint := "Inténtalo otra vez en un momento."
	var bErr *brain.Error
	if errors.As(err, &bErr) {
		switch bErr.Reason {
		case brain.ReasonMissingCredential:
			hint = "Revisa que la clave OPENAI_API_KEY esté configurada en el servidor."
		case brain.ReasonTimeout:
			hint = "El modelo tardó demasiado en responder."
		case brain.ReasonUpstreamStatus:
			hint = "El servicio del modelo devolvió un error."
		}
	}
	return "Ups, no pude pensar ahora mismo 🤕. " + hint + " Detalle: " + err.Error()
}
