package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/akira-bot/akira/internal/analyzer"
	"github.com/akira-bot/akira/internal/archive"
	"github.com/akira-bot/akira/internal/chunk"
	"github.com/akira-bot/akira/internal/config"
	"github.com/akira-bot/akira/internal/observability"
)

// Engine produces the reply for one inbound text message.
type Engine interface {
	HandleMessage(ctx context.Context, userID, text string) string
}

// MediaAnalyzer turns inbound media into reply text.
type MediaAnalyzer interface {
	AnalyzeImage(ctx context.Context, contentType string, data []byte, goal string) string
	HandleDocument(ctx context.Context, contentType string, data []byte, mode analyzer.Mode) string
}

const maxMediaBytes = 10 << 20

type Server struct {
	cfg         config.Config
	engine      Engine
	analyzer    MediaAnalyzer
	transcripts archive.Store
	metrics     *observability.Metrics
	upgrader    websocket.Upgrader
	media       *http.Client
}

func New(cfg config.Config, engine Engine, media MediaAnalyzer, transcripts archive.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:         cfg,
		engine:      engine,
		analyzer:    media,
		transcripts: transcripts,
		metrics:     metrics,
		media: &http.Client{
			Timeout: cfg.MediaFetchTimeout,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Default: only allow browser websocket connections from the
				// same origin, so other sites cannot drive the dev console if
				// the relay is ever exposed beyond localhost.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Akira WhatsApp Bot ON ✅"))
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Get("/whatsapp", func(w http.ResponseWriter, _ *http.Request) {
		// Lets you verify the deployment from a browser; Twilio always POSTs.
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Akira WhatsApp webhook vivo (usa POST desde Twilio)"))
	})
	r.Post("/whatsapp", s.handleWhatsApp)

	r.Get("/v1/chat/ws", s.handleChatWS)
	r.Get("/v1/transcripts/{userID}", s.handleTranscript)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"brain_provider": s.cfg.BrainProvider,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

// handleWhatsApp answers Twilio's webhook. It always replies 200 with a
// TwiML document: a non-2xx or slow response makes Twilio drop the message
// and surface error 11200 to the operator, so every failure path here
// degrades to apologetic reply text instead.
func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.countWebhook("bad_form")
		writeTwiML(w, []string{"Ups, no pude leer tu mensaje 🤕"})
		return
	}

	from := strings.TrimSpace(r.PostFormValue("From"))
	if from == "" {
		from = "anonymous"
	}
	body := r.PostFormValue("Body")
	numMedia, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("NumMedia")))

	log.Printf("whatsapp inbound from=%s media=%d chars=%d", from, numMedia, len(body))

	var parts []string
	if numMedia > 0 {
		parts = s.handleInboundMedia(r, body)
	} else {
		reply := s.engine.HandleMessage(r.Context(), from, body)
		parts = chunk.Split(reply, s.cfg.MaxMessageChars)
		s.countWebhook("text")
	}

	if len(parts) == 0 {
		parts = []string{"Ups, me quedé sin palabras 🤕 Inténtalo de nuevo."}
	}
	if s.metrics != nil {
		s.metrics.ReplyChunks.Observe(float64(len(parts)))
	}
	writeTwiML(w, parts)
}

func (s *Server) handleInboundMedia(r *http.Request, body string) []string {
	mediaURL := strings.TrimSpace(r.PostFormValue("MediaUrl0"))
	mediaCT := strings.TrimSpace(r.PostFormValue("MediaContentType0"))

	data, err := s.fetchMedia(r.Context(), mediaURL)
	if err != nil {
		log.Printf("media download failed: %v", err)
		s.countWebhook("media_error")
		return []string{fmt.Sprintf("Ups, no pude descargar el archivo 🤕\nDetalle: %v", err)}
	}

	var out string
	if strings.HasPrefix(mediaCT, "image/") {
		s.countMedia("image")
		out = s.analyzer.AnalyzeImage(r.Context(), mediaCT, data, body)
	} else {
		s.countMedia("document")
		out = s.analyzer.HandleDocument(r.Context(), mediaCT, data, analyzer.DetectMode(body))
	}
	s.countWebhook("media")
	return chunk.Split(out, s.cfg.MaxMessageChars)
}

// fetchMedia downloads a Twilio media item. Twilio protects media URLs
// with the account's basic-auth credentials.
func (s *Server) fetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	if mediaURL == "" {
		return nil, fmt.Errorf("missing media url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create media request: %w", err)
	}
	if s.cfg.TwilioAccountSID != "" {
		req.SetBasicAuth(s.cfg.TwilioAccountSID, s.cfg.TwilioAuthToken)
	}

	res, err := s.media.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("media download status %d", res.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxMediaBytes))
	if err != nil {
		return nil, fmt.Errorf("read media body: %w", err)
	}
	return data, nil
}

type wsInbound struct {
	Text string `json:"text"`
}

type wsReply struct {
	Type  string   `json:"type"`
	Parts []string `json:"parts"`
}

// handleChatWS is a developer console: the same turn engine over a
// websocket, so the bot can be exercised locally without Twilio.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		userID = "console"
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 << 10)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(10 * time.Minute))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var in wsInbound
		if err := json.Unmarshal(data, &in); err != nil {
			// Bare text is also accepted for quick wscat sessions.
			in.Text = string(data)
		}

		reply := s.engine.HandleMessage(r.Context(), userID, in.Text)
		parts := chunk.Split(reply, s.cfg.MaxMessageChars)

		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(wsReply{Type: "reply", Parts: parts}); err != nil {
			return
		}
	}
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if s.transcripts == nil {
		respondError(w, http.StatusServiceUnavailable, "unavailable", "transcript archive not configured")
		return
	}
	userID := chi.URLParam(r, "userID")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := s.transcripts.Recent(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "archive_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"turns":   records,
	})
}

func (s *Server) countWebhook(kind string) {
	if s.metrics != nil {
		s.metrics.WebhookRequests.WithLabelValues(kind).Inc()
	}
}

func (s *Server) countMedia(kind string) {
	if s.metrics != nil {
		s.metrics.MediaItems.WithLabelValues(kind).Inc()
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
