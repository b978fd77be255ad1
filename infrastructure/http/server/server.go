package server

import (
	"encoding/json"
	"eyesup/auth"
	"eyesup/errors"
	"eyesup/observability"
	"eyesup/services"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const maxBodyBytes = 64 * 1024

type Options struct {
	ConnectionBufferSize int
	WriteTimeout         time.Duration
	PongTimeout          time.Duration
	AllowedOrigins       []string
}

// RelayServer exposes the relay over HTTP and a websocket live stream.
type RelayServer struct {
	log         *slog.Logger
	options     Options
	authService services.IAuthService
	relay       services.IRelayService
	preferences services.IPreferencesService
	voice       services.IVoiceService
	monitoring  *observability.MonitoringManager
	issuer      *auth.TokenIssuer
	upgrader    websocket.Upgrader
}

func NewRelayServer(log *slog.Logger, options Options, authService services.IAuthService,
	relay services.IRelayService, preferences services.IPreferencesService, voice services.IVoiceService,
	monitoring *observability.MonitoringManager, issuer *auth.TokenIssuer) *RelayServer {
	s := &RelayServer{
		log:         log,
		options:     options,
		authService: authService,
		relay:       relay,
		preferences: preferences,
		voice:       voice,
		monitoring:  monitoring,
		issuer:      issuer,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler routes every endpoint. Everything but login and health requires a token.
func (s *RelayServer) Handler() http.Handler {
	protected := auth.RequireToken(s.issuer, s.unauthorized)
	guard := func(h http.HandlerFunc) http.Handler { return protected(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("GET /api/health", s.health)

	mux.Handle("POST /api/incoming", guard(s.incoming))
	mux.Handle("POST /api/reply", guard(s.reply))
	mux.Handle("POST /api/simulate", guard(s.simulate))
	mux.Handle("GET /api/messages", guard(s.messages))
	mux.Handle("GET /api/messages/page", guard(s.page))
	mux.Handle("GET /api/messages/search", guard(s.search))
	mux.Handle("GET /api/stream", guard(s.stream))

	mux.Handle("GET /api/keywords", guard(s.keywords))
	mux.Handle("PUT /api/keywords", guard(s.replaceKeywords))
	mux.Handle("POST /api/keywords", guard(s.addKeywords))
	mux.Handle("DELETE /api/keywords/{id}", guard(s.deleteKeyword))

	mux.Handle("GET /api/settings", guard(s.settings))
	mux.Handle("POST /api/settings", guard(s.replaceSettings))

	mux.Handle("GET /api/contacts", guard(s.contacts))
	mux.Handle("POST /api/contacts", guard(s.addContact))
	mux.Handle("DELETE /api/contacts/{id}", guard(s.deleteContact))

	mux.Handle("POST /api/voice", guard(s.handleVoice))
	return mux
}

func (s *RelayServer) checkOrigin(r *http.Request) bool {
	if len(s.options.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients
		return true
	}
	for _, allowed := range s.options.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}

func (s *RelayServer) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Debug("Request rejected", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusUnauthorized, errorBody{Error: errors.ErrUnauthorized.Error()})
}

type errorBody struct {
	Error string `json:"error"`
}

// fail maps a domain error to its status. Internal details stay in the logs.
func (s *RelayServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	body := errorBody{Error: err.Error()}
	switch status {
	case http.StatusInternalServerError:
		s.log.Error("Request failed", "path", r.URL.Path, "error", err)
		body.Error = "internal error"
	case http.StatusUnauthorized:
		body.Error = errors.ErrUnauthorized.Error()
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decode(w http.ResponseWriter, r *http.Request, into any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return errors.Validation("malformed json body")
	}
	return nil
}
