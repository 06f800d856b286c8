package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bulatminnakhmetov/inkmatch-backend/internal/filter"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/handler/response"
	"github.com/bulatminnakhmetov/inkmatch-backend/internal/search"
)

// Frame types
const (
	FrameSearch      = "search"
	FrameSuggest     = "suggest"
	FrameResults     = "results"
	FrameSuggestions = "suggestions"
	FrameError       = "error"
)

// ClientFrame is a message sent by the browser
type ClientFrame struct {
	Type   string `json:"type"`
	Seq    int64  `json:"seq,omitempty"`
	Params string `json:"params,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// ResultsFrame carries the page for a search frame
type ResultsFrame struct {
	Type       string            `json:"type"`
	Seq        int64             `json:"seq"`
	Data       []search.Profile  `json:"data"`
	Pagination search.Pagination `json:"pagination"`
}

// SuggestionsFrame answers a suggest frame from the session history
type SuggestionsFrame struct {
	Type  string   `json:"type"`
	Items []string `json:"items"`
}

// ErrorFrame reports a failed search frame
type ErrorFrame struct {
	Type  string             `json:"type"`
	Seq   int64              `json:"seq,omitempty"`
	Error response.ErrorBody `json:"error"`
}

// Conn is the part of *websocket.Conn a session uses
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Handler serves the live search channel
type Handler struct {
	service  search.SearchService
	upgrader websocket.Upgrader
	window   time.Duration
	logger   *slog.Logger
}

// NewHandler creates a live search handler. An empty allowedOrigins accepts
// any origin.
func NewHandler(service search.SearchService, window time.Duration, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		window:  window,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// ServeLive godoc
// @Summary Live profile search
// @Description Upgrades to a WebSocket. Send {"type":"search","seq":1,"params":"q=koi"} frames; each debounce window answers the newest one with a results frame. {"type":"suggest","prefix":"ko"} returns recent queries.
// @Tags profiles
// @Param lat query number false "Reference latitude used when a frame carries none"
// @Param lng query number false "Reference longitude used when a frame carries none"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/profiles/live [get]
func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	origin, _ := search.ParseCoordinate(r.URL.Query().Get("lat"), r.URL.Query().Get("lng"))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.serve(r.Context(), conn, origin)
}

// session is the state of one live connection
type session struct {
	ctx     context.Context
	conn    Conn
	service search.SearchService
	logger  *slog.Logger
	origin  *filter.Coordinate

	debouncer *Debouncer

	writeMu sync.Mutex

	historyMu sync.Mutex
	history   filter.History
}

// serve runs the read loop until the connection closes
func (h *Handler) serve(ctx context.Context, conn Conn, origin *filter.Coordinate) {
	ctx, cancel := context.WithCancel(ctx)
	s := &session{
		ctx:     ctx,
		conn:    conn,
		service: h.service,
		logger:  h.logger,
		origin:  origin,
	}
	s.debouncer = NewDebouncer(h.window, s.search)

	defer func() {
		s.debouncer.Stop()
		cancel()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("live search connection closed", "error", err)
			}
			return
		}

		var frame ClientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.logger.Debug("malformed live search frame", "error", err)
			continue
		}

		switch frame.Type {
		case FrameSearch:
			if !s.debouncer.Submit(Request{Seq: frame.Seq, Params: frame.Params}) {
				h.logger.Debug("stale live search frame dropped", "seq", frame.Seq)
			}
		case FrameSuggest:
			s.historyMu.Lock()
			items := s.history.Suggest(frame.Prefix)
			s.historyMu.Unlock()
			s.write(SuggestionsFrame{Type: FrameSuggestions, Items: items})
		default:
			h.logger.Debug("unknown live search frame", "type", frame.Type)
		}
	}
}

// search executes a debounced request. Its result is written only if no
// newer request was accepted meanwhile.
func (s *session) search(req Request) {
	values, err := url.ParseQuery(req.Params)
	if err != nil {
		s.write(ErrorFrame{Type: FrameError, Seq: req.Seq, Error: response.ErrorBody{Code: response.CodeValidation, Message: "Malformed params"}})
		return
	}

	state, warnings, err := filter.Decode(values)
	if err != nil {
		s.write(ErrorFrame{Type: FrameError, Seq: req.Seq, Error: response.ErrorBody{Code: response.CodeValidation, Message: err.Error()}})
		return
	}
	for _, w := range warnings {
		s.logger.Warn("search parameter normalized", "field", w.Field, "value", w.Value)
	}

	origin := s.origin
	if c, ok := search.ParseCoordinate(values.Get("lat"), values.Get("lng")); ok {
		origin = c
	}

	s.historyMu.Lock()
	s.history.Record(state.Query, time.Now())
	s.historyMu.Unlock()

	env, err := s.service.Search(s.ctx, state, origin)
	if !s.debouncer.Current(req.Seq) {
		s.logger.Debug("superseded live search result discarded", "seq", req.Seq)
		return
	}
	if err != nil {
		var execErr *search.ExecutionError
		if errors.As(err, &execErr) {
			s.logger.Error("live search failed", "op", execErr.Op, "error", execErr.Err)
		} else {
			s.logger.Error("live search failed", "error", err)
		}
		s.write(ErrorFrame{Type: FrameError, Seq: req.Seq, Error: response.ErrorBody{Code: response.CodeSearchFailed, Message: "Failed to load results"}})
		return
	}

	page := search.NewProfileSearchResponse(env)
	s.write(ResultsFrame{Type: FrameResults, Seq: req.Seq, Data: page.Data, Pagination: page.Pagination})
}

func (s *session) write(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal live search frame", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Debug("failed to write live search frame", "error", err)
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
