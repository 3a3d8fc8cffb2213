package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/vroute/pkg/history"
	"github.com/vango-dev/vroute/pkg/routepath"
	"github.com/vango-dev/vroute/pkg/router"
)

// socket serializes writes to a WebSocket connection.
type socket struct {
	conn    *websocket.Conn
	timeout time.Duration

	mu sync.Mutex
}

func (s *socket) send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	return s.conn.WriteJSON(v)
}

// HandleWebSocket runs the history adapter for one browser. The browser
// passes its current location in the "location" query parameter; the
// connection then navigates there and follows the browser's messages
// until it disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.config.MaxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sock := &socket{conn: conn, timeout: s.config.SocketWriteTimeout}
	logger := s.logger.With("conn", uuid.NewString())

	location := r.URL.Query().Get("location")
	if location == "" {
		location = routepath.JoinBase(s.base, "/")
	}
	remote := history.NewRemote(location, func(msg history.Message) error {
		return sock.send(msg)
	})

	var rt *router.Router
	rt, err = s.newRouter(remote,
		router.WithLogger(logger),
		router.WithErrorHandler(func(err error) {
			s.sendError(sock, logger, err)
		}),
		router.WithAfterEach(func(nav *router.Navigation, err error) {
			if err == nil {
				s.sendRender(sock, logger, rt)
			}
		}),
	)
	if err != nil {
		logger.Error("router setup failed", "error", err)
		return
	}

	stop, err := rt.Start(ctx)
	defer stop()
	if err != nil {
		s.sendError(sock, logger, err)
	}
	logger.Debug("socket connected", "location", location)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				logger.Error("read error", "error", err)
			}
			logger.Debug("socket closed")
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendCode(sock, logger, CodeBadMessage, "invalid message")
			continue
		}
		s.handleClientMessage(ctx, sock, logger, rt, remote, msg)
	}
}

func (s *Server) handleClientMessage(ctx context.Context, sock *socket, logger *slog.Logger, rt *router.Router, remote *history.Remote, msg ClientMessage) {
	switch msg.Type {
	case ClientNavigate:
		var opts []router.NavigateOption
		if msg.Replace {
			opts = append(opts, router.WithReplace())
		}
		// The navigation's place in line is fixed here; only the view
		// fetch runs in the background.
		f := rt.NavigateAsync(ctx, msg.Path, opts...)
		go func() {
			if _, err := f.Wait(context.Background()); err != nil {
				s.sendError(sock, logger, err)
			}
		}()

	case ClientPopstate:
		remote.Popstate(msg.Path)

	case ClientPrefetch:
		go func() {
			if err := rt.Prefetch(ctx, msg.Route); err != nil {
				s.sendError(sock, logger, err)
			}
		}()

	default:
		s.sendCode(sock, logger, CodeBadMessage, "unknown message type "+msg.Type)
	}
}

func (s *Server) sendRender(sock *socket, logger *slog.Logger, rt *router.Router) {
	var buf bytes.Buffer
	if err := rt.Render(&buf); err != nil {
		s.sendError(sock, logger, err)
		return
	}
	m := rt.Active()
	msg := RenderMessage{
		Type:  MessageRender,
		Route: m.Name(),
		URL:   routepath.JoinBase(s.base, rt.Location()),
		Title: m.Route.Meta["title"],
		HTML:  buf.String(),
	}
	if err := sock.send(msg); err != nil {
		logger.Debug("render send failed", "error", err)
	}
}

func (s *Server) sendError(sock *socket, logger *slog.Logger, err error) {
	if errors.Is(err, router.ErrNavigationSuperseded) || errors.Is(err, context.Canceled) {
		return
	}
	s.sendCode(sock, logger, errorCode(err), err.Error())
}

func (s *Server) sendCode(sock *socket, logger *slog.Logger, code, message string) {
	if err := sock.send(ErrorMessage{Type: MessageError, Code: code, Message: message}); err != nil {
		logger.Debug("error send failed", "error", err)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, router.ErrNoMatchingRoute):
		return CodeNotFound
	case errors.Is(err, router.ErrUnknownRoute):
		return CodeUnknownRoute
	case errors.Is(err, router.ErrModuleLoad):
		return CodeModuleLoad
	default:
		return CodeInternal
	}
}
