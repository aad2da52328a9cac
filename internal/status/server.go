package status

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/shiwa/tc-clock/internal/logger"
)

// Server — HTTP статус: GET /api/status (JSON снимок) и /ws (поток событий).
type Server struct {
	store *Store
	srv   *http.Server
	ln    net.Listener
}

// NewServer создаёт сервер на addr (например ":8080"); запуск — Start.
func NewServer(addr string, store *Store) *Server {
	s := &Server{store: store}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler возвращает маршруты статуса.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.store.Snapshot()); err != nil {
		logger.Debug("status: encode: %v", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	hello, err := json.Marshal(Event{Type: "snapshot", Data: s.store.Snapshot()})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.store.Hub().serve(w, r, hello)
}

// Start слушает адрес и обслуживает запросы в отдельной горутине.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "status listen %s", s.srv.Addr)
	}
	s.ln = ln
	logger.Info("status: http://%s/api/status", ln.Addr())
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status: serve: %v", err)
		}
	}()
	return nil
}

// Port возвращает фактический порт после Start (0 до запуска).
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	if a, ok := s.ln.Addr().(*net.TCPAddr); ok {
		return a.Port
	}
	return 0
}

// Shutdown останавливает сервер и закрывает websocket клиентов.
func (s *Server) Shutdown(ctx context.Context) error {
	s.store.Hub().CloseAll()
	return s.srv.Shutdown(ctx)
}
