package status

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/shiwa/tc-clock/internal/logger"
)

const (
	sendQueue     = 16
	writeDeadline = 10 * time.Second
	pingPeriod    = 30 * time.Second
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub рассылает события подписчикам /ws. Медленный клиент теряет сообщения, но не тормозит цикл.
type Hub struct {
	clients  *xsync.MapOf[string, *client]
	upgrader websocket.Upgrader
}

// NewHub создаёт пустую рассылку.
func NewHub() *Hub {
	return &Hub{
		clients: xsync.NewMapOf[string, *client](),
		upgrader: websocket.Upgrader{
			// статус только для локальной сети
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Len — число подключённых клиентов.
func (h *Hub) Len() int {
	return h.clients.Size()
}

// Broadcast ставит сообщение в очередь каждого клиента; при полной очереди сообщение отбрасывается.
func (h *Hub) Broadcast(msg []byte) {
	h.clients.Range(func(id string, c *client) bool {
		select {
		case c.send <- msg:
		default:
			logger.Debug("status: ws %s queue full, drop", id)
		}
		return true
	})
}

// serve обслуживает одно соединение: первым сообщением уходит hello (снимок), далее события.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, hello []byte) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("status: ws upgrade: %v", err)
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendQueue)}
	c.send <- hello
	h.clients.Store(c.id, c)
	logger.Debug("status: ws %s connected from %s", c.id, r.RemoteAddr)

	done := make(chan struct{})
	go h.writer(c, done)

	// читаем только ради close/pong
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.clients.Delete(c.id)
	close(done)
	_ = conn.Close()
	logger.Debug("status: ws %s disconnected", c.id)
}

func (h *Hub) writer(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				_ = c.conn.Close()
				return
			}
		}
	}
}

// CloseAll закрывает все соединения (при остановке сервера).
func (h *Hub) CloseAll() {
	h.clients.Range(func(id string, c *client) bool {
		_ = c.conn.Close()
		return true
	})
}
