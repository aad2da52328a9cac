// Package ntp — минимальный SNTP клиент: один запрос за цикл, ответ → UTC epoch (0 = нет синхронизации).
package ntp

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/shiwa/tc-clock/internal/civil"
	"github.com/shiwa/tc-clock/internal/logger"
)

const (
	// Port — порт NTP сервера.
	Port = 123
	// PacketSize — размер запроса (RFC 5905, без расширений).
	PacketSize = 48
	// DefaultTimeout — ожидание одного ответа.
	DefaultTimeout = time.Second

	// Transmit Timestamp, секунды: байты 40-43 (big-endian).
	transmitSecOffset = 40
	minReplySize      = transmitSecOffset + 4

	// секунд между 1900-01-01 и 1970-01-01
	ntpToUnixSeconds = 2208988800
)

// referenceID — байты 12-15 запроса: непрозрачная константа программного клиента.
var referenceID = [4]byte{'1', 'N', '1', '4'}

// BuildRequest собирает 48-байтный запрос: LI=0, VN=3, Mode=3 (0xE3), stratum 0, poll 6, precision 0xEC.
func BuildRequest() []byte {
	req := make([]byte, PacketSize)
	req[0] = 0xE3
	req[1] = 0
	req[2] = 6
	req[3] = 0xEC
	copy(req[12:16], referenceID[:])
	return req
}

// ParseReply извлекает секунды Transmit Timestamp и переводит в Unix epoch.
// Вычитание в uint32: после перехода эры NTP (2036-02-07T06:28:16Z) значение переворачивается
// и остаётся верным до 2106 года. Короткий ответ → civil.Unsynced.
func ParseReply(resp []byte) civil.Epoch {
	if len(resp) < minReplySize {
		return civil.Unsynced
	}
	sec := binary.BigEndian.Uint32(resp[transmitSecOffset:minReplySize])
	// расширяем до 64 бит только после вычитания
	return civil.Epoch(int64(sec - ntpToUnixSeconds))
}

// Client — NTP клиент поверх датаграммного транспорта.
type Client struct {
	transport Transport
	server    string
	port      int
	timeout   time.Duration
}

// NewClient создаёт клиента; port 0 → 123, timeout <= 0 → DefaultTimeout.
func NewClient(transport Transport, server string, port int, timeout time.Duration) *Client {
	if port == 0 {
		port = Port
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{transport: transport, server: server, port: port, timeout: timeout}
}

// Name возвращает имя источника для логов.
func (c *Client) Name() string {
	return fmt.Sprintf("ntp:%s:%d", c.server, c.port)
}

// Server возвращает адрес сервера.
func (c *Client) Server() string {
	return c.server
}

// FetchUTCEpoch выполняет один обмен с сервером. Любой сбой (нет сети, нет сервера, таймаут,
// битый ответ) возвращает civil.Unsynced; повтор — на следующем цикле вызывающего.
func (c *Client) FetchUTCEpoch() civil.Epoch {
	sock, err := c.transport.Open()
	if err != nil {
		logger.Debug("%s: open: %v", c.Name(), err)
		return civil.Unsynced
	}
	defer sock.Close()

	if err := sock.Send(BuildRequest(), c.server, c.port); err != nil {
		logger.Debug("%s: send: %v", c.Name(), err)
		return civil.Unsynced
	}
	resp, err := sock.Receive(c.timeout)
	if err != nil {
		logger.Debug("%s: receive: %v", c.Name(), err)
		return civil.Unsynced
	}
	return ParseReply(resp)
}
