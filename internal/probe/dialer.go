package probe

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrClosed — удалённая сторона закрыла соединение (это тоже ответ).
var ErrClosed = errors.New("connection closed")

// Conn — потоковое соединение на время одной пробы.
type Conn interface {
	Write(p []byte) (int, error)
	// ReadLine ждёт строку до '\n' не дольше timeout; при закрытии без данных — ErrClosed.
	ReadLine(timeout time.Duration) (string, error)
	Close() error
}

// Dialer открывает потоковое соединение.
type Dialer interface {
	Dial(ctx context.Context, host string, port int) (Conn, error)
}

// TCPDialer — Dialer поверх net.Dialer.
type TCPDialer struct {
	Timeout time.Duration
}

// Dial подключается по TCP с таймаутом подключения.
func (d TCPDialer) Dial(ctx context.Context, host string, port int) (Conn, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	nd := net.Dialer{Timeout: timeout}
	c, err := nd.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	return &tcpConn{conn: c, rd: bufio.NewReader(c)}, nil
}

type tcpConn struct {
	conn net.Conn
	rd   *bufio.Reader
}

func (c *tcpConn) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

func (c *tcpConn) ReadLine(timeout time.Duration) (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	line, err := c.rd.ReadString('\n')
	if err == nil {
		return line, nil
	}
	if errors.Is(err, io.EOF) {
		if line != "" {
			return line, nil
		}
		return "", ErrClosed
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return line, errors.Wrap(ErrNoResponse, err.Error())
	}
	return line, err
}

func (c *tcpConn) Close() error {
	return c.conn.Close()
}
