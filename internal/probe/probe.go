// Package probe — диагностика доступности сети: время до первой строки HTTP ответа.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	DefaultConnectTimeout = 2 * time.Second
	DefaultReadTimeout    = 2 * time.Second
)

// ErrNoResponse — соединение установлено, но ни строки, ни закрытия до таймаута.
var ErrNoResponse = errors.New("no response")

// Result — итог одной пробы. Err != nil означает «Failed».
type Result struct {
	Host    string
	Port    int
	Latency time.Duration
	Err     error
}

// OK — true, если задержка измерена.
func (r Result) OK() bool {
	return r.Err == nil
}

// Status — строка для дисплея: "23 ms" или "Failed".
func (r Result) Status() string {
	if !r.OK() {
		return "Failed"
	}
	return fmt.Sprintf("%d ms", r.Latency.Milliseconds())
}

// Prober измеряет задержку до первой строки ответа.
type Prober struct {
	dialer      Dialer
	readTimeout time.Duration
	now         func() time.Time
}

// NewProber создаёт пробу; readTimeout <= 0 → DefaultReadTimeout.
func NewProber(dialer Dialer, readTimeout time.Duration) *Prober {
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	return &Prober{dialer: dialer, readTimeout: readTimeout, now: time.Now}
}

// request — минимальный запрос с закрытием соединения.
func request(host string) []byte {
	return []byte("GET / HTTP/1.1\r\nHost: " + host + "\r\nConnection: close\r\n\r\n")
}

// Probe подключается к host:port, отправляет запрос и ждёт первую строку ответа или закрытие.
// Соединение закрывается на любом пути; ошибки не выходят за пределы Result.
func (p *Prober) Probe(ctx context.Context, host string, port int) Result {
	res := Result{Host: host, Port: port}
	conn, err := p.dialer.Dial(ctx, host, port)
	if err != nil {
		res.Err = errors.Wrapf(err, "connect %s:%d", host, port)
		return res
	}
	defer conn.Close()

	if _, err := conn.Write(request(host)); err != nil {
		res.Err = errors.Wrap(err, "write request")
		return res
	}
	start := p.now()
	if _, err := conn.ReadLine(p.readTimeout); err != nil && !errors.Is(err, ErrClosed) {
		res.Err = errors.Wrap(err, "read response")
		return res
	}
	res.Latency = p.now().Sub(start)
	return res
}
