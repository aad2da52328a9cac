package ntp

import (
	"net"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// Socket — датаграммный сокет на время одного обмена.
type Socket interface {
	Send(b []byte, host string, port int) error
	// Receive блокируется до прихода датаграммы или истечения timeout.
	Receive(timeout time.Duration) ([]byte, error)
	Close() error
}

// Transport открывает сокет для одного обмена; закрывает вызывающий.
type Transport interface {
	Open() (Socket, error)
}

// UDPTransport — Transport поверх net.UDPConn.
type UDPTransport struct{}

// Open открывает UDP сокет на случайном локальном порту.
func (UDPTransport) Open() (Socket, error) {
	conn, err := net.ListenUDP("udp", nil)
	if err != nil {
		return nil, errors.Wrap(err, "listen udp")
	}
	return &udpSocket{conn: conn}, nil
}

type udpSocket struct {
	conn *net.UDPConn
}

func (s *udpSocket) Send(b []byte, host string, port int) error {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return errors.Wrapf(err, "resolve %s", host)
	}
	_, err = s.conn.WriteToUDP(b, addr)
	return err
}

func (s *udpSocket) Receive(timeout time.Duration) ([]byte, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, 512)
	n, _, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (s *udpSocket) Close() error {
	return s.conn.Close()
}
