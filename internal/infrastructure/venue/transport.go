package venue

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"
)

// Transport is one persistent framed stream to the venue. Implemented
// over TLS in production and by an in-memory fake in session tests.
type Transport interface {
	Send(ctx context.Context, frame []byte) error
	Recv(ctx context.Context) ([]byte, error)
	Close() error
}

type tlsTransport struct {
	conn net.Conn
}

// Dial opens the TLS stream connection to the venue endpoint.
func Dial(ctx context.Context, host string, port int) (Transport, error) {
	d := &tls.Dialer{NetDialer: &net.Dialer{Timeout: 15 * time.Second}}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s:%d: %v", ErrConnection, host, port, err)
	}
	return &tlsTransport{conn: conn}, nil
}

func (t *tlsTransport) Send(ctx context.Context, frame []byte) error {
	_ = t.conn.SetWriteDeadline(deadlineFrom(ctx))
	if err := writeFrame(t.conn, frame); err != nil {
		return fmt.Errorf("%w: write: %v", ErrConnection, err)
	}
	return nil
}

func (t *tlsTransport) Recv(ctx context.Context) ([]byte, error) {
	_ = t.conn.SetReadDeadline(deadlineFrom(ctx))
	frame, err := readFrame(t.conn)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrConnection, err)
	}
	return frame, nil
}

func (t *tlsTransport) Close() error { return t.conn.Close() }

func deadlineFrom(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		return dl
	}
	return time.Time{}
}
