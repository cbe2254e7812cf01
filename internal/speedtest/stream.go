package speedtest

import (
	"crypto/tls"
	"net"
	"net/url"
	"time"
)

// Stream is the abstract bidirectional byte channel workers read/write
// against: plain TCP or TLS-over-TCP, both honoring a fresh per-operation
// read/write deadline.
type Stream interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// deadlineConn wraps a net.Conn so every Read/Write gets a fresh deadline.
// net.Conn deadlines are absolute, not a timeout-per-call, so each call
// must re-arm its own deadline before issuing the underlying operation.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}

// errTaggedStream wraps a Stream so every Read/Write error reaching a
// worker is classified as IoError. It sits only at the outermost boundary
// handed back to callers; the inner connection used as the TLS transport
// during handshake is left untouched so crypto/tls still sees its own net.Conn
// errors unmodified.
type errTaggedStream struct {
	Stream
}

func (s errTaggedStream) Read(p []byte) (int, error) {
	n, err := s.Stream.Read(p)
	if err != nil {
		return n, newError(IoError, err)
	}
	return n, nil
}

func (s errTaggedStream) Write(p []byte) (int, error) {
	n, err := s.Stream.Write(p)
	if err != nil {
		return n, newError(IoError, err)
	}
	return n, nil
}

// dial connects to addr with up to connectRetries attempts, each bounded
// by connectTimeout, and negotiates TLS when u's scheme calls for it. A
// failure after exhausting retries is always *Error{Kind: ConnectFailed},
// never a bare net error, so worker skeletons can uniformly route it to
// "rendezvous and exit."
func dial(addr net.Addr, u *url.URL) (Stream, error) {
	var lastErr error
	for attempt := 0; attempt < connectRetries; attempt++ {
		conn, err := net.DialTimeout(addr.Network(), addr.String(), connectTimeout)
		if err != nil {
			lastErr = err
			continue
		}

		dc := &deadlineConn{Conn: conn, timeout: ioTimeout}

		if u.Scheme != "https" {
			return errTaggedStream{dc}, nil
		}

		tlsConn := tls.Client(dc, &tls.Config{ServerName: u.Hostname()})
		if err := tlsConn.Handshake(); err != nil {
			lastErr = err
			_ = conn.Close()
			continue
		}
		return errTaggedStream{&deadlineConn{Conn: tlsConn, timeout: ioTimeout}}, nil
	}
	return nil, newError(ConnectFailed, lastErr)
}
