package speedtest

import (
	"bufio"
	"io"
	"net"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startEchoFixture listens on loopback and, for every connection, reads one
// minimal HTTP request preamble (terminated by the blank CRLF line) and then
// streams raw filler bytes continuously until the connection is closed by
// the client. It never parses headers or enforces Content-Length, since
// this dialect's workers don't either; it is a test-only stand-in, not a
// general HTTP server.
func startEchoFixture(t *testing.T) net.Addr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveEchoConn(conn)
		}
	}()

	return ln.Addr()
}

// serveEchoConn reads the initial request preamble, then both drains
// whatever the client keeps writing (POST bodies, repeat GET lines) and
// streams filler bytes back, concurrently. A real peer that only wrote
// without ever reading would stall the upload worker's Write once the
// socket buffers fill, so both directions must stay open for the duration
// of the connection.
func serveEchoConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		if line == "\r\n" || line == "\n" {
			break
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		io.Copy(io.Discard, r)
	}()

	filler := make([]byte, httpChunkBytes)
	for i := range filler {
		filler[i] = 'x'
	}
	for {
		if _, err := conn.Write(filler); err != nil {
			return
		}
		select {
		case <-done:
			return
		default:
		}
	}
}

func TestHttpDownloadWorkerCountsBytesFromFixtureServer(t *testing.T) {
	addr := startEchoFixture(t)
	a := addr.(*net.TCPAddr)
	u, err := url.Parse("http://" + a.String() + "/download")
	require.NoError(t, err)

	lc := NewLoadCounter(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		httpDownloadWorker(tcpAddrFor(a), u, lc)
	}()

	lc.Wait() // controller side of the start barrier

	// Let the worker run for a short window, then signal termination. The
	// worker's inner read loop finishes its current cycle before checking
	// IsEnd again, which loopback throughput clears in well under a second.
	time.Sleep(200 * time.Millisecond)
	lc.End()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("download worker did not exit after End()")
	}

	require.Greater(t, lc.counter.Load(), uint64(0), "worker must have counted some bytes")
}

func TestHttpUploadWorkerCountsBytesFromFixtureServer(t *testing.T) {
	addr := startEchoFixture(t)
	a := addr.(*net.TCPAddr)
	u, err := url.Parse("http://" + a.String() + "/upload")
	require.NoError(t, err)

	lc := NewLoadCounter(1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		httpUploadWorker(tcpAddrFor(a), u, lc)
	}()

	lc.Wait()

	time.Sleep(200 * time.Millisecond)
	lc.End()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("upload worker did not exit after End()")
	}

	require.Greater(t, lc.counter.Load(), uint64(0), "worker must have counted some bytes")
}

// tcpAddrFor adapts a *net.TCPAddr (as returned by net.Listener.Addr) into
// this package's own net.Addr implementation, the same type dial/resolve
// hand to every worker in production.
func tcpAddrFor(a *net.TCPAddr) net.Addr {
	return tcpAddr{ip: a.IP, port: strconv.Itoa(a.Port)}
}
