package speedtest

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// httpDownloadWorker and httpUploadWorker both follow the shared worker
// skeleton: open a stream, rendezvous at the start barrier regardless of
// whether the open succeeded, then loop issuing request cycles until the
// counter's end flag is set or an I/O error breaks the loop. Workers never
// propagate errors to the controller; a failed cycle just ends this one
// goroutine, and the others carry on.

func httpDownloadWorker(addr net.Addr, u *url.URL, lc *LoadCounter) {
	stream, err := dial(addr, u)
	if err != nil {
		logDialFailure(err, "download worker: connect failed")
		lc.Wait()
		return
	}
	defer stream.Close()
	lc.Wait()

	hostPort := net.JoinHostPort(u.Hostname(), portOrDefault(u))
	buf := make([]byte, httpChunkBytes)

	for !lc.IsEnd() {
		path := fmt.Sprintf("%s?cors=true&r=%d&ckSize=50&size=%d", u.Path, time.Now().UnixMilli(), httpCycleBytes)
		req := fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\n\r\n", path, hostPort, userAgent)
		log.WithField("path", path).Debug("download request")

		if _, err := stream.Write([]byte(req)); err != nil {
			logStreamFailure(err, "download worker: write failed")
			return
		}

		n, err := stream.Read(buf)
		if err != nil {
			logStreamFailure(err, "download worker: read failed")
			return
		}
		if n == 0 {
			return
		}
		// The response preamble's bytes get counted too; the worker never
		// parses the response, so there is no boundary to subtract them at.
		lc.Increase(uint64(n))
		moved := uint64(n)

		for moved < httpCycleBytes {
			n, err := stream.Read(buf)
			if n > 0 {
				lc.Increase(uint64(n))
				moved += uint64(n)
			}
			if err != nil {
				return
			}
			if n == 0 {
				return
			}
		}
	}
}

func httpUploadWorker(addr net.Addr, u *url.URL, lc *LoadCounter) {
	stream, err := dial(addr, u)
	if err != nil {
		logDialFailure(err, "upload worker: connect failed")
		lc.Wait()
		return
	}
	defer stream.Close()
	lc.Wait()

	hostPort := net.JoinHostPort(u.Hostname(), portOrDefault(u))
	chunk := []byte(repeatPattern(uploadPatternBase, httpChunkBytes))

	for !lc.IsEnd() {
		path := fmt.Sprintf("%s?r=%d", u.Path, time.Now().UnixMilli())
		req := fmt.Sprintf("POST %s HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\nContent-Length: %d\r\n\r\n", path, hostPort, userAgent, httpCycleBytes)
		log.WithField("path", path).Debug("upload request")

		n, err := stream.Write([]byte(req))
		if err != nil {
			logStreamFailure(err, "upload worker: write failed")
			return
		}
		lc.Increase(uint64(n))
		moved := uint64(0)

		for moved < httpCycleBytes {
			n, err := stream.Write(chunk)
			if n > 0 {
				lc.Increase(uint64(n))
				moved += uint64(n)
			}
			if err != nil {
				return
			}
		}
	}
}

func portOrDefault(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}

// repeatPattern builds a size-byte buffer by repeating base, truncating the
// final copy if size isn't an exact multiple. base is 64 bytes and size is
// always httpChunkBytes (65536 == 1024*64), so the repeat divides evenly in
// every call this package makes, but the helper stays total regardless.
func repeatPattern(base string, size int) string {
	if len(base) == 0 {
		return ""
	}
	out := make([]byte, 0, size)
	for len(out) < size {
		n := size - len(out)
		if n > len(base) {
			n = len(base)
		}
		out = append(out, base[:n]...)
	}
	return string(out)
}

// logDialFailure logs a connect failure at Debug when it carries the
// expected ConnectFailed classification, and at Warn otherwise, since an
// unclassified error out of dial would mean the connect path changed
// underneath this call site.
func logDialFailure(err error, msg string) {
	if errors.Is(err, ErrConnectFailed) {
		log.WithError(err).Debug(msg)
	} else {
		log.WithError(err).Warn(msg)
	}
}

// logStreamFailure logs a mid-transfer read/write failure at Debug when it
// carries the expected IoError classification, and at Warn otherwise.
func logStreamFailure(err error, msg string) {
	if errors.Is(err, ErrIoError) {
		log.WithError(err).Debug(msg)
	} else {
		log.WithError(err).Warn(msg)
	}
}
