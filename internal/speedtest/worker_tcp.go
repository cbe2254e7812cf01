package speedtest

import (
	"fmt"
	"net"
	"net/url"
)

// tcpDownloadWorker and tcpUploadWorker speak the Speedtest.net line-framed
// TCP protocol: a single fixed-size command per connection, then
// drain/write until termination. The stated transfer size (15 GiB) is
// larger than any window can consume, so unlike the HTTP dialect, the
// connection is never reopened within a phase.

func tcpDownloadWorker(addr net.Addr, u *url.URL, lc *LoadCounter) {
	stream, err := dial(addr, u)
	if err != nil {
		logDialFailure(err, "tcp download worker: connect failed")
		lc.Wait()
		return
	}
	defer stream.Close()
	lc.Wait()

	cmd := fmt.Sprintf("DOWNLOAD %d\n", tcpCycleBytes)
	if _, err := stream.Write([]byte(cmd)); err != nil {
		logStreamFailure(err, "tcp download worker: write failed")
		return
	}

	buf := make([]byte, httpChunkBytes)
	for !lc.IsEnd() {
		n, err := stream.Read(buf)
		if n > 0 {
			lc.Increase(uint64(n))
		}
		if err != nil {
			return
		}
		if n == 0 {
			return
		}
	}
}

func tcpUploadWorker(addr net.Addr, u *url.URL, lc *LoadCounter) {
	stream, err := dial(addr, u)
	if err != nil {
		logDialFailure(err, "tcp upload worker: connect failed")
		lc.Wait()
		return
	}
	defer stream.Close()
	lc.Wait()

	cmd := fmt.Sprintf("UPLOAD %d 0\n", tcpCycleBytes)
	n, err := stream.Write([]byte(cmd))
	if err != nil {
		logStreamFailure(err, "tcp upload worker: write failed")
		return
	}
	lc.Increase(uint64(n))

	chunk := []byte(repeatPattern(uploadPatternBase, httpChunkBytes))
	for !lc.IsEnd() {
		n, err := stream.Write(chunk)
		if n > 0 {
			lc.Increase(uint64(n))
		}
		if err != nil {
			return
		}
	}
}
