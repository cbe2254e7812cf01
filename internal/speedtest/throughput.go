package speedtest

import (
	"net"
	"net/url"
	"sync"
	"time"
)

// runLoadPhase drives one upload or download phase to completion: construct
// the counter, stagger-spawn workers, rendezvous at the start barrier,
// sample the aggregate byte counter on a fixed cadence for the phase
// window, signal termination, join every worker, then derive speed and
// status from the finished sample series.
func runLoadPhase(cfg Config, addr net.Addr, u *url.URL, isUpload bool) PhaseResult {
	lc := NewLoadCounter(cfg.Workers)

	var wg sync.WaitGroup
	wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go func() {
			defer wg.Done()
			runWorker(cfg.Dialect, isUpload, addr, u, lc)
		}()
		if i < cfg.Workers-1 {
			time.Sleep(workerStagger)
		}
	}

	lc.Wait()

	start := time.Now()
	for {
		time.Sleep(tuned.sampleInterval)
		elapsed := time.Since(start).Microseconds()
		lc.Count(elapsed)
		if elapsed >= tuned.phaseWindow.Microseconds() {
			break
		}
	}

	lc.End()
	wg.Wait()

	return PhaseResult{Mbps: lc.Speed(), Status: lc.Status()}
}

func runWorker(d Dialect, isUpload bool, addr net.Addr, u *url.URL, lc *LoadCounter) {
	defer func() {
		// A panic inside a worker must not poison the counter or hang the
		// controller. It crosses the join boundary as a handled condition;
		// the worker simply stops contributing.
		if r := recover(); r != nil {
			log.WithField("panic", r).Debug("worker panic recovered")
		}
	}()

	switch {
	case d == TcpSpeedtest && isUpload:
		tcpUploadWorker(addr, u, lc)
	case d == TcpSpeedtest && !isUpload:
		tcpDownloadWorker(addr, u, lc)
	case isUpload:
		httpUploadWorker(addr, u, lc)
	default:
		httpDownloadWorker(addr, u, lc)
	}
}
