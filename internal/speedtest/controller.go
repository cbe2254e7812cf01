package speedtest

import (
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Controller orchestrates one run: resolve the endpoint, ping, then upload
// and download load phases. runID tags every log line this run emits so
// interleaved worker goroutines' debug output can be correlated back to
// one invocation.
type Controller struct {
	cfg   Config
	runID string
}

// NewController builds a controller for cfg. It does not resolve the
// endpoint yet; that happens in Run, where a resolution failure is
// reported as the fatal, all-失败 result.
func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg, runID: uuid.NewString()}
}

// Run executes the full ping, upload, download sequence and returns the
// six-field result. Endpoint resolution and URL parsing failures are
// ConfigError and fatal to the whole run; a phase that starts but whose
// workers all die cleanly still completes with whatever samples were
// taken.
func (c *Controller) Run() Result {
	rl := log.WithField("run", c.runID)

	downloadURLStr := c.cfg.DownloadURL
	if c.cfg.Dialect == TcpSpeedtest {
		downloadURLStr = c.cfg.UploadURL
	}
	downloadURL, err := url.Parse(downloadURLStr)
	if err != nil {
		return c.fail(rl, newError(ConfigError, err), "invalid download URL")
	}
	uploadURL, err := url.Parse(c.cfg.UploadURL)
	if err != nil {
		return c.fail(rl, newError(ConfigError, err), "invalid upload URL")
	}

	addr, err := resolve(downloadURL, c.cfg.Family)
	if err != nil {
		return c.fail(rl, err, "endpoint resolution failed")
	}

	result := NewCancelledResult()

	rl.Info("measuring latency")
	latency, jitter, ok := measureLatency(addr)
	result.LatencyMs = latency
	result.JitterMs = jitter
	if !ok {
		rl.Info("ping failed, aborting run")
		return result
	}

	time.Sleep(2 * time.Second)
	rl.Info("measuring upload")
	up := runLoadPhase(c.cfg, addr, uploadURL, true)
	result.UploadMbps = up.Mbps
	result.UploadStatus = up.Status

	time.Sleep(3 * time.Second)
	rl.Info("measuring download")
	down := runLoadPhase(c.cfg, addr, downloadURL, false)
	result.DownloadMbps = down.Mbps
	result.DownloadStatus = down.Status

	return result
}

// fail logs a setup failure and returns the all-失败 result. It only logs
// at Info for errors the taxonomy actually classifies as ConfigError;
// anything else is a programming error and gets a louder warning, since a
// caller would otherwise read a generic-looking config failure line for a
// bug somewhere else entirely.
func (c *Controller) fail(rl *logrus.Entry, err error, msg string) Result {
	if errors.Is(err, ErrConfigError) {
		rl.WithError(err).Info(msg)
	} else {
		rl.WithError(err).Warn(msg)
	}
	return NewFailedResult()
}
