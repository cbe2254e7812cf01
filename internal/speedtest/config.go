package speedtest

import (
	"time"

	"github.com/spf13/viper"
)

// Dialect selects the wire protocol a worker speaks.
type Dialect int

const (
	// Http speaks a minimal HTTP/1.1 GET/POST preamble over the stream
	// factory's stream (plain TCP or TLS, depending on URL scheme).
	Http Dialect = iota
	// TcpSpeedtest speaks the Speedtest.net line-framed TCP protocol
	// (DOWNLOAD/UPLOAD commands over a single long-lived connection).
	TcpSpeedtest
)

func (d Dialect) String() string {
	if d == TcpSpeedtest {
		return "tcp"
	}
	return "http"
}

// ParseDialect maps the -c flag's NAME argument to a Dialect.
func ParseDialect(name string) (Dialect, bool) {
	switch name {
	case "", "http":
		return Http, true
	case "tcp":
		return TcpSpeedtest, true
	default:
		return Http, false
	}
}

// Family is the address-family preference used to pick one candidate
// address out of DNS resolution's results.
type Family int

const (
	FamilyV4 Family = iota
	FamilyV6
)

// Config is the immutable-after-construction measurement configuration.
// DownloadURL/UploadURL are both used by the Http dialect;
// TcpSpeedtest uses UploadURL as its single endpoint URL for both phases,
// since the CLI's second positional argument is the one consumed.
type Config struct {
	DownloadURL string
	UploadURL   string
	Family      Family
	Workers     int // 1..255
	Dialect     Dialect
}

// tunables holds the two fixed timing constants a load phase runs on: the
// sampling cadence and the total phase window. They default to their
// production values (500ms / 14s); env-var overrides exist only so a
// loopback test run can shrink them. A run against a real endpoint never
// sets them.
type tunables struct {
	sampleInterval time.Duration
	phaseWindow    time.Duration
}

var tuned = loadTunables()

func loadTunables() tunables {
	v := viper.New()
	v.SetEnvPrefix("bim")
	v.AutomaticEnv()
	v.SetDefault("sample_interval_ms", 500)
	v.SetDefault("phase_window_ms", 14_000)

	return tunables{
		sampleInterval: time.Duration(v.GetInt("sample_interval_ms")) * time.Millisecond,
		phaseWindow:    time.Duration(v.GetInt("phase_window_ms")) * time.Millisecond,
	}
}

const (
	// totalSamples is fixed at 28 so windowed arithmetic (indices 17, 27)
	// and the stall scan work on a fixed-shape series; Speed and Status
	// treat a shorter series as zero speed and 断流 respectively.
	totalSamples = 28
	windowStart  = 17
	windowEnd    = totalSamples - 1

	workerStagger  = 250 * time.Millisecond
	connectTimeout = 1 * time.Second
	connectRetries = 3
	ioTimeout      = 3 * time.Second
	pingProbes     = 6
	pingInterval   = 1 * time.Second

	httpChunkBytes    = 64 * 1024
	httpCycleBytes    = 50 * 1024 * 1024
	tcpCycleBytes     = 15 * 1024 * 1024 * 1024
	userAgent         = "bim/1.0"
	uploadPatternBase = "0123456789AaBbCcDdEeFfGgHhIiJjKkLlMmNnOoPpQqRrSsTtUuVvWwXxYyZz-="
)
