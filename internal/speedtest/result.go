package speedtest

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Status string vocabulary: stable UTF-8 tokens, never translated or
// varied by locale.
const (
	StatusSteady     = "正常"
	StatusStalled    = "断流"
	StatusFailed     = "失败"
	StatusNotStarted = "取消"
)

// PhaseResult is one load phase's outcome: Mbit/s and a status string.
type PhaseResult struct {
	Mbps   float64
	Status string
}

// Result is the overall six-field outcome of one run.
type Result struct {
	UploadMbps     float64
	UploadStatus   string
	DownloadMbps   float64
	DownloadStatus string
	LatencyMs      float64
	JitterMs       float64
}

// NewCancelledResult is the default result before any phase has run.
// Every status field reads 取消 ("not started").
func NewCancelledResult() Result {
	return Result{UploadStatus: StatusNotStarted, DownloadStatus: StatusNotStarted}
}

// NewFailedResult is emitted when configuration/resolution fails fatally.
// Every numeric field is zero and every status reads 失败 ("failed").
func NewFailedResult() Result {
	return Result{UploadStatus: StatusFailed, DownloadStatus: StatusFailed}
}

// justifyRight pads s with leading spaces to at least width display
// columns (column-width left-padding, as used for every field of the
// result line). Width is measured with East-Asian double-width rules via
// go-runewidth, so "正常" (display width 4) pads correctly instead of
// being under-padded by a rune count.
func justifyRight(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	return strings.Repeat(" ", n) + s
}

// justifyLeft pads s with trailing spaces to at least width display
// columns. Used only by the -n flag, which right-pads its argument
// instead of left-padding it.
func justifyLeft(s string, width int) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

// Text renders the six-field, width-justified CSV line:
// upload(9) upload_status(5) download(9) download_status(5) latency(7) jitter(7).
func (r Result) Text() string {
	fields := []string{
		justifyRight(fmt.Sprintf("%.1f", r.UploadMbps), 9),
		justifyRight(r.UploadStatus, 5),
		justifyRight(fmt.Sprintf("%.1f", r.DownloadMbps), 9),
		justifyRight(r.DownloadStatus, 5),
		justifyRight(fmt.Sprintf("%.1f", r.LatencyMs), 7),
		justifyRight(fmt.Sprintf("%.1f", r.JitterMs), 7),
	}
	return strings.Join(fields, ",")
}

// JustifyName implements the -n flag: print the given NAME right-padded to
// 12 columns.
func JustifyName(name string) string {
	return justifyLeft(name, 12)
}
