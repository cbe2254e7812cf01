package speedtest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJustifyRightPadsByDisplayWidth(t *testing.T) {
	// "正常" is two runes but four display columns wide (East Asian double
	// width); plain rune-count padding would under-pad it by two spaces.
	got := justifyRight(StatusSteady, 5)
	assert.Equal(t, " "+StatusSteady, got)
}

func TestJustifyRightNoPaddingWhenAlreadyWide(t *testing.T) {
	got := justifyRight("123456789", 9)
	assert.Equal(t, "123456789", got)
}

func TestJustifyLeftPadsRight(t *testing.T) {
	got := JustifyName("eth0")
	assert.Equal(t, "eth0", strings.TrimRight(got, " "))
	assert.Equal(t, 12, len(got))
}

func TestResultTextFieldCountAndOrder(t *testing.T) {
	r := Result{
		UploadMbps:     123.45,
		UploadStatus:   StatusSteady,
		DownloadMbps:   678.9,
		DownloadStatus: StatusStalled,
		LatencyMs:      12.3,
		JitterMs:       0.5,
	}
	fields := strings.Split(r.Text(), ",")
	assert.Len(t, fields, 6)
	assert.Contains(t, fields[0], "123.5")
	assert.Contains(t, fields[1], StatusSteady)
	assert.Contains(t, fields[2], "678.9")
	assert.Contains(t, fields[3], StatusStalled)
	assert.Contains(t, fields[4], "12.3")
	assert.Contains(t, fields[5], "0.5")
}

func TestNewCancelledResultStatuses(t *testing.T) {
	r := NewCancelledResult()
	assert.Equal(t, StatusNotStarted, r.UploadStatus)
	assert.Equal(t, StatusNotStarted, r.DownloadStatus)
	assert.Equal(t, float64(0), r.UploadMbps)
}

func TestNewFailedResultStatuses(t *testing.T) {
	r := NewFailedResult()
	assert.Equal(t, StatusFailed, r.UploadStatus)
	assert.Equal(t, StatusFailed, r.DownloadStatus)
}
