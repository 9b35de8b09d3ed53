package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpowernl/weblytics/pkg/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func entryAt(ip string, at time.Time) models.LogEntry {
	return models.LogEntry{
		Timestamp: at.Format(time.RFC3339),
		IP:        ip,
		UserAgent: chromeUA,
		Path:      "/",
	}
}

func TestReconstructSessionBoundary(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	// Events at t=0, t=10min, t=45min: the 35min gap exceeds the 30min
	// timeout and splits the stream into two sessions.
	report := r.Reconstruct([]models.LogEntry{
		entryAt("192.168.1.1", base),
		entryAt("192.168.1.1", base.Add(10*time.Minute)),
		entryAt("192.168.1.1", base.Add(45*time.Minute)),
	})

	require.Len(t, report.Sessions, 2)

	first := report.Sessions[0]
	assert.Equal(t, base, first.Start)
	assert.Equal(t, base.Add(10*time.Minute), first.End)
	assert.Equal(t, 10*time.Minute, first.Duration)
	assert.Equal(t, 2, first.PageCount)

	second := report.Sessions[1]
	assert.Equal(t, base.Add(45*time.Minute), second.Start)
	assert.Equal(t, time.Duration(0), second.Duration)
	assert.Equal(t, 1, second.PageCount)
}

func TestReconstructExactTimeoutGapDoesNotSplit(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	report := r.Reconstruct([]models.LogEntry{
		entryAt("192.168.1.1", base),
		entryAt("192.168.1.1", base.Add(30*time.Minute)),
	})

	require.Len(t, report.Sessions, 1)
	assert.Equal(t, 2, report.Sessions[0].PageCount)
}

func TestReconstructZeroGapNeverSplits(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	report := r.Reconstruct([]models.LogEntry{
		entryAt("192.168.1.1", base),
		entryAt("192.168.1.1", base),
	})

	require.Len(t, report.Sessions, 1)
	assert.Equal(t, 2, report.Sessions[0].PageCount)
	assert.Equal(t, time.Duration(0), report.Sessions[0].Duration)
}

func TestReconstructSingleEventIsBounce(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	report := r.Reconstruct([]models.LogEntry{entryAt("192.168.1.1", base)})

	require.Len(t, report.Sessions, 1)
	assert.Equal(t, 1, report.Sessions[0].PageCount)
	assert.Equal(t, time.Duration(0), report.Sessions[0].Duration)
	assert.Equal(t, 100.0, report.Stats.BounceRate)
}

func TestReconstructBounceRate(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	// Three sessions with page counts 1, 1 and 3.
	entries := []models.LogEntry{
		entryAt("10.0.0.1", base),
		entryAt("10.0.0.2", base),
		entryAt("10.0.0.3", base),
		entryAt("10.0.0.3", base.Add(time.Minute)),
		entryAt("10.0.0.3", base.Add(2*time.Minute)),
	}

	report := r.Reconstruct(entries)

	require.Len(t, report.Sessions, 3)
	assert.Equal(t, 66.67, report.Stats.BounceRate)
	assert.Equal(t, 3, report.Stats.TotalSessions)
}

func TestReconstructSortsUnorderedEvents(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	report := r.Reconstruct([]models.LogEntry{
		entryAt("192.168.1.1", base.Add(5*time.Minute)),
		entryAt("192.168.1.1", base),
		entryAt("192.168.1.1", base.Add(2*time.Minute)),
	})

	require.Len(t, report.Sessions, 1)
	sess := report.Sessions[0]
	assert.Equal(t, base, sess.Start)
	assert.Equal(t, base.Add(5*time.Minute), sess.End)
	assert.Equal(t, 3, sess.PageCount)
}

func TestReconstructGroupsByFingerprint(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	report := r.Reconstruct([]models.LogEntry{
		entryAt("10.0.0.1", base),
		entryAt("10.0.0.2", base),
	})

	assert.Len(t, report.ByVisitor, 2)
	assert.Len(t, report.Sessions, 2)
}

func TestReconstructSkipsMalformedTimestamps(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	report := r.Reconstruct([]models.LogEntry{
		entryAt("192.168.1.1", base),
		{Timestamp: "not-a-time", IP: "192.168.1.1", UserAgent: chromeUA},
	})

	require.Len(t, report.Sessions, 1)
	assert.Equal(t, 1, report.Sessions[0].PageCount)
}

func TestReconstructEmptyInput(t *testing.T) {
	r := New()

	report := r.Reconstruct(nil)

	assert.Empty(t, report.Sessions)
	assert.Equal(t, models.SessionStats{}, report.Stats)
}

func TestReconstructAverages(t *testing.T) {
	r := New()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	// One 4-minute two-page session and one zero-duration bounce.
	report := r.Reconstruct([]models.LogEntry{
		entryAt("10.0.0.1", base),
		entryAt("10.0.0.1", base.Add(4*time.Minute)),
		entryAt("10.0.0.2", base),
	})

	assert.Equal(t, 120000.0, report.Stats.AvgDurationMs)
	assert.Equal(t, 1.5, report.Stats.AvgPagesPerSession)
	assert.Equal(t, 50.0, report.Stats.BounceRate)
}
