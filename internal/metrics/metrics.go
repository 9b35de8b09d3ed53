// Package metrics aggregates visitor, impression, referrer, client and
// timeline statistics from bot-filtered log entries.
package metrics

import (
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mssola/useragent"

	"github.com/hpowernl/weblytics/pkg/detector"
	"github.com/hpowernl/weblytics/pkg/models"
	"github.com/hpowernl/weblytics/pkg/numbers"
	"github.com/hpowernl/weblytics/pkg/visitor"
)

// DirectBucket is the referrer bucket for traffic without a usable referer.
const DirectBucket = "Direct"

// UnknownBucket is the fallback for missing geography fields.
const UnknownBucket = "Unknown"

// Aggregator accumulates per-entry statistics and produces the aggregate
// views of an analytics result. One aggregator serves one analytics run.
type Aggregator struct {
	mu           sync.Mutex
	total        int
	ips          map[string]bool
	fingerprints map[string]bool
	pathStats    map[string]*pathData
	referrers    map[string]int
	devices      map[string]int
	browsers     map[string]int
	countries    map[string]int
	cities       map[string]int
	byDate       map[string]int
	byHour       [24]int
	byWeekday    [7]int
	minTime      time.Time
	maxTime      time.Time
}

type pathData struct {
	views    int
	visitors map[string]bool
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		ips:          make(map[string]bool),
		fingerprints: make(map[string]bool),
		pathStats:    make(map[string]*pathData),
		referrers:    make(map[string]int),
		devices:      make(map[string]int),
		browsers:     make(map[string]int),
		countries:    make(map[string]int),
		cities:       make(map[string]int),
		byDate:       make(map[string]int),
	}
}

// Add records one legitimate log entry. Malformed timestamps or URLs degrade
// to defaults; a bad record never aborts the batch.
func (a *Aggregator) Add(entry models.LogEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++

	fp := visitor.Fingerprint(entry.IP, entry.UserAgent)
	a.fingerprints[fp] = true
	if entry.IP != "" {
		a.ips[entry.IP] = true
	}

	path := NormalizePath(entry.Path)
	if _, exists := a.pathStats[path]; !exists {
		a.pathStats[path] = &pathData{visitors: make(map[string]bool)}
	}
	pd := a.pathStats[path]
	pd.views++
	pd.visitors[fp] = true

	a.referrers[referrerHost(entry.Referer)]++
	a.devices[detector.DetectDeviceType(entry.UserAgent)]++
	a.browsers[browserName(entry.UserAgent)]++

	country := entry.Country
	if country == "" {
		country = UnknownBucket
	}
	a.countries[country]++
	city := entry.City
	if city == "" {
		city = UnknownBucket
	}
	a.cities[city]++

	if at, ok := models.ParseTimestamp(entry.Timestamp); ok {
		a.byDate[at.Format("2006-01-02")]++
		a.byHour[at.Hour()]++
		a.byWeekday[int(at.Weekday())]++

		if a.minTime.IsZero() || at.Before(a.minTime) {
			a.minTime = at
		}
		if at.After(a.maxTime) {
			a.maxTime = at
		}
	}
}

// Summary describes the aggregated views computed from the added entries.
type Summary struct {
	Visitors    models.VisitorStats
	Impressions models.ImpressionStats
	Pages       []models.PathStat
	Referrers   []models.CountStat
	Devices     []models.CountStat
	Browsers    []models.CountStat
	Geography   models.Geography
	Timeline    models.Timeline
	DateRange   *models.TimeRange
}

// topPages is the cutoff for the pages view of the result.
const topPages = 10

// Summarize computes the aggregate views.
func (a *Aggregator) Summarize() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{
		Visitors: models.VisitorStats{
			UniqueByIP:          len(a.ips),
			UniqueByFingerprint: len(a.fingerprints),
			Recommended:         len(a.fingerprints),
		},
		Impressions: models.ImpressionStats{
			Total:  a.total,
			ByPath: a.pathBreakdown(),
		},
		Referrers: sortedCounts(a.referrers),
		Devices:   sortedCounts(a.devices),
		Browsers:  sortedCounts(a.browsers),
		Geography: models.Geography{
			Countries: sortedCounts(a.countries),
			Cities:    sortedCounts(a.cities),
		},
		Timeline: models.Timeline{
			ByDate:    dateCounts(a.byDate),
			ByHour:    a.byHour,
			ByWeekday: a.byWeekday,
		},
	}

	if n := len(s.Impressions.ByPath); n > topPages {
		s.Pages = s.Impressions.ByPath[:topPages]
	} else {
		s.Pages = s.Impressions.ByPath
	}

	if !a.minTime.IsZero() {
		s.DateRange = &models.TimeRange{Start: a.minTime, End: a.maxTime}
	}

	return s
}

func (a *Aggregator) pathBreakdown() []models.PathStat {
	paths := make([]models.PathStat, 0, len(a.pathStats))
	for path, pd := range a.pathStats {
		paths = append(paths, models.PathStat{
			Path:            path,
			Views:           pd.views,
			UniqueVisitors:  len(pd.visitors),
			ViewsPerVisitor: numbers.Ratio(pd.views, len(pd.visitors)),
		})
	}

	sort.Slice(paths, func(i, j int) bool {
		if paths[i].Views != paths[j].Views {
			return paths[i].Views > paths[j].Views
		}
		return paths[i].Path < paths[j].Path
	})

	return paths
}

func sortedCounts(m map[string]int) []models.CountStat {
	out := make([]models.CountStat, 0, len(m))
	for name, count := range m {
		out = append(out, models.CountStat{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func dateCounts(m map[string]int) []models.CountStat {
	out := make([]models.CountStat, 0, len(m))
	for day, count := range m {
		out = append(out, models.CountStat{Name: day, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// NormalizePath strips scheme, host and query string from a raw path or URL,
// defaulting to "/" for empty or unparseable input.
func NormalizePath(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "/"
	}
	// Scheme-less inputs like "example.com/about" parse with the host inside
	// Path; re-parsing as protocol-relative separates the two.
	if u.Scheme == "" && u.Host == "" && !strings.HasPrefix(u.Path, "/") {
		if v, err := url.Parse("//" + raw); err == nil {
			u = v
		}
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// referrerHost extracts the hostname bucket for a referer URL.
func referrerHost(referer string) string {
	if referer == "" {
		return DirectBucket
	}
	u, err := url.Parse(referer)
	if err != nil || u.Hostname() == "" {
		return DirectBucket
	}
	return u.Hostname()
}

// browserName reports the browser family for a user agent, "Unknown" when
// the string carries no recognizable browser.
func browserName(ua string) string {
	if ua == "" {
		return UnknownBucket
	}
	parsed := useragent.New(ua)
	name, _ := parsed.Browser()
	if name == "" || strings.EqualFold(name, "unknown") {
		return UnknownBucket
	}
	return name
}
