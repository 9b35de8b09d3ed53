package models

import "time"

// LogEntry represents a single access-log record as decoded from the input
// file. Timestamp stays a string at this boundary; consumers parse it with
// ParseTimestamp and degrade gracefully when it is malformed.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Path      string `json:"path,omitempty"`
	Referer   string `json:"referer,omitempty"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
}

// Detection methods reported on a Verdict.
const (
	MethodUserAgent  = "user-agent"
	MethodIPRange    = "ip-range"
	MethodBehavioral = "behavioral"
)

// Verdict is the outcome of classifying one request.
type Verdict struct {
	IsBot      bool     `json:"isBot"`
	Confidence int      `json:"confidence"`
	Method     string   `json:"method,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`
}

// BehaviorSummary carries behavioral signals for a visitor, supplied by an
// upstream collector when available. The pure log-filtering path never has one.
type BehaviorSummary struct {
	RequestsPerMinute float64       `json:"requestsPerMinute"`
	Duration          time.Duration `json:"duration"`
	HasJavaScript     bool          `json:"hasJavaScript"`
	AccessPattern     string        `json:"accessPattern,omitempty"`
	PerfectTiming     bool          `json:"perfectTiming"`
	ErrorRate         float64       `json:"errorRate"`
	RequestCount      int           `json:"requestCount"`
	AcceptLanguage    string        `json:"acceptLanguage,omitempty"`
	Referer           string        `json:"referer,omitempty"`
}

// BotEntry is a log entry annotated with the verdict that flagged it.
type BotEntry struct {
	LogEntry
	Verdict Verdict `json:"verdict"`
}

// FilterStats summarizes one partitioning pass.
type FilterStats struct {
	Total            int            `json:"total"`
	Legitimate       int            `json:"legitimate"`
	Bots             int            `json:"bots"`
	BotPercentage    float64        `json:"botPercentage"`
	DetectionMethods map[string]int `json:"detectionMethods"`
}

// Session is a contiguous run of one visitor's page views with no gap above
// the session timeout.
type Session struct {
	Visitor   string        `json:"visitor"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Duration  time.Duration `json:"duration"`
	PageCount int           `json:"pageCount"`
}

// SessionStats aggregates across all reconstructed sessions.
type SessionStats struct {
	TotalSessions      int     `json:"totalSessions"`
	AvgDurationMs      float64 `json:"avgDurationMs"`
	AvgPagesPerSession float64 `json:"avgPagesPerSession"`
	BounceRate         float64 `json:"bounceRate"`
}

// SessionReport contains reconstructed sessions grouped by visitor.
type SessionReport struct {
	Sessions  []Session            `json:"sessions"`
	ByVisitor map[string][]Session `json:"byVisitor"`
	Stats     SessionStats         `json:"stats"`
}

// VisitorStats counts unique visitors. Recommended mirrors the
// fingerprint-based count: raw IPs over-count behind dynamic addressing and
// under-count behind NAT.
type VisitorStats struct {
	UniqueByIP          int `json:"uniqueByIp"`
	UniqueByFingerprint int `json:"uniqueByFingerprint"`
	Recommended         int `json:"recommended"`
}

// PathStat describes traffic on a single normalized path.
type PathStat struct {
	Path            string  `json:"path"`
	Views           int     `json:"views"`
	UniqueVisitors  int     `json:"uniqueVisitors"`
	ViewsPerVisitor float64 `json:"viewsPerVisitor"`
}

// CountStat is a generic name/count pair used by top-N breakdowns.
type CountStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ImpressionStats counts page views.
type ImpressionStats struct {
	Total  int        `json:"total"`
	ByPath []PathStat `json:"byPath"`
}

// Timeline breaks traffic down by calendar day, hour of day and weekday.
// ByWeekday is indexed Sunday through Saturday.
type Timeline struct {
	ByDate    []CountStat `json:"byDate"`
	ByHour    [24]int     `json:"byHour"`
	ByWeekday [7]int      `json:"byWeekday"`
}

// Geography tallies country/city fields already present on the input.
type Geography struct {
	Countries []CountStat `json:"countries"`
	Cities    []CountStat `json:"cities"`
}

// TimeRange represents the span covered by the analyzed entries.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overview contains the headline numbers of an analytics run.
type Overview struct {
	TotalRequests int        `json:"totalRequests"`
	TotalBots     int        `json:"totalBots"`
	BotPercentage float64    `json:"botPercentage"`
	DateRange     *TimeRange `json:"dateRange,omitempty"`
}

// AnalyticsResult is the complete output of one ProcessLogs run. All
// sub-aggregates are computed once and hold no references back to the input.
type AnalyticsResult struct {
	Overview         Overview        `json:"overview"`
	Visitors         VisitorStats    `json:"visitors"`
	Impressions      ImpressionStats `json:"impressions"`
	Sessions         SessionStats    `json:"sessions"`
	Pages            []PathStat      `json:"pages"`
	Referrers        []CountStat     `json:"referrers"`
	Devices          []CountStat     `json:"devices"`
	Browsers         []CountStat     `json:"browsers"`
	Geography        Geography       `json:"geography"`
	Timeline         Timeline        `json:"timeline"`
	DetectionMethods map[string]int  `json:"detectionMethods"`
}
