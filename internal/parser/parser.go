package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpowernl/weblytics/pkg/models"
)

// LogParser normalizes raw decoded log objects into LogEntry values. Field
// names vary across exporters, so each entry field accepts a list of aliases.
type LogParser struct{}

// NewLogParser creates a new log parser instance.
func NewLogParser() *LogParser {
	return &LogParser{}
}

// ParseLine parses a single JSON log line into a normalized entry.
func (p *LogParser) ParseLine(line string) (*models.LogEntry, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty line")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	entry := p.Normalize(raw)
	return &entry, nil
}

// Normalize maps a raw log object to a standard entry.
func (p *LogParser) Normalize(raw map[string]interface{}) models.LogEntry {
	entry := models.LogEntry{
		Timestamp: stringField(raw, "timestamp", "time", "@timestamp"),
		IP:        stringField(raw, "ip", "remote_addr", "client_ip"),
		UserAgent: stringField(raw, "userAgent", "user_agent", "ua"),
		Path:      stringField(raw, "path", "url", "uri"),
		Referer:   stringField(raw, "referer", "referrer", "http_referer"),
		Country:   stringField(raw, "country"),
		City:      stringField(raw, "city"),
	}

	// Nginx-style "GET /about HTTP/1.1" request strings carry the path.
	if entry.Path == "" {
		if request := stringField(raw, "request"); request != "" {
			parts := strings.Split(request, " ")
			if len(parts) >= 2 {
				entry.Path = parts[1]
			}
		}
	}

	return entry
}

// stringField returns the first alias present in raw as a string, with "-"
// placeholders treated as absent.
func stringField(raw map[string]interface{}, aliases ...string) string {
	for _, key := range aliases {
		if v, ok := raw[key]; ok {
			switch s := v.(type) {
			case string:
				if s != "" && s != "-" {
					return s
				}
			case float64:
				return fmt.Sprintf("%v", s)
			}
		}
	}
	return ""
}
