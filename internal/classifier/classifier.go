// Package classifier decides whether a request represents automated traffic.
//
// Checks run in a fixed precedence order: user-agent signatures, then known
// bot IP ranges, then behavioral scoring. The first check that produces a
// verdict wins and later checks are not evaluated. Identity signals are cheap
// and high-precision; behavioral scoring only catches traffic that evades
// signature matching.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hpowernl/weblytics/internal/config"
	"github.com/hpowernl/weblytics/pkg/models"
)

// Confidence constants per detection method.
const (
	confidenceSignature = 95
	confidenceMissingUA = 90
	confidenceIPRange   = 85
)

// Request carries the fields the classifier looks at.
type Request struct {
	UserAgent string
	IP        string
	Session   *models.BehaviorSummary
}

// checker inspects a request and returns a verdict, or nil to pass the
// request on to the next checker.
type checker func(req Request) *models.Verdict

// Classifier classifies requests against a pattern catalog. Safe for
// concurrent use: all state is immutable after New.
type Classifier struct {
	catalog  config.Catalog
	patterns []*regexp.Regexp
	checks   []checker
}

// New creates a classifier for the given catalog. Invalid regex patterns in
// the catalog are skipped.
func New(catalog config.Catalog) *Classifier {
	c := &Classifier{catalog: catalog}
	for _, p := range catalog.UserAgentPatterns {
		if re, err := regexp.Compile(p); err == nil {
			c.patterns = append(c.patterns, re)
		}
	}
	c.checks = []checker{c.checkUserAgent, c.checkIPRange, c.checkBehavior}
	return c
}

// NewDefault creates a classifier with the built-in catalog.
func NewDefault() *Classifier {
	return New(config.Default())
}

// Classify runs the checkers in precedence order and returns the first
// verdict. A request that triggers nothing is not a bot, confidence 0.
func (c *Classifier) Classify(req Request) models.Verdict {
	for _, check := range c.checks {
		if v := check(req); v != nil {
			return *v
		}
	}
	return models.Verdict{}
}

func (c *Classifier) checkUserAgent(req Request) *models.Verdict {
	if req.UserAgent == "" {
		return &models.Verdict{
			IsBot:      true,
			Confidence: confidenceMissingUA,
			Method:     models.MethodUserAgent,
			Reasons:    []string{"missing user agent"},
		}
	}

	ua := strings.ToLower(req.UserAgent)
	for _, sig := range c.catalog.UserAgentSignatures {
		if strings.Contains(ua, sig) {
			return &models.Verdict{
				IsBot:      true,
				Confidence: confidenceSignature,
				Method:     models.MethodUserAgent,
				Reasons:    []string{fmt.Sprintf("user agent matches signature %q", sig)},
			}
		}
	}
	for _, re := range c.patterns {
		if re.MatchString(req.UserAgent) {
			return &models.Verdict{
				IsBot:      true,
				Confidence: confidenceSignature,
				Method:     models.MethodUserAgent,
				Reasons:    []string{fmt.Sprintf("user agent matches pattern %q", re.String())},
			}
		}
	}
	return nil
}

func (c *Classifier) checkIPRange(req Request) *models.Verdict {
	if req.IP == "" {
		return nil
	}
	for _, prefix := range c.catalog.IPPrefixes {
		if strings.HasPrefix(req.IP, prefix) {
			return &models.Verdict{
				IsBot:      true,
				Confidence: confidenceIPRange,
				Method:     models.MethodIPRange,
				Reasons:    []string{fmt.Sprintf("ip in known bot range %q", prefix)},
			}
		}
	}
	return nil
}

func (c *Classifier) checkBehavior(req Request) *models.Verdict {
	s := req.Session
	if s == nil {
		return nil
	}

	t := c.catalog.Thresholds
	w := c.catalog.Weights

	var confidence int
	var reasons []string

	if s.RequestsPerMinute > t.RapidRequestsPerMinute {
		confidence += w.RapidRequests
		reasons = append(reasons, fmt.Sprintf("excessive request rate: %.1f/min", s.RequestsPerMinute))
	}
	if s.Duration < t.ShortSessionDuration {
		confidence += w.ShortSession
		reasons = append(reasons, fmt.Sprintf("suspiciously short session: %v", s.Duration))
	}
	if !s.HasJavaScript {
		confidence += w.NoJavaScript
		reasons = append(reasons, "no javascript execution")
	}
	if s.AccessPattern == "sequential" && s.PerfectTiming {
		confidence += w.SequentialSteps
		reasons = append(reasons, "sequential access with perfect timing")
	}
	if s.ErrorRate == 0 && s.RequestCount > 50 {
		confidence += w.ZeroErrorRate
		reasons = append(reasons, "zero error rate over many requests")
	}
	if s.AcceptLanguage == "" {
		confidence += w.NoLanguage
		reasons = append(reasons, "missing accept-language header")
	}
	if s.Referer == "" && s.RequestCount > 5 {
		confidence += w.NoReferer
		reasons = append(reasons, "missing referer header")
	}

	if confidence < w.BotScore {
		return nil
	}
	// The weights sum past 100; the reported confidence stays on the 0-100
	// scale while the raw sum decides the threshold above.
	if confidence > 100 {
		confidence = 100
	}
	return &models.Verdict{
		IsBot:      true,
		Confidence: confidence,
		Method:     models.MethodBehavioral,
		Reasons:    reasons,
	}
}
