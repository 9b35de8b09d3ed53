package config

import "time"

// SessionTimeout is the maximum gap between two events of the same visitor
// before a new session starts.
const SessionTimeout = 30 * time.Minute

// BehaviorThresholds holds the limits used by behavioral bot scoring.
type BehaviorThresholds struct {
	RapidRequestsPerMinute float64
	ShortSessionDuration   time.Duration
}

// ScoreWeights holds the per-indicator penalties added during behavioral
// scoring. A total at or above BotScore classifies the request as a bot.
type ScoreWeights struct {
	RapidRequests   int
	ShortSession    int
	NoJavaScript    int
	SequentialSteps int
	ZeroErrorRate   int
	NoLanguage      int
	NoReferer       int
	BotScore        int
}

// Catalog bundles the bot signature data used by the classifier. It is a
// plain value handed to the classifier constructor; production code uses
// Default() and never mutates a catalog after that, while tests may build
// their own.
type Catalog struct {
	UserAgentSignatures []string
	UserAgentPatterns   []string
	IPPrefixes          []string
	Thresholds          BehaviorThresholds
	Weights             ScoreWeights
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		UserAgentSignatures: defaultSignatures(),
		UserAgentPatterns:   defaultPatterns(),
		IPPrefixes:          defaultIPPrefixes(),
		Thresholds: BehaviorThresholds{
			RapidRequestsPerMinute: 100,
			ShortSessionDuration:   2 * time.Second,
		},
		Weights: ScoreWeights{
			RapidRequests:   30,
			ShortSession:    20,
			NoJavaScript:    25,
			SequentialSteps: 25,
			ZeroErrorRate:   15,
			NoLanguage:      10,
			NoReferer:       10,
			BotScore:        50,
		},
	}
}

func defaultSignatures() []string {
	return []string{
		// Search engine crawlers
		"googlebot", "bingbot", "slurp", "duckduckbot", "baiduspider",
		"yandexbot", "applebot", "sogou", "exabot", "seznambot",

		// Social media bots
		"facebookexternalhit", "twitterbot", "linkedinbot", "pinterestbot",
		"whatsapp", "telegrambot", "slackbot", "discordbot",

		// SEO and marketing tools
		"ahrefsbot", "semrushbot", "mj12bot", "dotbot", "rogerbot",
		"screaming frog", "seokicks", "blexbot", "serpstatbot",

		// Archive and research bots
		"ia_archiver", "archive.org_bot", "wayback", "ccbot", "commoncrawl",

		// AI and LLM bots
		"gptbot", "chatgpt", "openai", "claudebot", "anthropic",
		"perplexitybot", "bytespider", "amazonbot", "cohere-ai",

		// Generic bot terms
		"bot", "crawler", "spider", "scraper", "crawl",

		// Monitoring services
		"uptimerobot", "pingdom", "statuscake", "site24x7", "newrelic",
		"datadog", "nagios", "zabbix",

		// Security scanners
		"nessus", "qualys", "acunetix", "nikto", "sqlmap", "nmap",
		"masscan", "zgrab",

		// CDN and infrastructure bots
		"cloudflare", "fastly", "akamai",

		// Headless browsers and automation
		"headlesschrome", "phantomjs", "selenium", "puppeteer",
		"playwright", "electron",

		// HTTP client libraries
		"curl", "wget", "python-requests", "python-urllib", "go-http-client",
		"java/", "okhttp", "apache-httpclient", "libwww-perl", "ruby",
		"node-fetch", "axios", "postman", "insomnia", "httpie",
	}
}

func defaultPatterns() []string {
	return []string{
		`(?i)^mozilla/[0-9.]+$`,
		`(?i)\bheadless\b`,
		`(?i)(fetch|monitor|check|probe|scan)(er|ing)?[-_ ]?(bot|agent)?/[0-9]`,
	}
}

func defaultIPPrefixes() []string {
	return []string{
		// Googlebot
		"66.249.",
		// Bingbot
		"157.55.", "207.46.", "40.77.",
		// Baidu
		"180.76.",
		// Yandex
		"5.255.", "77.88.",
		// Common crawl / AWS crawler blocks
		"54.36.", "46.229.",
	}
}
