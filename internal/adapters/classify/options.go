package classify

import (
	"time"

	"domainsift/internal/platform/config"
)

// FromConfig reads client options with the CLASSIFIER_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CLASSIFIER_")
	return Options{
		BaseURL:    c.MustString("URL"),
		APIKey:     c.MayString("API_KEY", ""),
		UserAgent:  c.MayString("USER_AGENT", ""),
		Timeout:    c.MayDuration("TIMEOUT", 45*time.Second),
		MaxRetries: c.MayInt("MAX_RETRIES", 2),
		RetryBase:  c.MayDuration("RETRY_BASE", 500*time.Millisecond),
	}
}
