package module

import (
	"time"

	"domainsift/internal/platform/config"
)

// Options controls the batch processor
type Options struct {
	BatchSize   int
	LeaseTTL    time.Duration
	Parallelism int
}

// FromConfig reads with CORE_BATCH_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_BATCH_")
	return Options{
		BatchSize:   c.MayInt("SIZE", 10),
		LeaseTTL:    c.MayDuration("LEASE_TTL", 2*time.Minute),
		Parallelism: c.MayInt("PARALLELISM", 1),
	}
}
