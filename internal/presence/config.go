package presence

import "time"

// Config holds presence tracking configuration with environment variable support.
type Config struct {
	// Namespace isolates marker keys per project; keys take the form
	// online:<namespace>:<sessionID>.
	Namespace string `env:"PRESENCE_NAMESPACE" envDefault:"pixeltool"`

	// TTL is the marker expiry window. A session counts as online until
	// TTL elapses without a heartbeat.
	TTL time.Duration `env:"PRESENCE_TTL" envDefault:"120s"`

	// CacheWindow bounds read amplification: counts computed within the
	// window are served from process memory without a store scan.
	CacheWindow time.Duration `env:"PRESENCE_CACHE_WINDOW" envDefault:"2s"`

	// ScanBatchSize is the COUNT hint for each SCAN page.
	ScanBatchSize int64 `env:"PRESENCE_SCAN_BATCH_SIZE" envDefault:"1000"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		Namespace:     "pixeltool",
		TTL:           120 * time.Second,
		CacheWindow:   2 * time.Second,
		ScanBatchSize: 1000,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Namespace == "" {
		c.Namespace = def.Namespace
	}
	if c.TTL <= 0 {
		c.TTL = def.TTL
	}
	if c.CacheWindow <= 0 {
		c.CacheWindow = def.CacheWindow
	}
	if c.ScanBatchSize <= 0 {
		c.ScanBatchSize = def.ScanBatchSize
	}
	return c
}
