package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		// HTTP listen port
		Port string `env:"SERVER_PORT" envDefault:"5260"`
	}

	// Database configuration
	Database struct {
		// Path to the SQLite database file
		Path string `env:"DATABASE_PATH" envDefault:"database/agency.db"`
	}

	// Matching configuration
	Matching struct {
		// Number of concurrent match workers
		WorkerCount int `env:"MATCH_WORKER_COUNT" envDefault:"2"`

		// Buffer size of the match job queue
		QueueSize int `env:"MATCH_QUEUE_SIZE" envDefault:"64"`

		// Maximum number of retries for failed match jobs
		MaxRetries int `env:"MATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"MATCH_RETRY_DELAY" envDefault:"5"`
	}

	// Geocoding configuration
	Geocoding struct {
		// Directory for the on-disk geocode cache; empty uses the temp dir
		CacheDir string `env:"GEOCODE_CACHE_DIR"`
	}

	// Notification configuration
	Notify struct {
		Enabled  bool   `env:"NOTIFY_ENABLED" envDefault:"false"`
		BotToken string `env:"NOTIFY_BOT_TOKEN"`
		ChatID   string `env:"NOTIFY_CHAT_ID"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
