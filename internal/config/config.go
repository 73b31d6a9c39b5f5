package config

import "time"

// Config is the runtime configuration. Every field has a default, can be set
// in config.yml and overridden by a GOMPA_* environment variable.
type Config struct {
	DataDir    string        `yaml:"data_dir"    env:"GOMPA_DATA_DIR"`
	StaleAfter time.Duration `yaml:"stale_after" env:"GOMPA_STALE_AFTER"`

	// Simulated acquisition delay of each populate step and of downloads.
	StepLatency     time.Duration `yaml:"step_latency"     env:"GOMPA_STEP_LATENCY"`
	DownloadLatency time.Duration `yaml:"download_latency" env:"GOMPA_DOWNLOAD_LATENCY"`

	// When set, downloads are fetched over HTTP from DownloadBaseURL/<label>.
	DownloadBaseURL  string `yaml:"download_base_url"  env:"GOMPA_DOWNLOAD_BASE_URL"`
	MaxDownloadBytes int64  `yaml:"max_download_bytes" env:"GOMPA_MAX_DOWNLOAD_BYTES"`

	Reachability Reachability `yaml:"reachability" envPrefix:"GOMPA_REACHABILITY_"`
	Server       Server       `yaml:"server"       envPrefix:"GOMPA_SERVER_"`
}

type Reachability struct {
	ProbeURL string        `yaml:"probe_url" env:"PROBE_URL"`
	Interval time.Duration `yaml:"interval"  env:"INTERVAL"`
	Timeout  time.Duration `yaml:"timeout"   env:"TIMEOUT"`
	// Disabled skips probing; the manager then assumes it is online.
	Disabled bool `yaml:"disabled" env:"DISABLED"`
}

type Server struct {
	ListenHost     string        `yaml:"listen_host"     env:"LISTEN_HOST"`
	ListenPort     int           `yaml:"listen_port"     env:"LISTEN_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout"    env:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout"   env:"WRITE_TIMEOUT"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"  env:"MAX_BODY_BYTES"`
	SearchDelay    time.Duration `yaml:"search_delay"    env:"SEARCH_DELAY"`
	TranslateDelay time.Duration `yaml:"translate_delay" env:"TRANSLATE_DELAY"`
}

func Default() Config {
	return Config{
		DataDir:          "~/.local/state/gompa",
		StaleAfter:       24 * time.Hour,
		StepLatency:      500 * time.Millisecond,
		DownloadLatency:  time.Second,
		MaxDownloadBytes: 50 << 20,
		Reachability: Reachability{
			ProbeURL: "https://clients3.google.com/generate_204",
			Interval: 30 * time.Second,
			Timeout:  5 * time.Second,
		},
		Server: Server{
			ListenHost:     "127.0.0.1",
			ListenPort:     8080,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: 20 * time.Second,
			MaxBodyBytes:   64 << 10,
			SearchDelay:    300 * time.Millisecond,
			TranslateDelay: 200 * time.Millisecond,
		},
	}
}
