package model

import "time"

// Config holds the complete yojana configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Translate   TranslateConfig   `yaml:"translate" mapstructure:"translate"`
	Languages   []Language        `yaml:"languages" mapstructure:"languages"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Serve       ServeConfig       `yaml:"serve" mapstructure:"serve"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls the outbound HTTP client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// FetchConfig controls retrieval of listing pages and documents
type FetchConfig struct {
	BaseDelay         time.Duration `yaml:"base_delay" mapstructure:"base_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	ProbeLinks        bool          `yaml:"probe_links" mapstructure:"probe_links"`
	PDFDir            string        `yaml:"pdf_dir" mapstructure:"pdf_dir"`

	// DomainRates overrides RequestsPerSecond per host
	DomainRates map[string]float64 `yaml:"domain_rates,omitempty" mapstructure:"domain_rates"`
}

// ExtractConfig controls field extraction and record assembly
type ExtractConfig struct {
	MaxWords         int    `yaml:"max_words" mapstructure:"max_words"`
	DescriptionLimit int    `yaml:"description_sentences" mapstructure:"description_sentences"`
	SourceBaseURL    string `yaml:"source_base_url" mapstructure:"source_base_url"`
}

// TranslateConfig selects and tunes translation backends
type TranslateConfig struct {
	MinInterval    time.Duration `yaml:"min_interval" mapstructure:"min_interval"`
	BaseDelay      time.Duration `yaml:"base_delay" mapstructure:"base_delay"`
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	General        string        `yaml:"general" mapstructure:"general"` // google, openai, anthropic, ollama
	Model          string        `yaml:"model,omitempty" mapstructure:"model"`
	APIKey         string        `yaml:"-" mapstructure:"api_key"`
	BaseURL        string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout        int           `yaml:"timeout" mapstructure:"timeout"` // seconds
	IndicURL       string        `yaml:"indic_url,omitempty" mapstructure:"indic_url"`
	IndicAPIKey    string        `yaml:"-" mapstructure:"indic_api_key"`
	IndicLanguages []string      `yaml:"indic_languages" mapstructure:"indic_languages"`
	SourceLanguage string        `yaml:"source_language" mapstructure:"source_language"`
}

// Language pairs a target language code with the name used in output file names
type Language struct {
	Code string `yaml:"code" mapstructure:"code"`
	Name string `yaml:"name" mapstructure:"name"`
}

// CacheConfig controls the translation memo
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls document-level parallelism
type ConcurrencyConfig struct {
	Workers      int `yaml:"workers" mapstructure:"workers"`
	ProbeWorkers int `yaml:"probe_workers" mapstructure:"probe_workers"`
}

// OutputConfig controls where corpora are written
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ServeConfig controls the read-only query API
type ServeConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Yojana/0.1 (+https://github.com/ppiankov/yojana)",
			MaxBodyBytes: 50 << 20,
		},
		Fetch: FetchConfig{
			BaseDelay:         time.Second,
			RequestsPerSecond: 1,
			BurstSize:         1,
			RespectRobots:     true,
			ProbeLinks:        true,
			PDFDir:            "data/raw_pdfs",
		},
		Extract: ExtractConfig{
			MaxWords:         100,
			DescriptionLimit: 3,
			SourceBaseURL:    "https://agriwelfare.gov.in/en/Major/",
		},
		Translate: TranslateConfig{
			MinInterval:    time.Second,
			BaseDelay:      time.Second,
			MaxAttempts:    3,
			General:        "google",
			Timeout:        30,
			IndicLanguages: []string{"hi", "mr"},
			SourceLanguage: "en",
		},
		Languages: []Language{
			{Code: "hi", Name: "hindi"},
			{Code: "mr", Name: "marathi"},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".yojana-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:      4,
			ProbeWorkers: 8,
		},
		Output: OutputConfig{
			Dir: "data/processed",
		},
		Serve: ServeConfig{
			Addr:           ":8000",
			RequestTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LanguageName returns the file-name language for a code
func (c *Config) LanguageName(code string) (string, bool) {
	for _, l := range c.Languages {
		if l.Code == code {
			return l.Name, true
		}
	}
	return "", false
}
