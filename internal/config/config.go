package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

const (
	// AppName is used for XDG directory names and the config file name.
	AppName = "pydocs-parser"

	DefaultDocsURL   = "https://docs.python.org/3/"
	DefaultPEPsURL   = "https://peps.python.org/"
	DefaultUserAgent = "pydocs-parser/1.0 (github.com/pfrederiksen/pydocs-parser)"
	DefaultTimeout   = 30 * time.Second

	// DefaultCacheTTL of zero keeps cached responses until --clear-cache.
	DefaultCacheTTL = 0

	DefaultLogFormat     = "text"
	DefaultLogMaxSizeMB  = 1
	DefaultLogMaxBackups = 5

	// Directory names under BaseDir.
	ResultsDirName   = "results"
	DownloadsDirName = "downloads"
	LogsDirName      = "logs"
	LogFileName      = "parser.log"
)

// Config holds all runtime settings.
type Config struct {
	// BaseDir anchors results/, downloads/ and logs/.
	BaseDir string `yaml:"base_dir"`

	// CacheDir holds the SQLite response cache.
	CacheDir string `yaml:"cache_dir"`

	// CacheTTL expires cached responses; 0 never expires.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	DocsURL   string        `yaml:"docs_url"`
	PEPsURL   string        `yaml:"peps_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`

	LogFormat     string `yaml:"log_format"`
	LogMaxSizeMB  int    `yaml:"log_max_size_mb"`
	LogMaxBackups int    `yaml:"log_max_backups"`

	// Verbose lowers the log level to DEBUG. Set from the CLI only.
	Verbose bool `yaml:"-"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		BaseDir:       XDGDataDir(),
		CacheDir:      XDGCacheDir(),
		CacheTTL:      DefaultCacheTTL,
		DocsURL:       DefaultDocsURL,
		PEPsURL:       DefaultPEPsURL,
		UserAgent:     DefaultUserAgent,
		Timeout:       DefaultTimeout,
		LogFormat:     DefaultLogFormat,
		LogMaxSizeMB:  DefaultLogMaxSizeMB,
		LogMaxBackups: DefaultLogMaxBackups,
	}
}

// XDGDataDir returns $XDG_DATA_HOME/pydocs-parser.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns $XDG_CACHE_HOME/pydocs-parser.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// XDGConfigDir returns $XDG_CONFIG_HOME/pydocs-parser.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ResultsDir is where CSV output files are written.
func (c *Config) ResultsDir() string {
	return filepath.Join(c.BaseDir, ResultsDirName)
}

// DownloadsDir is where downloaded archives are saved.
func (c *Config) DownloadsDir() string {
	return filepath.Join(c.BaseDir, DownloadsDirName)
}

// LogFile is the rotating log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.BaseDir, LogsDirName, LogFileName)
}

// Validate returns the first problem found.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return ErrEmptyBaseDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	for _, raw := range []string{c.DocsURL, c.PEPsURL} {
		if !isAbsoluteHTTP(raw) {
			return ErrInvalidURL
		}
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxBackups < 0 {
		return ErrInvalidLogSize
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidFormat
	}
	return nil
}

func isAbsoluteHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
