package termfolio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	defaults "github.com/safwanadnan/termfolio/default"
)

// Config represents the termfolio configuration.
type Config struct {
	Version  int            `json:"version"`
	Identity IdentityConfig `json:"identity"`
	Activity ActivityConfig `json:"activity"`
	Resume   ResumeConfig   `json:"resume"`
	Session  SessionConfig  `json:"session"`
	Server   ServerConfig   `json:"server"`
}

// IdentityConfig describes whose portfolio the shell presents.
type IdentityConfig struct {
	Name       string `json:"name"`
	Host       string `json:"host"`
	GitHubUser string `json:"github_user"`
}

// ActivityConfig holds settings for the repository activity feed.
type ActivityConfig struct {
	BaseURL        string `json:"base_url"`
	Token          string `json:"token,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	TTLMinutes     int    `json:"ttl_minutes,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// ResumeConfig holds the downloadable resume resource.
type ResumeConfig struct {
	URL string `json:"url"`
}

// SessionConfig holds per-session behaviour.
type SessionConfig struct {
	ExitDelayMillis int `json:"exit_delay_ms,omitempty"`
	IdleTTLMinutes  int `json:"idle_ttl_minutes,omitempty"`
}

// ServerConfig holds daemon listener settings.
type ServerConfig struct {
	Listen  string `json:"listen"`
	Socket  string `json:"socket,omitempty"`
	LogFile string `json:"log_file,omitempty"`
}

// ConfigDir returns the config directory path.
// Resolution order: $TERMFOLIO_CONFIG_DIR > $XDG_CONFIG_HOME/termfolio > ~/.config/termfolio
func ConfigDir() string {
	if dir := os.Getenv("TERMFOLIO_CONFIG_DIR"); dir != "" {
		return dir
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "termfolio")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/tmp", "termfolio-config")
	}
	return filepath.Join(home, ".config", "termfolio")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// DefaultConfig returns the default configuration from the embedded default_config.json.
func DefaultConfig() *Config {
	var cfg Config
	if err := json.Unmarshal(defaults.DefaultConfigJSON, &cfg); err != nil {
		panic("termfolio: invalid embedded default_config.json: " + err.Error())
	}
	return &cfg
}

// LoadConfig loads config from disk or returns defaults if not found.
func LoadConfig() (*Config, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if cfg.Identity.Name == "" {
		cfg.Identity.Name = defaults.Identity.Name
	}
	if cfg.Identity.Host == "" {
		cfg.Identity.Host = defaults.Identity.Host
	}
	if cfg.Activity.BaseURL == "" {
		cfg.Activity.BaseURL = defaults.Activity.BaseURL
	}
	if cfg.Activity.Limit == 0 {
		cfg.Activity.Limit = defaults.Activity.Limit
	}
	if cfg.Activity.TTLMinutes == 0 {
		cfg.Activity.TTLMinutes = defaults.Activity.TTLMinutes
	}
	if cfg.Activity.TimeoutSeconds == 0 {
		cfg.Activity.TimeoutSeconds = defaults.Activity.TimeoutSeconds
	}
	if cfg.Resume.URL == "" {
		cfg.Resume.URL = defaults.Resume.URL
	}
	if cfg.Session.ExitDelayMillis == 0 {
		cfg.Session.ExitDelayMillis = defaults.Session.ExitDelayMillis
	}
	if cfg.Session.IdleTTLMinutes == 0 {
		cfg.Session.IdleTTLMinutes = defaults.Session.IdleTTLMinutes
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}

	return &cfg, nil
}

// ValidateConfig checks configuration for potential issues and returns warnings.
func ValidateConfig(cfg *Config) []string {
	var warnings []string
	if cfg == nil {
		return warnings
	}
	if ResolveGitHubUser(cfg) == "" {
		warnings = append(warnings, "identity.github_user is empty; the github command will report no activity")
	}
	if cfg.Resume.URL == "" {
		warnings = append(warnings, "resume.url is empty; the resume command has nothing to download")
	}
	if cfg.Session.ExitDelayMillis < 0 {
		warnings = append(warnings, "session.exit_delay_ms is negative; exit will reset immediately")
	}
	return warnings
}

// ResolveGitHubUser returns the GitHub account whose activity is shown.
// Priority: $TERMFOLIO_GITHUB_USER env > config value.
func ResolveGitHubUser(cfg *Config) string {
	if user := os.Getenv("TERMFOLIO_GITHUB_USER"); user != "" {
		return user
	}
	if cfg != nil {
		return cfg.Identity.GitHubUser
	}
	return ""
}

// ResolveGitHubToken returns the token used for GitHub API requests.
// Priority: $TERMFOLIO_GITHUB_TOKEN env > config value.
func ResolveGitHubToken(cfg *Config) string {
	if token := os.Getenv("TERMFOLIO_GITHUB_TOKEN"); token != "" {
		return token
	}
	if cfg != nil {
		return cfg.Activity.Token
	}
	return ""
}

// ResolveGitHubAPI returns the GitHub API base URL.
// Priority: $TERMFOLIO_GITHUB_API env > config value.
func ResolveGitHubAPI(cfg *Config) string {
	if url := os.Getenv("TERMFOLIO_GITHUB_API"); url != "" {
		return url
	}
	if cfg != nil {
		return cfg.Activity.BaseURL
	}
	return ""
}

// ResolveListenAddr returns the HTTP listen address for the WebSocket and metrics endpoints.
// Priority: $TERMFOLIO_LISTEN env > config value.
func ResolveListenAddr(cfg *Config) string {
	if addr := os.Getenv("TERMFOLIO_LISTEN"); addr != "" {
		return addr
	}
	if cfg != nil {
		return cfg.Server.Listen
	}
	return ""
}

// ExitDelay returns the delay between exit and the session reset.
func ExitDelay(cfg *Config) time.Duration {
	if cfg == nil || cfg.Session.ExitDelayMillis < 0 {
		return 0
	}
	return time.Duration(cfg.Session.ExitDelayMillis) * time.Millisecond
}

// ActivityTTL returns how long a fetched activity feed stays cached.
func ActivityTTL(cfg *Config) time.Duration {
	if cfg == nil || cfg.Activity.TTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(cfg.Activity.TTLMinutes) * time.Minute
}

// SessionTTL returns how long an idle daemon session is kept.
func SessionTTL(cfg *Config) time.Duration {
	if cfg == nil || cfg.Session.IdleTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(cfg.Session.IdleTTLMinutes) * time.Minute
}

// ActivityTimeout returns the timeout for one activity request.
func ActivityTimeout(cfg *Config) time.Duration {
	if cfg == nil || cfg.Activity.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(cfg.Activity.TimeoutSeconds) * time.Second
}
