// Package config parses nova.toml dashboard configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAccentColor is the default TUI accent color (indigo).
const DefaultAccentColor = "#7D56F4"

// hexColorRe matches a 6-digit hex color string like "#7D56F4".
var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level nova.toml configuration.
type Config struct {
	Controller ControllerConfig `toml:"controller"`
	Dashboard  DashboardConfig  `toml:"dashboard"`
	Export     ExportConfig     `toml:"export"`
	Telemetry  TelemetryConfig  `toml:"telemetry"`
	Logging    LoggingConfig    `toml:"logging"`
	Notify     NotifyConfig     `toml:"notify"`
}

// ControllerConfig locates the NovaMotion controller.
type ControllerConfig struct {
	Name string `toml:"name"` // display name; hostname when empty
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DashboardConfig controls the terminal UI.
type DashboardConfig struct {
	AccentColor string `toml:"accent_color"`
	TickMS      int    `toml:"tick_ms"`  // animation scheduler interval
	ToastMS     int    `toml:"toast_ms"` // notification display duration
}

// ExportConfig controls calibration exports.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// TelemetryConfig controls the JSONL session log.
type TelemetryConfig struct {
	Enabled   bool   `toml:"enabled"`
	Dir       string `toml:"dir"`
	Retention int    `toml:"retention"` // session logs to keep; 0 = unlimited
}

// LoggingConfig controls the diagnostic file log. The TUI owns the
// terminal, so diagnostics never go to stderr while the dashboard runs.
type LoggingConfig struct {
	File  string `toml:"file"`
	Debug bool   `toml:"debug"`
}

// NotifyConfig controls webhook notifications (ntfy.sh style). An empty URL
// disables them.
type NotifyConfig struct {
	URL          string `toml:"url"`
	OnComplete   bool   `toml:"on_complete"`
	OnDisconnect bool   `toml:"on_disconnect"`
}

// ControllerURL returns the controller's HTTP base URL.
func (c *Config) ControllerURL() string {
	return fmt.Sprintf("http://%s:%d", c.Controller.Host, c.Controller.Port)
}

// Validate checks the configuration for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (c *Config) Validate() error {
	var errs []error

	if c.Controller.Host == "" {
		errs = append(errs, fmt.Errorf("controller.host must not be empty"))
	}
	if c.Controller.Port < 1 || c.Controller.Port > 65535 {
		errs = append(errs, fmt.Errorf("controller.port must be in 1..65535"))
	}

	if c.Dashboard.AccentColor != "" && !hexColorRe.MatchString(c.Dashboard.AccentColor) {
		errs = append(errs, fmt.Errorf("dashboard.accent_color must be a hex color (e.g. \"#7D56F4\")"))
	}
	if c.Dashboard.TickMS < 1 {
		errs = append(errs, fmt.Errorf("dashboard.tick_ms must be >= 1"))
	}
	if c.Dashboard.ToastMS < 1 {
		errs = append(errs, fmt.Errorf("dashboard.toast_ms must be >= 1"))
	}

	if c.Telemetry.Enabled && c.Telemetry.Dir == "" {
		errs = append(errs, fmt.Errorf("telemetry.dir must be set when telemetry.enabled is true"))
	}
	if c.Telemetry.Retention < 0 {
		errs = append(errs, fmt.Errorf("telemetry.retention must be >= 0 (0 = unlimited)"))
	}

	// Notification failures are silent at runtime, so a bad URL would just
	// never deliver. Catch it here instead.
	if c.Notify.URL != "" {
		u, err := url.Parse(c.Notify.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notify.url must be an http(s) URL (e.g. \"https://ntfy.sh/my-topic\")"))
		}
	}

	return errors.Join(errs...)
}

// Defaults returns a Config with sensible defaults for a local controller.
func Defaults() Config {
	return Config{
		Controller: ControllerConfig{
			Name: "",
			Host: "127.0.0.1",
			Port: 5000,
		},
		Dashboard: DashboardConfig{
			AccentColor: DefaultAccentColor,
			TickMS:      50,
			ToastMS:     3000,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Telemetry: TelemetryConfig{
			Enabled:   true,
			Dir:       filepath.Join(".nova", "telemetry"),
			Retention: 20,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(".nova", "nova.log"),
			Debug: false,
		},
		Notify: NotifyConfig{
			URL:          "",
			OnComplete:   true,
			OnDisconnect: false,
		},
	}
}

// Load reads nova.toml from the given path. If path is empty, it walks up
// from the current working directory looking for nova.toml; if none exists
// anywhere, defaults are returned. Returns an error if the file contains
// unknown keys (likely typos).
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		if found == "" {
			cfg := Defaults()
			return &cfg, nil
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	return &cfg, nil
}

// findConfig walks up from the current directory looking for nova.toml.
// Returns "" when no file is found; the dashboard runs fine on defaults.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "nova.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// InitFile writes a default nova.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, "nova.toml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: nova.toml already exists at %s", path)
	}

	content := `# nova.toml: NovaMotion dashboard configuration
# Place this file in the directory you run nova from (or any parent).

[controller]
name = ""          # display name shown in the header; hostname when empty
host = "127.0.0.1"
port = 5000

[dashboard]
accent_color = "#7D56F4" # hex color for header/accent elements
tick_ms = 50             # animation scheduler interval
toast_ms = 3000          # notification display duration

[export]
dir = "." # where nova_calibration_<ts>.json files are written

[telemetry]
enabled = true
dir = ".nova/telemetry" # JSONL session logs
retention = 20          # session logs to keep; 0 = unlimited

[logging]
file = ".nova/nova.log" # diagnostic log (the TUI owns the terminal)
debug = false

[notify]
url = ""            # webhook for push notifications (e.g. https://ntfy.sh/my-topic); empty disables
on_complete = true  # notify when a calibration run finishes
on_disconnect = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
