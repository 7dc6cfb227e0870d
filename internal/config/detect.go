package config

import (
	"os"
	"strings"
)

// EnvController overrides the configured controller endpoint when set.
const EnvController = "NOVA_CONTROLLER"

// ResolveController picks the controller endpoint from, in order: the
// explicit flag value, the NOVA_CONTROLLER environment variable, and the
// config file.
func ResolveController(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvController); env != "" {
		return env
	}
	return cfg.ControllerURL()
}

// MachineName resolves the display name for the monitored machine. The
// configured name wins; otherwise the local hostname, stripped of any
// domain suffix. Falls back to "novamotion" when neither is available.
func (c *Config) MachineName() string {
	if c.Controller.Name != "" {
		return c.Controller.Name
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "novamotion"
	}
	if i := strings.IndexByte(host, '.'); i > 0 {
		host = host[:i]
	}
	return host
}
