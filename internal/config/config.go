package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/anomaly-gateway/internal/upstream"
)

// ConfigFileEnv names an optional YAML file using the same keys as the
// environment. Environment variables win over the file.
const ConfigFileEnv = "CONFIG_FILE"

const (
	keyUpstreamBaseURL    = "UPSTREAM_BASE_URL"
	keyHTTPPort           = "HTTP_PORT"
	keyLogLevel           = "LOG_LEVEL"
	keyCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"
)

type Config struct {
	UpstreamBaseURL    string
	HTTPPort           string
	LogLevel           logrus.Level
	CORSAllowedOrigins []string
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		keyUpstreamBaseURL:    upstream.DefaultBaseURL,
		keyHTTPPort:           "9446",
		keyLogLevel:           "info",
		keyCORSAllowedOrigins: "*",
	}
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Defaults target the hosted anomaly detection service.
	known := defaults()
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(known, "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if _, ok := known[key]; !ok || len(value) == 0 {
			return "", nil
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	baseURL := strings.TrimRight(k.String(keyUpstreamBaseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", keyUpstreamBaseURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("config: %s must be an absolute http(s) URL, got %q", keyUpstreamBaseURL, baseURL)
	}

	level, err := logrus.ParseLevel(k.String(keyLogLevel))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", keyLogLevel, err)
	}

	return &Config{
		UpstreamBaseURL:    baseURL,
		HTTPPort:           k.String(keyHTTPPort),
		LogLevel:           level,
		CORSAllowedOrigins: splitList(k.String(keyCORSAllowedOrigins)),
	}, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
