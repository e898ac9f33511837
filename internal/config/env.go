package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds the environment variables the CLI honours.
// envconfig upper-cases keys, so the lower-case proxy variables are read
// separately in Overrides.
type EnvConfig struct {
	// APIKey overrides GROQ_API_KEY from the config file.
	APIKey string `envconfig:"GROQ_API_KEY"`

	// HTTPSProxy and HTTPProxy feed the proxy property.
	HTTPSProxy string `envconfig:"HTTPS_PROXY"`
	HTTPProxy  string `envconfig:"HTTP_PROXY"`

	// ConfigPath replaces ~/.dash.
	ConfigPath string `envconfig:"DASH_CONFIG"`
}

// LoadFromEnv reads EnvConfig from the process environment.
func LoadFromEnv() (EnvConfig, error) {
	var env EnvConfig
	if err := envconfig.Process("", &env); err != nil {
		return EnvConfig{}, err
	}
	return env, nil
}

// Overrides turns the environment into config overrides. Proxy precedence
// is https_proxy, HTTPS_PROXY, http_proxy, HTTP_PROXY.
func (e EnvConfig) Overrides() Raw {
	raw := Raw{}
	if e.APIKey != "" {
		raw[KeyAPIKey] = e.APIKey
	}
	if proxy := firstNonEmpty(os.Getenv("https_proxy"), e.HTTPSProxy, os.Getenv("http_proxy"), e.HTTPProxy); proxy != "" {
		raw[KeyProxy] = proxy
	}
	return raw
}

// Path returns DASH_CONFIG when set, else ~/.dash.
func (e EnvConfig) Path() (string, error) {
	if e.ConfigPath != "" {
		return e.ConfigPath, nil
	}
	return DefaultPath()
}

// LoadDotEnv loads a .env file into the environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
