package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/thomas-vilte/dash/internal/errors"
	"github.com/thomas-vilte/dash/internal/regex"
)

type CommitType string

const (
	CommitTypeDefault      CommitType = ""
	CommitTypeConventional CommitType = "conventional"
)

const (
	KeyAPIKey    = "GROQ_API_KEY"
	KeyLocale    = "locale"
	KeyGenerate  = "generate"
	KeyType      = "type"
	KeyProxy     = "proxy"
	KeyModel     = "model"
	KeyTimeout   = "timeout"
	KeyMaxLength = "max-length"
	KeyGHEnabled = "gh_enabled"
)

const (
	DefaultLocale    = "en"
	DefaultGenerate  = 1
	MaxGenerate      = 5
	DefaultModel     = "openai/gpt-oss-20b"
	DefaultTimeoutMs = 10_000
	MinTimeoutMs     = 500
	DefaultMaxLength = 100
	MinMaxLength     = 20
	MaxMaxLength     = 200

	fileName = ".dash"
)

// Keys lists every config property in display order.
var Keys = []string{
	KeyAPIKey,
	KeyLocale,
	KeyGenerate,
	KeyType,
	KeyProxy,
	KeyModel,
	KeyTimeout,
	KeyMaxLength,
	KeyGHEnabled,
}

// Raw is the unparsed key-value form stored on disk.
type Raw map[string]string

// Config is the validated, read-only view handed to the rest of the CLI.
type Config struct {
	APIKey    string
	Locale    string
	Generate  int
	Type      CommitType
	Proxy     string
	Model     string
	TimeoutMs int
	MaxLength int
	GHEnabled bool

	Path string
	raw  Raw
}

type parser func(value string, cfg *Config) error

var parsers = map[string]parser{
	KeyAPIKey: func(v string, cfg *Config) error {
		if v == "" {
			return nil
		}
		if !strings.HasPrefix(v, "gsk_") {
			return invalid(KeyAPIKey, `Must start with "gsk_"`)
		}
		cfg.APIKey = v
		return nil
	},
	KeyLocale: func(v string, cfg *Config) error {
		cfg.Locale = DefaultLocale
		if v == "" {
			return nil
		}
		if !regex.Locale.MatchString(v) {
			return invalid(KeyLocale, "Must be a valid locale (letters and dashes/underscores). You can consult the list of codes in: https://wikipedia.org/wiki/List_of_ISO_639-1_codes")
		}
		cfg.Locale = v
		return nil
	},
	KeyGenerate: func(v string, cfg *Config) error {
		cfg.Generate = DefaultGenerate
		if v == "" {
			return nil
		}
		n, err := parseInt(KeyGenerate, v)
		if err != nil {
			return err
		}
		if n <= 0 {
			return invalid(KeyGenerate, "Must be greater than 0")
		}
		if n > MaxGenerate {
			return invalid(KeyGenerate, fmt.Sprintf("Must be less or equal to %d", MaxGenerate))
		}
		cfg.Generate = n
		return nil
	},
	KeyType: func(v string, cfg *Config) error {
		cfg.Type = CommitTypeDefault
		switch CommitType(v) {
		case CommitTypeDefault, CommitTypeConventional:
			cfg.Type = CommitType(v)
			return nil
		default:
			return invalid(KeyType, "Invalid commit type")
		}
	},
	KeyProxy: func(v string, cfg *Config) error {
		cfg.Proxy = ""
		if v == "" {
			return nil
		}
		if !regex.ProxyURL.MatchString(v) {
			return invalid(KeyProxy, "Must be a valid URL")
		}
		cfg.Proxy = v
		return nil
	},
	KeyModel: func(v string, cfg *Config) error {
		cfg.Model = DefaultModel
		if v != "" {
			cfg.Model = v
		}
		return nil
	},
	KeyTimeout: func(v string, cfg *Config) error {
		cfg.TimeoutMs = DefaultTimeoutMs
		if v == "" {
			return nil
		}
		n, err := parseInt(KeyTimeout, v)
		if err != nil {
			return err
		}
		if n < MinTimeoutMs {
			return invalid(KeyTimeout, fmt.Sprintf("Must be greater than %dms", MinTimeoutMs))
		}
		cfg.TimeoutMs = n
		return nil
	},
	KeyMaxLength: func(v string, cfg *Config) error {
		cfg.MaxLength = DefaultMaxLength
		if v == "" {
			return nil
		}
		n, err := parseInt(KeyMaxLength, v)
		if err != nil {
			return err
		}
		if n < MinMaxLength {
			return invalid(KeyMaxLength, fmt.Sprintf("Must be greater than %d characters", MinMaxLength))
		}
		if n > MaxMaxLength {
			return invalid(KeyMaxLength, fmt.Sprintf("Must be less than or equal to %d characters", MaxMaxLength))
		}
		cfg.MaxLength = n
		return nil
	},
	KeyGHEnabled: func(v string, cfg *Config) error {
		cfg.GHEnabled = v == "" || v == "true"
		return nil
	},
}

func invalid(key, reason string) error {
	return errors.ErrInvalidConfig.
		WithMessage("Invalid config property %s: %s", key, reason).
		WithContext("key", key)
}

func parseInt(key, v string) (int, error) {
	if !regex.Digits.MatchString(v) {
		return 0, invalid(key, "Must be an integer")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalid(key, "Must be an integer")
	}
	return n, nil
}

// DefaultPath is ~/.dash.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.ErrConfigIO.WithError(err)
	}
	return filepath.Join(home, fileName), nil
}

// Load reads the config file at path, layers overrides on top and validates
// every key. With suppressErrors an invalid value falls back to its default.
func Load(path string, overrides Raw, suppressErrors bool) (*Config, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		if v != "" {
			raw[k] = v
		}
	}
	cfg, err := parse(raw, suppressErrors)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// Strict re-validates the loaded values plus overrides without touching
// the disk. Commands call it right before they need the values.
func (c *Config) Strict(overrides Raw) (*Config, error) {
	raw := make(Raw, len(c.raw)+len(overrides))
	for k, v := range c.raw {
		raw[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			raw[k] = v
		}
	}
	cfg, err := parse(raw, false)
	if err != nil {
		return nil, err
	}
	cfg.Path = c.Path
	return cfg, nil
}

// RequireAPIKey fails before any network call when no key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return errors.ErrAPIKeyMissing
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Value renders a parsed property the way `config get` prints it.
func (c *Config) Value(key string) (string, bool) {
	switch key {
	case KeyAPIKey:
		return c.APIKey, true
	case KeyLocale:
		return c.Locale, true
	case KeyGenerate:
		return strconv.Itoa(c.Generate), true
	case KeyType:
		return string(c.Type), true
	case KeyProxy:
		return c.Proxy, true
	case KeyModel:
		return c.Model, true
	case KeyTimeout:
		return strconv.Itoa(c.TimeoutMs), true
	case KeyMaxLength:
		return strconv.Itoa(c.MaxLength), true
	case KeyGHEnabled:
		return strconv.FormatBool(c.GHEnabled), true
	default:
		return "", false
	}
}

// Get returns `key=value` lines for the requested keys, or every key.
func (c *Config) Get(keys ...string) ([]string, error) {
	if len(keys) == 0 {
		keys = Keys
	}
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		v, ok := c.Value(key)
		if !ok {
			return nil, unknownKey(key)
		}
		lines = append(lines, key+"="+v)
	}
	return lines, nil
}

func parse(raw Raw, suppressErrors bool) (*Config, error) {
	cfg := &Config{raw: raw}
	for _, key := range Keys {
		err := parsers[key](raw[key], cfg)
		if err == nil {
			continue
		}
		if !suppressErrors {
			return nil, err
		}
		_ = parsers[key]("", cfg)
	}
	return cfg, nil
}

func unknownKey(key string) error {
	return errors.ErrUnknownConfigKey.WithMessage("Invalid config property: %s", key)
}

// ParsePair splits a `key=value` argument.
func ParsePair(arg string) (string, string, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return "", "", unknownKey(arg)
	}
	return key, value, nil
}

// Set validates each pair and persists the merged result.
func Set(path string, pairs [][2]string) error {
	raw, err := ReadFile(path)
	if err != nil {
		return err
	}

	for _, pair := range pairs {
		key, value := pair[0], pair[1]
		p, ok := parsers[key]
		if !ok {
			return unknownKey(key)
		}
		if key == KeyAPIKey && value == "" {
			return errors.ErrAPIKeyMissing
		}
		if err := p(value, &Config{}); err != nil {
			return err
		}
		if value == "" {
			delete(raw, key)
			continue
		}
		raw[key] = value
	}

	return WriteFile(path, raw)
}

// ReadFile returns an empty Raw when the file does not exist.
func ReadFile(path string) (Raw, error) {
	raw := make(Raw)
	if path == "" {
		return raw, nil
	}

	var decoded map[string]interface{}
	if _, err := toml.DecodeFile(path, &decoded); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return raw, nil
		}
		return nil, errors.ErrConfigIO.WithError(err).WithContext("path", path)
	}

	for k, v := range decoded {
		raw[k] = fmt.Sprint(v)
	}
	return raw, nil
}

func WriteFile(path string, raw Raw) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.ErrConfigIO.WithError(err).WithContext("path", path)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(map[string]string(raw)); err != nil {
		return errors.ErrConfigIO.WithError(err).WithContext("path", path)
	}
	return nil
}
