package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/dash/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".dash")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Success - defaults when the file does not exist", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), ".dash"), nil, false)

		require.NoError(t, err)
		assert.Equal(t, "", cfg.APIKey)
		assert.Equal(t, DefaultLocale, cfg.Locale)
		assert.Equal(t, DefaultGenerate, cfg.Generate)
		assert.Equal(t, CommitTypeDefault, cfg.Type)
		assert.Equal(t, "", cfg.Proxy)
		assert.Equal(t, DefaultModel, cfg.Model)
		assert.Equal(t, DefaultTimeoutMs, cfg.TimeoutMs)
		assert.Equal(t, DefaultMaxLength, cfg.MaxLength)
		assert.True(t, cfg.GHEnabled)
	})

	t.Run("Success - reads values from the file", func(t *testing.T) {
		path := writeConfig(t, `
GROQ_API_KEY = "gsk_abc"
locale = "es"
generate = "3"
type = "conventional"
timeout = 20000
max-length = "60"
gh_enabled = "false"
`)

		cfg, err := Load(path, nil, false)

		require.NoError(t, err)
		assert.Equal(t, "gsk_abc", cfg.APIKey)
		assert.Equal(t, "es", cfg.Locale)
		assert.Equal(t, 3, cfg.Generate)
		assert.Equal(t, CommitTypeConventional, cfg.Type)
		assert.Equal(t, 20000, cfg.TimeoutMs)
		assert.Equal(t, 60, cfg.MaxLength)
		assert.False(t, cfg.GHEnabled)
		assert.Equal(t, path, cfg.Path)
	})

	t.Run("Success - overrides win over the file", func(t *testing.T) {
		path := writeConfig(t, `GROQ_API_KEY = "gsk_file"`)

		cfg, err := Load(path, Raw{KeyAPIKey: "gsk_env", KeyProxy: "http://proxy:8080"}, false)

		require.NoError(t, err)
		assert.Equal(t, "gsk_env", cfg.APIKey)
		assert.Equal(t, "http://proxy:8080", cfg.Proxy)
	})

	t.Run("Error - invalid value is reported with its key", func(t *testing.T) {
		path := writeConfig(t, `max-length = "10"`)

		_, err := Load(path, nil, false)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrInvalidConfig))
		assert.Contains(t, err.Error(), "Invalid config property max-length: Must be greater than 20 characters")
	})

	t.Run("Success - suppressed errors fall back to defaults", func(t *testing.T) {
		path := writeConfig(t, `
timeout = "abc"
GROQ_API_KEY = "nope"
`)

		cfg, err := Load(path, nil, true)

		require.NoError(t, err)
		assert.Equal(t, DefaultTimeoutMs, cfg.TimeoutMs)
		assert.Equal(t, "", cfg.APIKey)
	})

	t.Run("Error - unreadable toml", func(t *testing.T) {
		path := writeConfig(t, `this is = = not toml`)

		_, err := Load(path, nil, false)

		assert.True(t, errors.Is(err, domainErrors.ErrConfigIO))
	})
}

func TestParsers(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"Error - api key prefix", KeyAPIKey, "abc", `Must start with "gsk_"`},
		{"Success - api key", KeyAPIKey, "gsk_123", ""},
		{"Error - locale with digits", KeyLocale, "en1", "Must be a valid locale"},
		{"Success - locale with dash", KeyLocale, "pt-BR", ""},
		{"Error - generate not integer", KeyGenerate, "two", "Must be an integer"},
		{"Error - generate zero", KeyGenerate, "0", "Must be greater than 0"},
		{"Error - generate above five", KeyGenerate, "6", "Must be less or equal to 5"},
		{"Error - unknown commit type", KeyType, "gitmoji", "Invalid commit type"},
		{"Error - proxy without scheme", KeyProxy, "proxy:8080", "Must be a valid URL"},
		{"Success - https proxy", KeyProxy, "https://proxy:8080", ""},
		{"Error - timeout below minimum", KeyTimeout, "499", "Must be greater than 500ms"},
		{"Success - timeout at minimum", KeyTimeout, "500", ""},
		{"Error - max-length above maximum", KeyMaxLength, "201", "Must be less than or equal to 200 characters"},
		{"Error - max-length not integer", KeyMaxLength, "abc", "Must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parsers[tt.key](tt.value, &Config{})
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSetAndGet(t *testing.T) {
	t.Run("Success - sets and gets a value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".dash")

		require.NoError(t, Set(path, [][2]string{{KeyAPIKey, "gsk_test123"}, {KeyTimeout, "20000"}}))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `GROQ_API_KEY = "gsk_test123"`)

		cfg, err := Load(path, nil, false)
		require.NoError(t, err)
		lines, err := cfg.Get(KeyAPIKey, KeyTimeout, KeyMaxLength)
		require.NoError(t, err)
		assert.Equal(t, []string{"GROQ_API_KEY=gsk_test123", "timeout=20000", "max-length=100"}, lines)
	})

	t.Run("Error - unknown property", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".dash")

		err := Set(path, [][2]string{{"UNKNOWN", "1"}})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid config property: UNKNOWN")
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "nothing must be written on failure")
	})

	t.Run("Error - invalid value is not persisted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".dash")

		err := Set(path, [][2]string{{KeyMaxLength, "10"}})

		assert.ErrorContains(t, err, "Must be greater than 20 characters")
	})

	t.Run("Success - empty value removes the key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".dash")
		require.NoError(t, Set(path, [][2]string{{KeyProxy, "http://p:1"}}))

		require.NoError(t, Set(path, [][2]string{{KeyProxy, ""}}))

		raw, err := ReadFile(path)
		require.NoError(t, err)
		_, ok := raw[KeyProxy]
		assert.False(t, ok)
	})

	t.Run("Error - get unknown key", func(t *testing.T) {
		cfg, err := Load("", nil, false)
		require.NoError(t, err)

		_, err = cfg.Get("nope")

		assert.True(t, errors.Is(err, domainErrors.ErrUnknownConfigKey))
	})
}

func TestStrictAndRequireAPIKey(t *testing.T) {
	cfg, err := Load("", nil, true)
	require.NoError(t, err)

	assert.True(t, errors.Is(cfg.RequireAPIKey(), domainErrors.ErrAPIKeyMissing))

	strict, err := cfg.Strict(Raw{KeyAPIKey: "gsk_x", KeyGenerate: "2"})
	require.NoError(t, err)
	assert.NoError(t, strict.RequireAPIKey())
	assert.Equal(t, 2, strict.Generate)

	_, err = cfg.Strict(Raw{KeyGenerate: "9"})
	assert.ErrorContains(t, err, "Must be less or equal to 5")
}

func TestParsePair(t *testing.T) {
	key, value, err := ParsePair("GROQ_API_KEY=gsk_a=b")
	require.NoError(t, err)
	assert.Equal(t, "GROQ_API_KEY", key)
	assert.Equal(t, "gsk_a=b", value)

	_, _, err = ParsePair("novalue")
	assert.Error(t, err)
}
