package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hornbill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load("", env(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, ".hornbill/sessions", cfg.Store.Path)
	assert.Equal(t, "hornbill:session:", cfg.Store.Redis.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
store:
  driver: redis
  redis:
    addr: cache:6379
    ttl: 48h
  pii_patterns: ["email", "phone"]
log:
  format: json
`)
	cfg, err := load(path, env(map[string]string{
		"HORNBILL_SERVER_PORT": "7000",
		"HORNBILL_REDIS_DB":    "2",
		"HORNBILL_REDIS_LOCK":  "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "hornbill:session:", cfg.Store.Redis.Prefix, "defaults survive a partial section")
	assert.Equal(t, 48*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.True(t, cfg.Store.Redis.Lock)
	assert.Equal(t, []string{"email", "phone"}, cfg.Store.PIIPatterns)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentLists(t *testing.T) {
	cfg, err := load("", env(map[string]string{
		"HORNBILL_STORE_PII_PATTERNS": "email, phone ,",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "phone"}, cfg.Store.PIIPatterns)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{name: "unknown key", body: "server:\n  prot: 1\n", want: "prot"},
		{name: "bad driver", env: map[string]string{"HORNBILL_STORE_DRIVER": "s3"}, want: `unknown store driver "s3"`},
		{name: "bad port", env: map[string]string{"HORNBILL_SERVER_PORT": "70000"}, want: "out of range"},
		{name: "short key", env: map[string]string{"HORNBILL_STORE_ENCRYPTION_KEY": "abcd"}, want: "32 bytes"},
		{name: "broken yaml", body: "server: [", want: "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.body != "" {
				path = writeConfig(t, tt.body)
			}
			_, err := load(path, env(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestStoreConfig_Keys(t *testing.T) {
	active := strings.Repeat("ab", 32)
	old := strings.Repeat("cd", 32)

	s := StoreConfig{EncryptionKey: active, FallbackKeys: []string{old}}
	key, fallback, err := s.Keys()
	require.NoError(t, err)
	assert.Len(t, key, 32)
	require.Len(t, fallback, 1)
	assert.Equal(t, byte(0xcd), fallback[0][0])

	key, fallback, err = StoreConfig{}.Keys()
	require.NoError(t, err)
	assert.Nil(t, key)
	assert.Nil(t, fallback)

	_, _, err = StoreConfig{EncryptionKey: active, FallbackKeys: []string{"zz"}}.Keys()
	assert.ErrorContains(t, err, "fallback key 0")
}
