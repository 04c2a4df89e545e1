package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/propmeta/reflection"
	"github.com/Konsultn-Engineering/propmeta/typeinfo"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "propmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 0, cfg.Cache.Size)
	assert.True(t, cfg.Access.AllowPrivate)
	assert.Equal(t, typeinfo.DefaultTagName, cfg.TagName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
cache:
  enabled: false
  size: 128
access:
  allow_private: false
tag_name: meta
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 128, cfg.Cache.Size)
	assert.False(t, cfg.Access.AllowPrivate)
	assert.Equal(t, "meta", cfg.TagName)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "cache:\n  size: 16\n")
	t.Setenv("PROPMETA_CACHE_SIZE", "64")
	t.Setenv("PROPMETA_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Cache.Size)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative size", "cache:\n  size: -1\n"},
		{"empty tag", "tag_name: \"  \"\n"},
		{"bad level", "log_level: loud\n"},
		{"malformed yaml", "cache: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestFactoryOptions(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = false
	cfg.Access.AllowPrivate = false

	logger, err := cfg.Logger()
	require.NoError(t, err)

	f, err := reflection.NewFactory(cfg.FactoryOptions(logger)...)
	require.NoError(t, err)
	assert.False(t, f.IsClassCacheEnabled())

	secret := &typeinfo.Method{
		Name:   "getSecret",
		Return: typeinfo.Primitive("string"),
		Access: typeinfo.Private,
		Func:   func(any, []any) (any, error) { return "s", nil },
	}
	typ := typeinfo.NewClass("Vault").AddMethod(secret).Build()

	r, err := f.FindForClass(typ)
	require.NoError(t, err)
	inv, err := r.GetGetInvoker("secret")
	require.NoError(t, err)
	_, err = inv.Invoke(nil)
	assert.ErrorIs(t, err, reflection.ErrAccessDenied)
}

func TestRegistryUsesTagName(t *testing.T) {
	type Item struct {
		Title string `meta:"heading"`
	}

	cfg := Default()
	cfg.TagName = "meta"

	typ, err := cfg.Registry().Of(reflect.TypeFor[Item]())
	require.NoError(t, err)
	fields, err := typ.DeclaredFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "heading", fields[0].Name)
}

func TestLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "error"} {
		cfg := Default()
		cfg.LogLevel = level
		logger, err := cfg.Logger()
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	cfg := Default()
	cfg.LogLevel = "nope"
	_, err := cfg.Logger()
	assert.Error(t, err)
}
