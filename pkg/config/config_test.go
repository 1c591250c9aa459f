package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fatturapa-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "fatturapa-api", cfg.App.Name)
	assert.Equal(t, "dev", cfg.SDI.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://postgres:@localhost:5432/fatturapa?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_NAME", "fatture")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SDI_ENV", "TEST")
	t.Setenv("SDI_CERT_PATH", "/certs/firma.p12")
	t.Setenv("DB_PASSWORD", "p@ss/word")
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "fatture", cfg.App.Name)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "test", cfg.SDI.Env)
	assert.Equal(t, "/certs/firma.p12", cfg.SDI.CertPath)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%2Fword")
}

func TestLoad_PuertoInvalidoUsaDefecto(t *testing.T) {
	t.Setenv("HTTP_PORT", "abc")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_Errores(t *testing.T) {
	t.Run("SDI_ENV desconocido", func(t *testing.T) {
		t.Setenv("SDI_ENV", "staging")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("production sin JWT_SECRET", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
