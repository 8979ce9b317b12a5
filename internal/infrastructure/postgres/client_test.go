package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/loftplanner/internal/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "db.internal",
		Port:            "5433",
		User:            "planner",
		Password:        "secret",
		Name:            "loft",
		SSLMode:         "disable",
		MaxOpenConns:    8,
		MaxIdleConns:    20,
		MaxConnLifetime: time.Minute,
	}

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolCfg.ConnConfig.Port)
	assert.Equal(t, "loft", poolCfg.ConnConfig.Database)
	assert.Equal(t, int32(8), poolCfg.MaxConns)
	assert.Equal(t, int32(8), poolCfg.MinConns)
	assert.Equal(t, time.Minute, poolCfg.MaxConnLifetime)
}

func TestPoolConfig_BadURL(t *testing.T) {
	_, err := poolConfig(config.DatabaseConfig{URL: "postgres://%zz"})
	assert.Error(t, err)
}
