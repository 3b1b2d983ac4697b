package postgres

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sedes-inventario/pkg/config"
)

func testDBConfig() config.DBConfig {
	return config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "x", DBName: "sedes", SSLMode: "disable"}
}

func TestNewPoolConfig_LimitesDesdeConfig(t *testing.T) {
	cfg := testDBConfig()
	cfg.MaxConns = 12
	cfg.MinConns = 3
	cfg.MaxConnLifetime = 20 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pc, err := NewPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(12), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 20*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, 5*time.Minute, pc.MaxConnIdleTime)
	assert.NotNil(t, pc.AfterConnect, "registra el codec decimal")
	assert.Equal(t, "db", pc.ConnConfig.Host)
}

func TestNewPoolConfig_MinMayorQueMax(t *testing.T) {
	cfg := testDBConfig()
	cfg.MaxConns = 2
	cfg.MinConns = 5
	_, err := NewPoolConfig(cfg)
	require.Error(t, err)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := NewPoolConfig(config.DBConfig{DatabaseURL: "postgres://a:b@host:puerto/x"})
	require.Error(t, err)
}

func TestNewPoolConfig_ForzarIPv4RechazaIPv6(t *testing.T) {
	cfg := testDBConfig()
	cfg.ForceIPv4 = true
	pc, err := NewPoolConfig(cfg)
	require.NoError(t, err)

	_, err = pc.ConnConfig.DialFunc(context.Background(), "tcp", "[::1]:5432")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IPv4")
}

func TestIPv4Addr(t *testing.T) {
	ctx := context.Background()
	got, err := ipv4Addr(ctx, net.DefaultResolver, "127.0.0.1:5432")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5432", got)

	_, err = ipv4Addr(ctx, net.DefaultResolver, "[2001:db8::1]:5432")
	require.Error(t, err)

	_, err = ipv4Addr(ctx, net.DefaultResolver, "sin-puerto")
	require.Error(t, err)
}
