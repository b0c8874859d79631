package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/storefront-service/internal/config"
)

func TestRedisPing(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	r := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	defer r.Close()

	assert.NoError(t, r.Ping(context.Background()))
}

func TestRedisUnreachableIsNotFatal(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	r := NewRedis(context.Background(), config.RedisConfig{Addr: addr}, zap.NewNop())
	defer r.Close()

	require.NotNil(t, r.Client)
	assert.Error(t, r.Ping(context.Background()))
}

func TestNilClientsReportErrors(t *testing.T) {
	var r *Redis
	var p *Postgres

	assert.Error(t, r.Ping(context.Background()))
	assert.Error(t, p.Ping(context.Background()))
	assert.Nil(t, p.PoolHandle())
	r.Close()
	p.Close()
}

func TestNewPostgresRequiresDSN(t *testing.T) {
	_, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrMissingPostgresDSN)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
