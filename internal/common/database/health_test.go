// internal/common/database/health_test.go
package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placement-analytics/internal/common/config"
)

type fakePinger struct {
	name string
	err  error
}

func (f fakePinger) Name() string {
	return f.name
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func TestCheckAll(t *testing.T) {
	status, healthy := CheckAll(context.Background(), time.Second,
		fakePinger{name: "redis"},
		fakePinger{name: "postgres", err: errors.New("postgres ping failed: refused")},
	)

	assert.False(t, healthy)
	assert.Equal(t, map[string]string{
		"redis":    "ok",
		"postgres": "postgres ping failed: refused",
	}, status)
}

func TestCheckAll_NoDependencies(t *testing.T) {
	status, healthy := CheckAll(context.Background(), time.Second)
	assert.True(t, healthy)
	assert.Empty(t, status)
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRedis_PoolSettings(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.RedisConfig
		wantPool    int
		wantDial    time.Duration
		wantMinIdle int
	}{
		{
			name:        "defaults when unset",
			cfg:         config.RedisConfig{Address: "localhost:6379"},
			wantPool:    10,
			wantDial:    5 * time.Second,
			wantMinIdle: 2,
		},
		{
			name:        "configured values",
			cfg:         config.RedisConfig{Address: "localhost:6379", PoolSize: 25, DialTimeout: 750},
			wantPool:    25,
			wantDial:    750 * time.Millisecond,
			wantMinIdle: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewRedis(tt.cfg)
			defer client.Close()

			opts := client.Client.Options()
			assert.Equal(t, tt.wantPool, opts.PoolSize)
			assert.Equal(t, tt.wantDial, opts.DialTimeout)
			assert.Equal(t, tt.wantMinIdle, opts.MinIdleConns)
		})
	}
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	client := &PostgresClient{DB: db}

	mock.ExpectPing()
	require.NoError(t, client.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = client.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres ping failed")

	mock.ExpectClose()
	require.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgres_AppliesPoolSettings(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host: "localhost", Port: 5432, Database: "placements", User: "analytics",
		SSLMode: "disable", MaxConnections: 7, MaxIdle: 2,
	})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 7, client.DB.Stats().MaxOpenConnections)
}

func TestNewElasticsearch(t *testing.T) {
	for _, retries := range []int{0, 3} {
		client, err := NewElasticsearch(config.ElasticsearchConfig{URL: "http://localhost:9200", MaxRetries: retries})
		require.NoError(t, err)
		assert.Equal(t, "elasticsearch", client.Name())
		assert.NoError(t, client.Close())
	}
}
