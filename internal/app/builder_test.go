package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zigwheels/catalog-sync/internal/config"
)

// createValidTestConfig creates a minimal valid config for testing
func createValidTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Sync.Schedules = map[string]string{config.StageBrands: "24h"}
	return cfg
}

func TestNewCatalogSyncAppBuilder(t *testing.T) {
	t.Parallel()

	built, err := baseConfig(WithConfig(createValidTestConfig()))
	require.NoError(t, err)
	require.NotNil(t, built)
	assert.Equal(t, defaultHTTPAddress, built.address)
	assert.Equal(t, defaultRequestTimeout, built.requestTimeout)
	assert.Equal(t, defaultReadTimeout, built.readTimeout)
	assert.Equal(t, defaultWriteTimeout, built.writeTimeout)
	assert.Equal(t, defaultIdleTimeout, built.idleTimeout)
	assert.Nil(t, built.pool)
	assert.Nil(t, built.httpClient)
}

func TestWithAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "port only", address: ":9090"},
		{name: "ipv4 with port", address: "127.0.0.1:8080"},
		{name: "ephemeral port", address: ":0"},
		{name: "missing port", address: ":", wantErr: true},
		{name: "no separator", address: "8080", wantErr: true},
		{name: "hostname", address: "localhost:8080", wantErr: true},
		{name: "port out of range", address: ":70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			built, err := baseConfig(WithConfig(createValidTestConfig()), WithAddress(tt.address))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, built)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.address, built.address)
		})
	}
}

func TestWithRequestTimeout(t *testing.T) {
	t.Parallel()

	built, err := baseConfig(WithRequestTimeout(3 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, built.requestTimeout)

	_, err = baseConfig(WithRequestTimeout(0))
	require.Error(t, err)
}

func TestWithMiddlewares(t *testing.T) {
	t.Parallel()

	mw := func(next http.Handler) http.Handler { return next }
	built, err := baseConfig(WithMiddlewares(mw, mw))
	require.NoError(t, err)
	assert.Len(t, built.middlewares, 2)
}

func TestBuildComponentsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []CatalogSyncAppOptions
		errContain string
	}{
		{
			name:       "nil config",
			opts:       nil,
			errContain: "config cannot be nil",
		},
		{
			name:       "no database configured",
			opts:       []CatalogSyncAppOptions{WithConfig(createValidTestConfig())},
			errContain: "database configuration is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			components, err := NewComponents(context.Background(), tt.opts...)
			require.Error(t, err)
			assert.Nil(t, components)
			assert.Contains(t, err.Error(), tt.errContain)

			app, err := NewCatalogSyncApp(context.Background(), tt.opts...)
			require.Error(t, err)
			assert.Nil(t, app)
		})
	}
}
