package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zigwheels/catalog-sync/database"
	"github.com/zigwheels/catalog-sync/internal/jobs"
	jobsmocks "github.com/zigwheels/catalog-sync/internal/jobs/mocks"
)

// mockCoordinator implements the coordinator.Coordinator interface for testing
type mockCoordinator struct {
	mu          sync.Mutex
	startCalled bool
	stopCalled  bool
}

func (m *mockCoordinator) Start(ctx context.Context) error {
	m.mu.Lock()
	m.startCalled = true
	m.mu.Unlock()
	<-ctx.Done()
	return nil
}

func (m *mockCoordinator) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalled = true
	return nil
}

func (m *mockCoordinator) wasStartCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalled
}

func (m *mockCoordinator) wasStopCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalled
}

// createTestApp builds a CatalogSyncApp around a mocked run store and
// coordinator, bypassing the database
func createTestApp(t *testing.T, ctrl *gomock.Controller, addr string) (*CatalogSyncApp, *mockCoordinator) {
	t.Helper()

	table, err := jobs.NewTable()
	require.NoError(t, err)
	store := jobsmocks.NewMockRunStore(ctrl)
	coord := &mockCoordinator{}
	components := &AppComponents{
		Runner:          jobs.NewRunner(table, store),
		Runs:            store,
		SyncCoordinator: coord,
	}

	appCfg, err := baseConfig(WithConfig(createValidTestConfig()), WithAddress(addr))
	require.NoError(t, err)
	server, err := buildHTTPServer(context.Background(), appCfg, components)
	require.NoError(t, err)

	appCtx, cancel := context.WithCancel(context.Background())
	return &CatalogSyncApp{
		config:     appCfg.config,
		components: components,
		httpServer: server,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, coord
}

func freeAddress(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func TestCatalogSyncApp_StartStop(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app, coord := createTestApp(t, ctrl, ":0")
	app.httpServer.Addr = freeAddress(t)

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + app.httpServer.Addr + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, coord.wasStartCalled(), "sync coordinator should be started")

	require.NoError(t, app.Stop(5*time.Second))
	assert.True(t, coord.wasStopCalled(), "sync coordinator should be stopped")

	select {
	case startErr := <-errChan:
		require.NoError(t, startErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}
}

func TestCatalogSyncApp_StartAddressInUse(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	ctrl := gomock.NewController(t)
	app, _ := createTestApp(t, ctrl, ":0")
	app.httpServer.Addr = listener.Addr().String()

	err = app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP server failed")
	require.NoError(t, app.Stop(time.Second))
}

func TestCatalogSyncApp_Getters(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app, _ := createTestApp(t, ctrl, ":9090")
	assert.NotNil(t, app.GetConfig())
	assert.Equal(t, ":9090", app.GetHTTPServer().Addr)
	assert.Equal(t, defaultReadTimeout, app.GetHTTPServer().ReadTimeout)
	assert.NotNil(t, app.Components().Runner)
	require.NoError(t, app.Stop(time.Second))
}

// catalogStub answers catalog requests from a map of endpoint to envelope body
type catalogStub struct {
	bodies map[string]string
}

func (s *catalogStub) Get(_ context.Context, url string) ([]byte, error) {
	for endpoint, body := range s.bodies {
		if strings.Contains(url, "/"+endpoint+"?") {
			return []byte(body), nil
		}
	}
	return nil, fmt.Errorf("unexpected request %s", url)
}

func TestCatalogSyncApp_TriggerBrandsAgainstPostgres(t *testing.T) {
	t.Parallel()

	pool, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)

	stub := &catalogStub{bodies: map[string]string{
		"brand/index": `{"data":[{"id":30,"name":"Toyota","slug":"toyota"},{"id":null,"name":"Ghost"}]}`,
	}}

	app, err := NewCatalogSyncApp(context.Background(),
		WithConfig(createValidTestConfig()),
		WithPool(pool),
		WithHTTPClient(stub),
		WithAddress(":0"),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, app.Stop(5*time.Second))
		// the injected pool stays open
		require.NoError(t, pool.Ping(context.Background()))
	})

	handler := app.GetHTTPServer().Handler

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readiness", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/jobs/sync-brands", nil))
	require.Equal(t, http.StatusAccepted, rr.Code)

	var accepted struct {
		RunID uuid.UUID `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))

	var run jobs.Run
	require.Eventually(t, func() bool {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/runs/"+accepted.RunID.String(), nil))
		if rr.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &run); err != nil {
			return false
		}
		return run.Status != jobs.StatusRunning
	}, 10*time.Second, 50*time.Millisecond)

	assert.Equal(t, jobs.StatusCompleted, run.Status)
	assert.Equal(t, "sync-brands", run.Job)
	assert.Equal(t, 1, run.Processed)

	var brands int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT count(*) FROM brand").Scan(&brands))
	assert.Equal(t, 1, brands)
}
