package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aevon-lab/ledgerbook/internal/core/storage/memory"
	storagemocks "github.com/aevon-lab/ledgerbook/internal/mocks/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealth_Healthy(t *testing.T) {
	s := New(":0", memory.NewStore(), "release")

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"healthy"`)
}

func TestHealth_StoreDown(t *testing.T) {
	store := storagemocks.NewEventStore(t)
	store.EXPECT().Ping(mock.Anything).Return(errors.New("connection refused")).Once()

	s := New(":0", store, "release")

	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.Contains(t, resp.Body.String(), "unhealthy")
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := New("127.0.0.1:0", nil, "release")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
