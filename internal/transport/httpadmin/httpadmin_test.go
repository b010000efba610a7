package httpadmin_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/room"
	"github.com/masc-mcp/masc-mcp/internal/storage"
	"github.com/masc-mcp/masc-mcp/internal/transport/httpadmin"
)

func TestHealthzAndStatus(t *testing.T) {
	r := room.New("test-room", storage.NewMemory(), nil)
	router := httpadmin.NewRouter(r)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/status", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "protocol_version")
}
