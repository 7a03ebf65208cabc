package health

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/nexushub/nexushub/internal/testutil"
)

func TestServe_HealthyDatabase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewHandler(db.Client(), zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/health")
	rec := testutil.NewRecorder()
	h.Serve(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"ok"`)
	rec.AssertContains(t, `"database":"connected"`)
}

func TestServe_NoDatabaseClient(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/health")
	rec := testutil.NewRecorder()
	h.Serve(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusServiceUnavailable)
}
