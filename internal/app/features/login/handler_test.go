package login

import (
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/nexushub/nexushub/internal/app/system/auth"
	"github.com/nexushub/nexushub/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sessionMgr, err := auth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "nexushub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(db, sessionMgr, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestServeLogin_WrongPasswordAndUnknownEmailAnswerAlike(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "Alice", "alice@test.com", "member")

	wrongPassword := testutil.NewJSONRequest(t, http.MethodPost, "/api/login",
		map[string]string{"email": "alice@test.com", "password": "not-the-password"})
	rec := testutil.NewRecorder()
	h.ServeLogin(rec.ResponseRecorder, wrongPassword)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "invalid email or password")

	unknownEmail := testutil.NewJSONRequest(t, http.MethodPost, "/api/login",
		map[string]string{"email": "nobody@test.com", "password": "whatever123"})
	rec = testutil.NewRecorder()
	h.ServeLogin(rec.ResponseRecorder, unknownEmail)
	rec.AssertStatus(t, http.StatusUnauthorized)
	rec.AssertContains(t, "invalid email or password")
}

func TestServeLogin_RateLimitedPerEmail(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateUser(ctx, "Alice", "alice@test.com", "member")

	// The per-email budget is 5 attempts; the sixth gets a 429 before any
	// password check runs.
	var last *testutil.ResponseRecorder
	for i := 0; i < 6; i++ {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/login",
			map[string]string{"email": "alice@test.com", "password": "wrong-password"})
		req.RemoteAddr = fmt.Sprintf("10.0.0.%d:1234", i+1)
		last = testutil.NewRecorder()
		h.ServeLogin(last.ResponseRecorder, req)
	}
	last.AssertStatus(t, http.StatusTooManyRequests)
	last.AssertContains(t, "too many login attempts")
}

func TestServeRegister_DuplicateEmailConflicts(t *testing.T) {
	h, f := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Duplicate detection rides on the unique email_ci index that
	// EnsureSchema creates in production.
	_, err := f.DB().Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("create email index: %v", err)
	}

	f.CreateUser(ctx, "Alice", "alice@test.com", "member")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/register",
		map[string]string{
			"full_name": "Alice Again",
			"email":     "ALICE@test.com",
			"password":  "longenough1",
		})
	rec := testutil.NewRecorder()
	h.ServeRegister(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "already exists")
}
