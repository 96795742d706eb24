package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"alumnet/internal/audit"
	auditmemory "alumnet/internal/audit/store/memory"
	"alumnet/internal/credential"
	credmemory "alumnet/internal/credential/store/memory"
	"alumnet/internal/jwtsession"
	"alumnet/internal/mentorship"
	mentmemory "alumnet/internal/mentorship/store/memory"
	"alumnet/internal/messaging"
	msgmemory "alumnet/internal/messaging/store/memory"
	"alumnet/internal/platform/logger"
	"alumnet/internal/referral"
	refmemory "alumnet/internal/referral/store/memory"
	"alumnet/internal/registration"
	"alumnet/internal/relyingparty"
	rpmemory "alumnet/internal/relyingparty/store/memory"
	"alumnet/internal/secondfactor"
	sfmemory "alumnet/internal/secondfactor/store/memory"
	httptransport "alumnet/internal/transport/http"
	"alumnet/internal/verifier"
)

const adminToken = "test-admin-token"

type capturingDeliverer struct {
	mu    sync.Mutex
	codes []string
}

func (d *capturingDeliverer) Deliver(_ context.Context, _, code string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.codes = append(d.codes, code)
	return nil
}

func (d *capturingDeliverer) latest() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.codes[len(d.codes)-1]
}

type fixture struct {
	router    http.Handler
	deliverer *capturingDeliverer
	store     audit.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New()

	auditStore := auditmemory.New()
	publisher := audit.NewPublisher(log)
	worker := audit.NewWorker(auditStore, publisher.Inbox(), log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()
	t.Cleanup(func() { <-done })
	t.Cleanup(cancel)

	deliverer := &capturingDeliverer{}
	csp := credential.New(credmemory.New(), publisher)
	ra := registration.New(csp)
	vf := verifier.New(csp)
	sf := secondfactor.New(sfmemory.New(), deliverer)
	tokens := jwtsession.New("test-signing-key", "alumnet")
	rp := relyingparty.New(rpmemory.New(), vf, sf, tokens, publisher)

	handler := httptransport.NewHandler(
		log,
		ra,
		rp,
		csp,
		messaging.New(msgmemory.New(), csp),
		referral.New(refmemory.New(), publisher),
		mentorship.New(mentmemory.New(), csp),
		auditStore,
		tokens,
		adminToken,
	)

	return &fixture{
		router:    httptransport.NewRouter(handler),
		deliverer: deliverer,
		store:     auditStore,
	}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) register(t *testing.T, email, role string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Test Person",
		"email":    email,
		"password": "correct horse battery",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.UserID
}

func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var loginResp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginResp))

	rec = f.do(t, http.MethodPost, "/api/auth/verify", "", map[string]string{
		"session_id": loginResp.SessionID,
		"code":       f.deliverer.latest(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var verifyResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verifyResp))
	return verifyResp.Token
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "",
		"email":    "nope",
		"password": "x",
		"role":     "wizard",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "validation")
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@example.edu", "alumni")

	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.edu",
		"password": "wrong password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid email or password")

	// Unknown email renders the identical body.
	rec2 := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ghost@example.edu",
		"password": "wrong password",
	})
	require.Equal(t, http.StatusUnauthorized, rec2.Code)
	require.Equal(t, rec.Body.String(), rec2.Body.String())
}

func TestFullLoginAndDirectory(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@example.edu", "alumni")
	token := f.login(t, "ada@example.edu")

	rec := f.do(t, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "key_material")
	require.NotContains(t, rec.Body.String(), "password")
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	f := newFixture(t)
	for _, path := range []string{"/api/users", "/api/messages", "/api/referrals", "/api/mentorships"} {
		rec := f.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestStudentCannotPostReferral(t *testing.T) {
	f := newFixture(t)
	f.register(t, "sam@example.edu", "student")
	token := f.login(t, "sam@example.edu")

	rec := f.do(t, http.MethodPost, "/api/referrals", token, map[string]string{
		"company":     "Acme",
		"role":        "Engineer",
		"description": "A referral.",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReferralLifecycle(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@example.edu", "alumni")
	token := f.login(t, "ada@example.edu")

	rec := f.do(t, http.MethodPost, "/api/referrals", token, map[string]string{
		"company":     "Acme Robotics",
		"role":        "Platform Engineer",
		"description": "Ping me for a referral.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/referrals", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"integrity_ok":true`)
}

func TestMessagingBetweenUsers(t *testing.T) {
	f := newFixture(t)
	f.register(t, "sam@example.edu", "student")
	adaID := f.register(t, "ada@example.edu", "alumni")
	samToken := f.login(t, "sam@example.edu")

	rec := f.do(t, http.MethodPost, "/api/messages", samToken, map[string]string{
		"recipient_id": adaID,
		"body":         "hello from a student",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	adaToken := f.login(t, "ada@example.edu")
	rec = f.do(t, http.MethodGet, "/api/messages", adaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "hello from a student")

	// The sender reads the same message back through the conversation view.
	rec = f.do(t, http.MethodGet, "/api/messages?with="+adaID, samToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "hello from a student")

	rec = f.do(t, http.MethodGet, "/api/messages?with=not-a-user-id", samToken, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMentorshipLifecycle(t *testing.T) {
	f := newFixture(t)
	f.register(t, "sam@example.edu", "student")
	adaID := f.register(t, "ada@example.edu", "alumni")
	samToken := f.login(t, "sam@example.edu")

	rec := f.do(t, http.MethodPost, "/api/mentorships", samToken, map[string]string{
		"mentor_id": adaID,
		"topic":     "career advice",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		MentorshipID string `json:"mentorship_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// The student cannot approve their own request.
	rec = f.do(t, http.MethodPost, "/api/mentorships/"+created.MentorshipID+"/approve", samToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adaToken := f.login(t, "ada@example.edu")
	rec = f.do(t, http.MethodPost, "/api/mentorships/"+created.MentorshipID+"/approve", adaToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"status":"approved"`)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "ada@example.edu", "alumni")
	token := f.login(t, "ada@example.edu")

	rec := f.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The token still parses but its session is gone.
	rec = f.do(t, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuditLogRequiresAdminToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/logs", "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("X-Admin-Token", "wrong-token")
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	res = httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
