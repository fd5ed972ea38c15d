package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/postmark-transport/internal"
	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/transport"
)

// fakePostmark records request paths and answers like the Postmark API.
type fakePostmark struct {
	mu    sync.Mutex
	paths []string
	srv   *httptest.Server
}

func newFakePostmark(t *testing.T) *fakePostmark {
	t.Helper()

	f := &fakePostmark{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.paths = append(f.paths, r.URL.Path)
		f.mu.Unlock()

		assert.Equal(t, "test-token", r.Header.Get("X-Postmark-Server-Token"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/email", "/email/withTemplate":
			_, _ = io.WriteString(w, `{"To":"c@d.org","MessageID":"m-1","ErrorCode":0,"Message":"OK"}`)
		case "/email/batch":
			_, _ = io.WriteString(w, `[
				{"To":"a@b.org","MessageID":"m-1","ErrorCode":0,"Message":"OK"},
				{"To":"bad","ErrorCode":300,"Message":"Invalid email request"}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakePostmark) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

const testSendToken = "0123456789abcdef"

func testConfig(baseURL string) *internal.Config {
	return &internal.Config{
		Env:              "dev",
		LogLevel:         "error",
		Port:             3000,
		MetricsNamespace: "test",
		Postmark: internal.PostmarkConfig{
			APIToken:       "test-token",
			BaseURL:        baseURL,
			TimeoutSeconds: 5,
		},
		Server:    internal.ServerConfig{AuthToken: testSendToken},
		RateLimit: internal.RateLimitConfig{RequestsPerSecond: 0, Burst: 1},
		Storage:   internal.StorageConfig{Provider: "none"},
	}
}

func execute(t *testing.T, cfg *internal.Config, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand(func() (*internal.Config, error) { return cfg, nil })
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestSendCommand_FromFile(t *testing.T) {
	pm := newFakePostmark(t)

	path := filepath.Join(t.TempDir(), "mail.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"from":"a@b.org","to":"c@d.org","subject":"Hi","text":"Hi"}`), 0o600))

	out, err := execute(t, testConfig(pm.srv.URL), "", "send", "--file", path)
	require.NoError(t, err)

	var res transport.SendResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "m-1", res.MessageID)
	assert.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Rejected)
	assert.Equal(t, []string{"/email"}, pm.requested())
}

func TestSendCommand_TemplateFromStdin(t *testing.T) {
	pm := newFakePostmark(t)

	_, err := execute(t, testConfig(pm.srv.URL), `{"to":"c@d.org","templateAlias":"welcome"}`, "send")
	require.NoError(t, err)
	assert.Equal(t, []string{"/email/withTemplate"}, pm.requested())
}

func TestSendCommand_InvalidInputSkipsProvider(t *testing.T) {
	pm := newFakePostmark(t)

	tests := []struct {
		name  string
		stdin string
	}{
		{name: "malformed json", stdin: `{"to":`},
		{name: "bad link tracking", stdin: `{"to":"c@d.org","trackLinks":"sometimes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, testConfig(pm.srv.URL), tt.stdin, "send")
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
	assert.Empty(t, pm.requested())
}

func TestBatchCommand(t *testing.T) {
	pm := newFakePostmark(t)

	out, err := execute(t, testConfig(pm.srv.URL), `[{"to":"a@b.org"},{"to":"bad"}]`, "batch")
	require.NoError(t, err)

	var res transport.SendResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Accepted, 1)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 300, res.Rejected[0].ErrorCode)
	assert.Equal(t, []string{"/email/batch"}, pm.requested())
}

func TestBatchCommand_NullEntry(t *testing.T) {
	pm := newFakePostmark(t)

	_, err := execute(t, testConfig(pm.srv.URL), `[null]`, "batch")
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Empty(t, pm.requested())
}

func TestSendCommand_ConfigError(t *testing.T) {
	cmd := newRootCommand(func() (*internal.Config, error) {
		return nil, &domain.ValidationError{Op: "config.load", Fields: map[string]string{"POSTMARK_API_TOKEN": "is required"}}
	})
	cmd.SetIn(strings.NewReader(`{}`))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"send"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, nil, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "postmark-transport "+transport.Version+"\n", out)
}

func newTestServer(t *testing.T, cfg *internal.Config) http.Handler {
	t.Helper()

	a, err := newApp(cfg, io.Discard)
	require.NoError(t, err)
	t.Cleanup(a.cleanup)

	h, closeHandler, err := newServerHandler(a)
	require.NoError(t, err)
	t.Cleanup(closeHandler)
	return h
}

func sendRequest(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testSendToken)
	return req
}

func TestServerHandler(t *testing.T) {
	pm := newFakePostmark(t)
	h := newTestServer(t, testConfig(pm.srv.URL))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, sendRequest("/send", `{"to":"c@d.org","subject":"Hi"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "test_http_requests_total")
	assert.Contains(t, body, "test_mail_messages_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestServerHandler_RequiresToken(t *testing.T) {
	pm := newFakePostmark(t)
	h := newTestServer(t, testConfig(pm.srv.URL))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send", strings.NewReader(`{"to":"c@d.org"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, pm.requested())
}

func TestServerHandler_RejectsLocalAndRemoteAttachments(t *testing.T) {
	pm := newFakePostmark(t)
	h := newTestServer(t, testConfig(pm.srv.URL))

	secret := filepath.Join(t.TempDir(), "secret.env")
	require.NoError(t, os.WriteFile(secret, []byte("POSTMARK_API_TOKEN=server-secret"), 0o644))

	internalHits := 0
	internalSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		internalHits++
	}))
	defer internalSrv.Close()

	tests := []struct {
		name       string
		attachment map[string]string
	}{
		{name: "local path", attachment: map[string]string{"path": secret}},
		{name: "url path", attachment: map[string]string{"path": internalSrv.URL + "/admin"}},
		{name: "href", attachment: map[string]string{"href": internalSrv.URL + "/admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]any{
				"to":          "attacker@evil.test",
				"attachments": []map[string]string{tt.attachment},
			})
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, sendRequest("/send", string(body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"invalid"`)
			assert.NotContains(t, rec.Body.String(), "server-secret")
		})
	}

	assert.Empty(t, pm.requested())
	assert.Zero(t, internalHits)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, sendRequest("/send", `{"to":"c@d.org","attachments":[{"filename":"a.txt","content":"hi"},{"path":"data:text/plain;base64,aGk="}]}`))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeCommand_RequiresSendToken(t *testing.T) {
	pm := newFakePostmark(t)
	cfg := testConfig(pm.srv.URL)
	cfg.Server.AuthToken = ""

	_, err := execute(t, cfg, "", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEND_AUTH_TOKEN")
}
