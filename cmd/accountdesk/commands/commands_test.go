package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/server"
	"github.com/ncobase/accountdesk/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offlineURL points at a port nothing listens on
const offlineURL = "http://127.0.0.1:1/api"

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type env struct {
	t      *testing.T
	dir    string
	config string
}

// newEnv writes a config using a fresh bolt file and the given backend
func newEnv(t *testing.T, baseURL string, extra ...string) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{t: t, dir: dir, config: filepath.Join(dir, "config.yaml")}
	body := fmt.Sprintf(`run_mode: release
storage:
  driver: bolt
  path: %s
api:
  base_url: %s
  timeout: 2s
logger:
  output: discard
%s
`, filepath.Join(dir, "desk.db"), baseURL, strings.Join(extra, "\n"))
	require.NoError(t, os.WriteFile(e.config, []byte(body), 0o600))
	return e
}

// newOnlineEnv starts the mock backend and points a config at it
func newOnlineEnv(t *testing.T) *env {
	t.Helper()
	bootstrap := newEnv(t, offlineURL)
	cfg, err := config.LoadConfig(bootstrap.config)
	require.NoError(t, err)
	srv, cleanup, err := server.Initialize(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cleanup()
	})
	return newEnv(t, ts.URL+"/api")
}

func (e *env) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	cmd := NewRootCmd()
	out := &syncBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config, "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, out)
	return out
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--json"})
	require.NoError(t, cmd.Execute())

	var info version.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestLoginWhoamiLogout(t *testing.T) {
	e := newOnlineEnv(t)

	out := e.mustRun("login", "-e", "admin@example.com", "-p", "admin123")
	assert.Contains(t, out, "Login successful!")
	assert.Contains(t, out, "Signed in as Admin User (admin)")
	assert.Contains(t, out, "Continue at /admin-dashboard")

	out = e.mustRun("whoami")
	assert.Contains(t, out, "admin@example.com")
	assert.Contains(t, out, "expires at")
	assert.NotContains(t, out, "Not signed in")

	out = e.mustRun("logout")
	assert.Contains(t, out, notice.MsgLoggedOut)

	out = e.mustRun("whoami")
	assert.Contains(t, out, "Not signed in")
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	e := newOnlineEnv(t)

	out, err := e.run("user123\n", "login", "-e", "user@example.com", "--return-url", "/profile")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Signed in as John Doe (user)")
	assert.Contains(t, out, "Continue at /profile")
}

func TestLoginRejected(t *testing.T) {
	e := newOnlineEnv(t)

	out, err := e.run("", "login", "-e", "admin@example.com", "-p", "wrong-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, ecode.ErrInvalidCredentials)
	assert.Contains(t, out, notice.MsgBadCredentials)
}

func TestLoginValidation(t *testing.T) {
	e := newEnv(t, offlineURL)

	_, err := e.run("", "login", "-e", "not-an-email", "-p", "secret1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ecode.ErrValidation)
}

func TestLoginRemembersEmail(t *testing.T) {
	e := newEnv(t, offlineURL)

	e.mustRun("login", "-e", "jane@example.com", "-p", "password123", "--remember")
	e.mustRun("logout")

	out := e.mustRun("login", "-p", "password123")
	assert.Contains(t, out, "Signed in as Jane Smith")
}

func TestOfflineLoginUsesDemoAccounts(t *testing.T) {
	e := newEnv(t, offlineURL)

	out := e.mustRun("login", "-e", "user@example.com", "-p", "user123")
	assert.Contains(t, out, notice.MsgDemoLogin)

	out = e.mustRun("whoami")
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "John Doe")

	out = e.mustRun("navigate", "/admin-dashboard")
	assert.Contains(t, out, "redirect-to-unauthorized")
	assert.Contains(t, out, "Redirected to /user-dashboard")
}

func TestNavigate(t *testing.T) {
	e := newEnv(t, offlineURL)

	out := e.mustRun("navigate")
	assert.Contains(t, out, "/admin-dashboard")
	assert.Contains(t, out, "role admin")

	out = e.mustRun("navigate", "/Profile/?tab=1")
	assert.Contains(t, out, "redirect-to-login")
	assert.Contains(t, out, "Redirected to /login?returnUrl=%2Fprofile")

	out = e.mustRun("navigate", "/auth/register")
	assert.Contains(t, out, "/register")
	assert.Contains(t, out, "allow")
}

func TestUsersNeedAdmin(t *testing.T) {
	e := newEnv(t, offlineURL)

	_, err := e.run("", "users", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), notice.MsgLoginRequired)

	e.mustRun("login", "-e", "user@example.com", "-p", "user123")
	_, err = e.run("", "users", "stats")
	require.Error(t, err)
	assert.ErrorIs(t, err, ecode.ErrAccessDenied)
}

func TestUsersAdminFlow(t *testing.T) {
	e := newOnlineEnv(t)
	e.mustRun("login", "-e", "admin@example.com", "-p", "admin123")

	out := e.mustRun("users", "list")
	assert.Contains(t, out, "user@example.com")
	assert.Contains(t, out, "jane@example.com")

	out = e.mustRun("users", "list", "--status", "active", "--search", "jane")
	assert.Contains(t, out, "jane@example.com")
	assert.NotContains(t, out, "user@example.com")

	out = e.mustRun("users", "create", "-n", "Test Person", "-e", "test@example.com", "-p", "secret123")
	assert.Contains(t, out, "Created Test Person (test@example.com)")

	out = e.mustRun("users", "toggle", "2")
	assert.Contains(t, out, "user@example.com deactivated")

	out = e.mustRun("users", "update", "3", "--verified")
	assert.Contains(t, out, "Updated jane@example.com")

	out = e.mustRun("users", "reset", "3")
	assert.Contains(t, out, "Temporary password:")

	out = e.mustRun("users", "stats")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "5")

	out = e.mustRun("users", "delete", "4")
	assert.Contains(t, out, "Deleted account 4")

	_, err := e.run("", "users", "list", "--status", "sleeping")
	assert.ErrorIs(t, err, ecode.ErrValidation)
}

func TestProfileEditKeepsDraftUntilSubmitted(t *testing.T) {
	e := newOnlineEnv(t)
	e.mustRun("login", "-e", "user@example.com", "-p", "user123")

	// the stored mobile does not pass the profile form rules
	out, err := e.run("", "profile", "edit", "--address", "1 Main Street")
	require.Error(t, err)
	assert.ErrorIs(t, err, ecode.ErrValidation)
	assert.Contains(t, out, "Changes kept as a draft")

	out = e.mustRun("profile", "draft")
	assert.Contains(t, out, "1 Main Street")
	assert.Contains(t, out, "expires at")

	out = e.mustRun("profile", "show")
	assert.Contains(t, out, "Unsaved changes")

	out = e.mustRun("profile", "edit", "--mobile", "0987654321")
	assert.Contains(t, out, "Profile updated successfully!")

	out = e.mustRun("profile", "draft")
	assert.Contains(t, out, "No saved draft")

	out = e.mustRun("profile", "show")
	assert.Contains(t, out, "1 Main Street")
	assert.Contains(t, out, "0987654321")
}

func TestProfileDraftDiscard(t *testing.T) {
	e := newEnv(t, offlineURL)
	e.mustRun("login", "-e", "user@example.com", "-p", "user123")

	out := e.mustRun("profile", "edit", "--no-submit", "--gender", "other")
	assert.Contains(t, out, "Changes kept as a draft")

	out = e.mustRun("profile", "draft")
	assert.Contains(t, out, "other")

	out = e.mustRun("profile", "discard")
	assert.Contains(t, out, "Draft discarded")

	out = e.mustRun("profile", "draft")
	assert.Contains(t, out, "No saved draft")
}

func TestProfileRequiresSession(t *testing.T) {
	e := newEnv(t, offlineURL)

	out, err := e.run("", "profile", "show")
	require.Error(t, err)
	assert.Contains(t, out, "Sign in first")
}

func TestRegisterResumesFromDraft(t *testing.T) {
	e := newEnv(t, offlineURL)

	_, err := e.run("Secret123\nSecret123\n", "register",
		"-n", "Ada Lovelace", "-e", "ada@example.com", "-m", "bad", "--accept-terms")
	require.Error(t, err)
	assert.ErrorIs(t, err, ecode.ErrValidation)

	out, err := e.run("Secret123\nSecret123\n", "register", "-m", "5551234567")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Registration successful! (Demo Mode)")
	assert.Contains(t, out, "Welcome, Ada Lovelace")

	out = e.mustRun("whoami")
	assert.Contains(t, out, "ada@example.com")
}

func TestForgotPasswordIsUniform(t *testing.T) {
	e := newOnlineEnv(t)

	known := e.mustRun("forgot-password", "-e", "user@example.com")
	unknown := e.mustRun("forgot-password", "-e", "nobody@example.com")
	assert.Contains(t, known, notice.MsgResetRequested)
	assert.Equal(t, known, unknown)
}

func TestChangePasswordAndRefresh(t *testing.T) {
	e := newOnlineEnv(t)

	_, err := e.run("", "change-password", "--current", "user123", "--new", "N3w@Passw0rd", "--confirm", "N3w@Passw0rd")
	require.Error(t, err)

	e.mustRun("login", "-e", "user@example.com", "-p", "user123")
	out := e.mustRun("refresh")
	assert.Contains(t, out, "Tokens refreshed")

	out, err = e.run("user123\nN3w@Passw0rd\nN3w@Passw0rd\n", "change-password")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Password updated successfully!")

	e.mustRun("logout")
	out = e.mustRun("login", "-e", "user@example.com", "-p", "N3w@Passw0rd")
	assert.Contains(t, out, "Signed in as John Doe")
}

func TestWatchSignsOutWhenIdle(t *testing.T) {
	e := newEnv(t, offlineURL, "session:\n  timeout: 300ms\n  warning_lead: 150ms")
	e.mustRun("login", "-e", "user@example.com", "-p", "user123")

	out := e.mustRun("watch")
	assert.Contains(t, out, "Watching session of user@example.com")
	warn := strings.Index(out, notice.MsgSessionWarning)
	expired := strings.Index(out, notice.MsgSessionExpired)
	require.GreaterOrEqual(t, warn, 0, out)
	require.Greater(t, expired, warn, out)

	out = e.mustRun("whoami")
	assert.Contains(t, out, "Not signed in")
}

func TestActivityReaderStopsWithWatch(t *testing.T) {
	pr, pw := io.Pipe()
	stop := make(chan struct{})
	var mu sync.Mutex
	lines := 0
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		readActivity(context.Background(), stop, newLineReader(pr), func(context.Context) {
			mu.Lock()
			defer mu.Unlock()
			lines++
		})
	}()

	_, err := pw.Write([]byte("tap\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return lines == 1
	}, time.Second, 5*time.Millisecond)

	stopInput(pr, stop)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("reader still blocked after watch returned")
	}
	_, err = pw.Write([]byte("late\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	mu.Lock()
	assert.Equal(t, 1, lines)
	mu.Unlock()
}

func TestWatchWithoutSession(t *testing.T) {
	e := newEnv(t, offlineURL)

	_, err := e.run("", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), notice.MsgLoginRequired)
}

func TestPrinterTags(t *testing.T) {
	var out, errOut bytes.Buffer
	p := newPrinter(&out, &errOut, false)

	p.Success("done %d", 1)
	p.Info("note")
	p.Warning("careful")
	assert.Equal(t, "[OK] done 1\n[INFO] note\n", out.String())
	assert.Equal(t, "[WARN] careful\n", errOut.String())

	out.Reset()
	require.NoError(t, p.Table([]string{"name", "role"}, [][]string{{"Ada", "admin"}}))
	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "Ada")
}
