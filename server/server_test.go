package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/accountdesk/client"
	"github.com/ncobase/accountdesk/concurrency/worker"
	"github.com/ncobase/accountdesk/config"
	"github.com/ncobase/accountdesk/directory"
	"github.com/ncobase/accountdesk/ecode"
	"github.com/ncobase/accountdesk/logging/logger"
	"github.com/ncobase/accountdesk/messaging/email"
	"github.com/ncobase/accountdesk/notice"
	"github.com/ncobase/accountdesk/security/jwt"
	"github.com/ncobase/accountdesk/storage/kv"
	"github.com/ncobase/accountdesk/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	srv    *Server
	http   *httptest.Server
	mailer *email.LogSender
	jobs   *worker.Pool
	token  string
}

func newFixture(t *testing.T, burst ...int) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := 50
	if len(burst) > 0 {
		b = burst[0]
	}
	cfg := &config.Config{
		Host: "127.0.0.1",
		Port: 8080,
		Auth: &config.Auth{
			JWT:       &config.JWT{Secret: "test-secret"},
			LoginRate: &config.LoginRate{PerMinute: 1, Burst: b},
		},
		Email: &config.Email{},
	}
	log := logger.StdLogger()
	dir := directory.New(directory.WithCost(bcrypt.MinCost))
	require.NoError(t, dir.Seed(context.Background(), directory.DemoAccounts()))

	f := &fixture{mailer: email.NewLogSender()}
	f.jobs = worker.NewPool(worker.DefaultConfig())
	f.jobs.Start()
	f.srv = New(cfg, dir, jwt.NewTokenManager("test-secret"), kv.NewMemory(), f.mailer, f.jobs, log)
	f.http = httptest.NewServer(f.srv.Handler())
	t.Cleanup(f.http.Close)
	t.Cleanup(func() { f.jobs.Stop(context.Background()) })
	return f
}

// client returns an API client that sends the fixture's current token
func (f *fixture) client() *client.Client {
	return client.New(&config.API{BaseURL: f.http.URL + "/api", Timeout: 5 * time.Second},
		client.WithTokenSource(client.TokenFunc(func() string { return f.token })))
}

func (f *fixture) login(t *testing.T, email, password string) *structs.AuthResponse {
	t.Helper()
	res, err := f.client().Login(context.Background(), structs.LoginData{Email: email, Password: password})
	require.NoError(t, err)
	f.token = res.Token
	return res
}

// drain waits for queued mail
func (f *fixture) drain() []email.Sent {
	f.jobs.Stop(context.Background())
	return f.mailer.Sent()
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestLoginAndProfile(t *testing.T) {
	f := newFixture(t)
	res := f.login(t, "admin@example.com", "admin123")
	assert.True(t, res.User.IsAdmin())
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.NotEmpty(t, res.RefreshToken)

	me, err := f.client().Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", me.Email)
}

func TestLoginByUsername(t *testing.T) {
	f := newFixture(t)
	_, err := f.client().Login(context.Background(), structs.LoginData{Email: "johndoe", Password: "user123"})
	// the login form requires an email address
	var ve *ecode.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Field("email"))
}

func TestLoginRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.client().Login(context.Background(), structs.LoginData{Email: "admin@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ecode.ErrInvalidCredentials)
}

func TestProfileRequiresToken(t *testing.T) {
	f := newFixture(t)
	_, err := f.client().Profile(context.Background())
	assert.ErrorIs(t, err, ecode.ErrSessionExpired)
}

func TestRefreshRotates(t *testing.T) {
	f := newFixture(t)
	first := f.login(t, "user@example.com", "user123")
	c := f.client()
	ctx := context.Background()

	second, err := c.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = c.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ecode.ErrSessionExpired)

	_, err = c.Profile(ctx)
	assert.ErrorIs(t, err, ecode.ErrSessionExpired, "old access token is revoked with its pair")

	f.token = second.Token
	_, err = c.Profile(ctx)
	assert.NoError(t, err)
}

func TestLogoutRevokes(t *testing.T) {
	f := newFixture(t)
	res := f.login(t, "user@example.com", "user123")
	c := f.client()
	ctx := context.Background()

	require.NoError(t, c.Logout(ctx, res.RefreshToken))
	_, err := c.Profile(ctx)
	assert.ErrorIs(t, err, ecode.ErrSessionExpired)
	assert.NoError(t, c.Logout(ctx, res.RefreshToken))
}

func TestAdminRoutesGuarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.login(t, "user@example.com", "user123")
	_, err := f.client().ListUsers(ctx, structs.UserFilter{})
	assert.ErrorIs(t, err, ecode.ErrAccessDenied)

	f.login(t, "admin@example.com", "admin123")
	users, err := f.client().ListUsers(ctx, structs.UserFilter{Search: "jane"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "jane@example.com", users[0].Email)

	stats, err := f.client().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 1, stats.AdminAccounts)
}

func TestToggleStatusEndsSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.login(t, "user@example.com", "user123")
	userToken := f.token

	f.login(t, "admin@example.com", "admin123")
	updated, err := f.client().ToggleUserStatus(ctx, "2")
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = f.client().ToggleUserStatus(ctx, "1")
	assert.Error(t, err, "admins cannot deactivate themselves")

	f.token = userToken
	_, err = f.client().Profile(ctx)
	assert.ErrorIs(t, err, ecode.ErrSessionExpired)

	_, err = f.client().Login(ctx, structs.LoginData{Email: "user@example.com", Password: "user123"})
	assert.ErrorIs(t, err, ecode.ErrAccountDeactivated)
}

func TestAdminCreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "admin@example.com", "admin123")
	c := f.client()

	created, err := c.CreateUser(ctx, structs.CreateUserBody{
		FullName: "Sam Carter", Email: "sam@example.com", Role: structs.RoleUser, Password: "secret1",
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	_, err = c.CreateUser(ctx, structs.CreateUserBody{
		FullName: "Sam Again", Email: "sam@example.com", Role: structs.RoleUser, Password: "secret1",
	})
	assert.ErrorIs(t, err, ecode.ErrConflict)

	role := structs.RoleAdmin
	updated, err := c.UpdateUser(ctx, created.ID, structs.UpdateUserBody{Role: &role})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())

	require.NoError(t, c.DeleteUser(ctx, created.ID))
	err = c.DeleteUser(ctx, created.ID)
	assert.ErrorIs(t, err, ecode.ErrNotFound)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.client().Register(context.Background(), structs.RegistrationData{
		FullName: "New Person", Email: "not-an-email", Mobile: "5551234567",
		Password: "Secret12", ConfirmPassword: "Secret12", Terms: true,
	})
	var ve *ecode.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Field("email"))
	assert.ErrorIs(t, err, ecode.ErrValidation)
}

func TestRegisterSignsIn(t *testing.T) {
	f := newFixture(t)
	res, err := f.client().Register(context.Background(), structs.RegistrationData{
		FullName: "New Person", Email: "new@example.com", Mobile: "5551234567",
		Password: "Secret12", ConfirmPassword: "Secret12", Terms: true,
	})
	require.NoError(t, err)
	assert.Equal(t, structs.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Token)
}

func TestForgotPasswordIsUniform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client()

	known, err := c.ForgotPassword(ctx, structs.ForgotPasswordData{Email: "jane@example.com"})
	require.NoError(t, err)
	unknown, err := c.ForgotPassword(ctx, structs.ForgotPasswordData{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Equal(t, notice.MsgResetRequested, known.Message)
	assert.Equal(t, known.Message, unknown.Message)

	sent := f.drain()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].Recipient)
	assert.Equal(t, "password-reset", sent[0].Template.Template)
	assert.Contains(t, sent[0].Template.URL, "/reset-password?code=")
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "user@example.com", "user123")
	c := f.client()

	_, err := c.ChangePassword(ctx, structs.ChangePasswordData{
		CurrentPassword: "not-mine", NewPassword: "NewPass1!", ConfirmPassword: "NewPass1!",
	})
	var ve *ecode.ValidationError
	require.ErrorAs(t, err, &ve, "a wrong current password must not end the session")
	assert.NotEmpty(t, ve.Field("currentPassword"))

	_, err = c.ChangePassword(ctx, structs.ChangePasswordData{
		CurrentPassword: "user123", NewPassword: "NewPass1!", ConfirmPassword: "NewPass1!",
	})
	require.NoError(t, err)
	f.login(t, "user@example.com", "NewPass1!")
}

func TestAdminResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "admin@example.com", "admin123")

	res, err := f.client().ResetUserPassword(ctx, "3")
	require.NoError(t, err)
	assert.Len(t, res.TemporaryPassword, 12)

	sent := f.drain()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].Recipient)
	assert.Equal(t, res.TemporaryPassword, sent[0].Template.Keyword)

	f.login(t, "jane@example.com", res.TemporaryPassword)
}

func TestUpdateAndDeleteOwnAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "dev5588@gmail.com", "Dev@2006")
	c := f.client()

	me, err := c.UpdateProfile(ctx, structs.ProfileData{
		FullName: "Dev Person", Email: "dev5588@gmail.com", Mobile: "5551234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dev Person", me.FullName)

	err = c.DeleteAccount(ctx, "wrong")
	var ve *ecode.ValidationError
	require.ErrorAs(t, err, &ve)

	require.NoError(t, c.DeleteAccount(ctx, "Dev@2006"))
	_, err = c.Profile(ctx)
	assert.ErrorIs(t, err, ecode.ErrSessionExpired)
}

func TestLoginRateLimited(t *testing.T) {
	f := newFixture(t, 2)
	c := f.client()
	ctx := context.Background()
	bad := structs.LoginData{Email: "admin@example.com", Password: "wrong-password"}

	for i := 0; i < 2; i++ {
		_, err := c.Login(ctx, bad)
		assert.ErrorIs(t, err, ecode.ErrInvalidCredentials)
	}
	_, err := c.Login(ctx, bad)
	assert.Equal(t, ecode.TooManyRequests, ecode.CodeOf(err))
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
