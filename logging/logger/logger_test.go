package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ncobase/accountdesk/ctxutil"
	"github.com/ncobase/accountdesk/logging/logger/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	l := &Logger{Logger: logrus.New()}
	_, err := l.Init(&config.Config{
		Level:           int(logrus.DebugLevel),
		Format:          "json",
		Output:          "discard",
		Desensitization: config.DefaultDesensitization(),
	})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	l.SetOutput(buf)
	return l, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestKeyValueFieldsAndTrace(t *testing.T) {
	l, buf := newBufferedLogger(t)
	l.SetVersion("1.2.3")
	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")

	l.Info(ctx, "User logged in", "user_id", "1", "role", "admin")

	line := decodeLine(t, buf)
	assert.Equal(t, "User logged in", line["msg"])
	assert.Equal(t, "1", line["user_id"])
	assert.Equal(t, "admin", line["role"])
	assert.Equal(t, "trace-1", line[ctxutil.TraceIDKey])
	assert.Equal(t, "1.2.3", line[VersionKey])
}

func TestSensitiveFieldsMasked(t *testing.T) {
	l, buf := newBufferedLogger(t)

	l.Warn(context.Background(), "Login attempt",
		"password", "hunter2",
		"refreshToken", "abc.def",
		"payload", map[string]any{"email": "a@b.c", "auth_token": "xyz"},
		"note", "Bearer abc.def.ghi",
	)

	line := decodeLine(t, buf)
	assert.Equal(t, "******", line["password"])
	assert.Equal(t, "******", line["refreshToken"])
	payload := line["payload"].(map[string]any)
	assert.Equal(t, "a@b.c", payload["email"])
	assert.Equal(t, "******", payload["auth_token"])
	assert.Equal(t, "******", line["note"])
}

func TestOddPairsKeepTrailingKey(t *testing.T) {
	l, buf := newBufferedLogger(t)
	l.Debug(context.Background(), "odd", "orphan")
	assert.Equal(t, "orphan", decodeLine(t, buf)["extra"])
}

func TestDesensitizeStruct(t *testing.T) {
	d := NewDesensitizer(nil)
	out := d.DeepDesensitize(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{"x@y.z", "secret"}).(map[string]any)
	assert.Equal(t, "x@y.z", out["email"])
	assert.Equal(t, "******", out["password"])
}
