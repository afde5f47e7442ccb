package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/accountdesk/consts"
	"github.com/stretchr/testify/assert"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	assert.NotEmpty(t, id)

	same, again := EnsureTraceID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, id, GetTraceID(same))
}

func TestValuesMirrorToGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	ctx := WithGinContext(context.Background(), c)
	ctx = SetUserID(ctx, "7")
	ctx = SetRole(ctx, "admin")

	v, ok := c.Get(consts.UserKey)
	assert.True(t, ok)
	assert.Equal(t, "7", v)
	assert.Equal(t, "admin", GetRole(ctx))
	assert.Equal(t, "", GetToken(ctx))
}

func TestGetFallsBackToGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(consts.TokenKey, "abc")

	ctx := WithGinContext(context.Background(), c)
	assert.Equal(t, "abc", GetToken(ctx))
	assert.Empty(t, GetUserID(context.Background()))
}
