package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsAppError(t *testing.T) {
	nf := NotFound("Post not found.")
	wrapped := fmt.Errorf("loading: %w", nf)
	assert.Same(t, nf, AsAppError(wrapped))

	cause := errors.New("disk on fire")
	internal := AsAppError(cause)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.ErrorIs(t, internal, cause)
	assert.NotContains(t, internal.Message, "disk on fire")
}

func TestErrorStatuses(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, Validation("x").Status)
	assert.Equal(t, http.StatusUnprocessableEntity, Conflict("x").Status)
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
	assert.Equal(t, "Post 3 missing", NotFound("Post %d missing", 3).Message)
}

func TestWrapDoesNotMutate(t *testing.T) {
	base := Validation("bad")
	w := base.Wrap(errors.New("cause"))
	assert.Nil(t, base.Err)
	assert.NotNil(t, w.Err)
}

func TestFailWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	Fail(ctx, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 50000, body.Code)
	assert.NotEmpty(t, body.Message)

	rec = httptest.NewRecorder()
	ctx, _ = gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	Fail(ctx, Forbidden("nope"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}
