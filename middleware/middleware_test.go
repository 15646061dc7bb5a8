package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/utils"
)

func init() { gin.SetMode(gin.TestMode) }

func newAuthEngine(guard *services.Guard) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(guard), func(ctx *gin.Context) {
		id, ok := Identity(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		utils.Success(ctx, gin.H{"id": id.UserID, "name": id.Name, "token": ctx.GetString(ContextTokenKey)})
	})
	return r
}

func doGet(r http.Handler, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	blacklist := utils.NewTokenBlacklist(nil)
	guard := services.NewGuard(tokens, blacklist)
	r := newAuthEngine(guard)

	token, err := tokens.Generate(7, "Alice")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			ID    uint   `json:"id"`
			Name  string `json:"name"`
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(7), body.Data.ID)
	assert.Equal(t, "Alice", body.Data.Name)
	assert.Equal(t, token, body.Data.Token)

	for _, header := range []string{"", "Token " + token, "Bearer ", "Bearer garbage"} {
		w := doGet(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Contains(t, w.Body.String(), `"code":40100`)
	}

	other, err := utils.NewTokenManager("other", time.Hour).Generate(7, "Alice")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+other).Code)

	require.NoError(t, guard.Revoke(context.Background(), token))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+token).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimitMiddleware(4), func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "203.0.113.5:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	// burst is half the per-minute budget
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "203.0.113.6:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLimiterSetEvictsIdle(t *testing.T) {
	s := &limiterSet{limiters: map[string]*rateLimiter{}, limit: 1, burst: 1}
	now := time.Now()
	assert.True(t, s.allow("a", now))
	assert.False(t, s.allow("a", now))
	assert.True(t, s.allow("b", now.Add(limiterIdleTTL+time.Second)))
	_, stillThere := s.limiters["a"]
	assert.False(t, stillThere)
}

func TestLimiterSetSweepsOnInterval(t *testing.T) {
	s := &limiterSet{limiters: map[string]*rateLimiter{}, limit: 1, burst: 1}
	now := time.Now()
	assert.True(t, s.allow("a", now))

	// "a" is idle but the next sweep is not due yet
	later := now.Add(limiterIdleTTL + time.Second)
	s.nextSweep = later.Add(time.Second)
	assert.True(t, s.allow("b", later))
	assert.Len(t, s.limiters, 2)

	assert.True(t, s.allow("c", later.Add(2*time.Second)))
	_, stillThere := s.limiters["a"]
	assert.False(t, stillThere)
	assert.Equal(t, later.Add(2*time.Second).Add(limiterSweepInterval), s.nextSweep)
}
