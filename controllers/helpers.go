package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/inkblog/middleware"
	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/utils"
)

var errInvalidPayload = utils.BadRequest("Invalid request payload.")

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, utils.BadRequest("Invalid id.")
	}
	return uint(id), nil
}

// parsePage reads the 1-indexed page query parameter; anything invalid is page 1.
func parsePage(raw string) int {
	if p, err := strconv.Atoi(raw); err == nil && p > 0 {
		return p
	}
	return 1
}

func currentIdentity(ctx *gin.Context) (services.Identity, error) {
	identity, ok := middleware.Identity(ctx)
	if !ok {
		return services.Identity{}, utils.Unauthorized("Unauthorized.")
	}
	return identity, nil
}

// serveCached writes a cached envelope, reporting whether there was one.
func serveCached(ctx *gin.Context, cache *utils.Cache, key string) bool {
	b, ok := cache.GetBytes(ctx.Request.Context(), key)
	if !ok {
		return false
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
	return true
}

// successCached responds like utils.Success and stores the envelope under key.
func successCached(ctx *gin.Context, cache *utils.Cache, key string, data interface{}) {
	cache.SetJSON(ctx.Request.Context(), key, utils.JSONResponse{Code: 0, Message: "success", Data: data})
	utils.Success(ctx, data)
}

func postDetailPrefix(postID uint) string {
	return utils.CachePostDetailPrefix + strconv.FormatUint(uint64(postID), 10) + ":"
}

func userPrefix(userID uint) string {
	return utils.CacheUserPrefix + strconv.FormatUint(uint64(userID), 10) + ":"
}
