package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cppla/inkblog/config"
	"github.com/cppla/inkblog/controllers"
	"github.com/cppla/inkblog/middleware"
	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/store"
	"github.com/cppla/inkblog/utils"
)

// Deps are the collaborators the router builds its services from.
type Deps struct {
	Config config.AppConfig
	Store  store.Store
	// Redis is optional; without it the cache is disabled and revocation is in-memory.
	Redis *redis.Client
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	accessLog := utils.Logger
	if cfg.GinPath != "" {
		gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
		if err != nil {
			utils.Logger.Warn("gin file logger unavailable, using app logger", zap.Error(err))
		} else {
			accessLog = gl
		}
	}
	r.Use(utils.Ginzap(accessLog, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(accessLog, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL())
	guard := services.NewGuard(tokens, utils.NewTokenBlacklist(deps.Redis))
	cache := utils.NewCache(deps.Redis, cfg.CacheTTL())

	authController := controllers.NewAuthController(
		services.NewCredentialService(deps.Store, tokens),
		services.NewAccountService(deps.Store, cfg.UploadDir, cfg.AvatarMaxBytes),
		guard,
		cache,
	)
	postController := controllers.NewPostController(services.NewPostService(deps.Store, deps.Store), cache)
	commentController := controllers.NewCommentController(services.NewCommentService(deps.Store, deps.Store), cache)
	statsController := controllers.NewStatsController(services.NewStatsService(deps.Store, deps.Store))

	authRequired := middleware.AuthRequired(guard)
	api := r.Group("/api")

	users := api.Group("/users")
	limited := users.Group("")
	limited.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))
	limited.POST("/register", authController.Register)
	limited.POST("/login", authController.Login)
	users.POST("/logout", authRequired, authController.Logout)
	users.GET("/me", authRequired, authController.Me)
	users.PATCH("/edit-user", authRequired, authController.EditUser)
	users.POST("/change-avatar", authRequired, authController.ChangeAvatar)
	users.GET("", authController.ListUsers)
	users.GET("/:id", authController.GetUser)

	posts := api.Group("/posts")
	posts.GET("", postController.ListPosts)
	posts.POST("", authRequired, postController.CreatePost)
	posts.GET("/categories/:category", postController.ListPostsByCategory)
	posts.GET("/users/:id", postController.ListUserPosts)
	posts.GET("/:id", postController.GetPost)
	posts.PATCH("/:id", authRequired, postController.UpdatePost)
	posts.DELETE("/:id", authRequired, postController.DeletePost)
	posts.POST("/:id/comments", authRequired, commentController.CreateComment)
	posts.PATCH("/comments/:commentId", authRequired, commentController.EditComment)
	posts.DELETE("/comments/:commentId", authRequired, commentController.DeleteComment)

	api.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "Not found - "+ctx.Request.URL.Path)
	})

	return r
}
