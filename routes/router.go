package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DianaKab/hw05-final-new/config"
	"github.com/DianaKab/hw05-final-new/controllers"
	"github.com/DianaKab/hw05-final-new/middleware"
	"github.com/DianaKab/hw05-final-new/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file so request noise stays out of
	// the application log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Every request resolves its viewer; pages decide what that means.
	r.Use(middleware.CurrentViewer())
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	feedController := controllers.NewFeedController(db)
	postController := controllers.NewPostController(db)
	followController := controllers.NewFollowController(db)

	// Public pages
	r.GET("/", feedController.Index)
	r.GET("/group/:slug/", feedController.GroupPosts)
	r.GET("/profile/:username/", feedController.Profile)
	r.GET("/posts/:id/", postController.Detail)

	// Edit is deliberately public: non-authors (anonymous included) are
	// silently redirected to the detail page by the controller.
	edit := r.Group("", middleware.RateLimitMiddleware())
	edit.GET("/posts/:id/edit/", postController.Edit)
	edit.POST("/posts/:id/edit/", postController.Edit)

	authed := r.Group("", middleware.LoginRequired())
	authed.GET("/follow/", feedController.FollowIndex)

	mutations := authed.Group("", middleware.RateLimitMiddleware())
	mutations.GET("/create/", postController.Create)
	mutations.POST("/create/", postController.Create)
	mutations.POST("/posts/:id/comment/", postController.AddComment)
	mutations.GET("/profile/:username/follow/", followController.Follow)
	mutations.GET("/profile/:username/unfollow/", followController.Unfollow)

	r.NoRoute(func(ctx *gin.Context) {
		utils.NotFound(ctx)
	})

	return r
}
