package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/creatorsync-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateLimits configures the per-user write limits.
type RateLimits struct {
	Likes    int
	Responds int
	Messages int
	Window   time.Duration
}

type Router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	feedHandler    *handler.FeedHandler
	matchHandler   *handler.MatchHandler
	chatHandler    *handler.ChatHandler
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	limits         RateLimits
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	feedHandler *handler.FeedHandler,
	matchHandler *handler.MatchHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	limits RateLimits,
) *Router {
	if limits.Window <= 0 {
		limits.Window = time.Minute
	}
	return &Router{
		authHandler:    authHandler,
		profileHandler: profileHandler,
		feedHandler:    feedHandler,
		matchHandler:   matchHandler,
		chatHandler:    chatHandler,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		limits:         limits,
	}
}

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

func (r *Router) Setup() *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestContext(),
		middleware.StructuredLogger(),
		middleware.Metrics(),
	)

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limit := func(resource string, n int) gin.HandlerFunc {
		if r.rateLimiter == nil || n <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return r.rateLimiter.Limit(resource, n, r.limits.Window)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler)
		v1.HEAD("/health", healthHandler)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			creators := protected.Group("/creators")
			creators.Use(middleware.RequireRole(domain.RoleCreator))
			{
				creators.POST("/profile", r.profileHandler.CreateCreatorProfile)
				creators.PUT("/profile", r.profileHandler.UpdateCreatorProfile)
				creators.GET("/profile", r.profileHandler.GetCreatorProfile)
				creators.GET("/feed", r.feedHandler.GetFeed)
				creators.POST("/like/:editor_id", limit("like", r.limits.Likes), r.matchHandler.LikeEditor)
				creators.POST("/pass/:editor_id", limit("like", r.limits.Likes), r.matchHandler.PassEditor)
				creators.GET("/requests", r.matchHandler.ListCreatorRequests)
				creators.POST("/requests/:request_id/confirm", limit("respond", r.limits.Responds), r.matchHandler.CreatorConfirm)
				creators.POST("/requests/:request_id/pass", limit("respond", r.limits.Responds), r.matchHandler.CreatorPass)
			}

			editors := protected.Group("/editors")
			editors.Use(middleware.RequireRole(domain.RoleEditor))
			{
				editors.POST("/profile", r.profileHandler.CreateEditorProfile)
				editors.PUT("/profile", r.profileHandler.UpdateEditorProfile)
				editors.GET("/profile", r.profileHandler.GetEditorProfile)
				editors.POST("/clips", r.profileHandler.AddClip)
				editors.POST("/clips/upload-url", r.profileHandler.ClipUploadURL)
				editors.GET("/clips", r.profileHandler.ListClips)
				editors.GET("/requests", r.matchHandler.ListEditorRequests)
				editors.POST("/requests/:request_id/respond", limit("respond", r.limits.Responds), r.matchHandler.Respond)
				editors.POST("/requests/:request_id/final-accept", limit("respond", r.limits.Responds), r.matchHandler.FinalAccept)
			}

			matches := protected.Group("/matches")
			{
				matches.GET("", r.matchHandler.GetMatches)
				matches.GET("/stats/overview", r.matchHandler.GetStats)
				matches.GET("/:match_id", r.matchHandler.GetMatchDetails)
			}

			chat := protected.Group("/chat")
			{
				chat.GET("/unread/count", r.chatHandler.UnreadCount)
				chat.POST("/:match_id/messages", limit("chat", r.limits.Messages), r.chatHandler.SendMessage)
				chat.GET("/:match_id/messages", r.chatHandler.ListMessages)
				chat.POST("/:match_id/read", r.chatHandler.MarkRead)
			}
		}
	}

	return router
}
