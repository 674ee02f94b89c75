package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/clubportal/internal/app/controllers"
	"github.com/yigit/clubportal/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	Post     *controllers.PostController
	Club     *controllers.ClubController
	Message  *controllers.MessageController
	Feedback *controllers.FeedbackController
	Admin    *controllers.AdminController
	Weather  *controllers.WeatherController
	Health   *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	authLimiter *middleware.IPRateLimiter,
) {
	router.GET("/ping", ctrl.Health.Ping)

	v1 := router.Group("/api/v1")
	v1.GET("/health", ctrl.Health.Health)
	v1.Use(authMiddleware.Authenticate())

	// --- Auth ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimit(authLimiter), ctrl.Auth.Register)
		auth.POST("/login", middleware.RateLimit(authLimiter), ctrl.Auth.Login)
		auth.POST("/logout", authMiddleware.RequireAuth(), ctrl.Auth.Logout)
		auth.GET("/me", authMiddleware.RequireAuth(), ctrl.Auth.Me)
	}

	// --- Public ---
	v1.GET("/posts", ctrl.Post.Feed)
	v1.GET("/posts/:id", ctrl.Post.Get)
	v1.GET("/clubs", ctrl.Club.List)
	v1.GET("/clubs/search", ctrl.Club.Search)
	v1.GET("/clubs/:slug", ctrl.Club.Profile)
	v1.GET("/weather", ctrl.Weather.Current)

	v1.POST("/feedback", authMiddleware.RequireAuth(), ctrl.Feedback.Submit)

	// --- Club area ---
	club := v1.Group("/club")
	club.Use(authMiddleware.ClubOnly())
	{
		club.GET("/dashboard", ctrl.Club.Dashboard)
		club.GET("/profile", ctrl.Club.OwnProfile)
		club.PUT("/profile", ctrl.Club.UpdateProfile)

		club.POST("/posts", ctrl.Post.Create)
		club.PUT("/posts/:id", ctrl.Post.Edit)
		club.DELETE("/posts/:id", ctrl.Post.Delete)

		club.GET("/messages", ctrl.Message.Inbox)
		club.GET("/messages/recipients", ctrl.Message.Recipients)
		club.GET("/messages/unread", ctrl.Message.Unread)
		club.POST("/messages/:partnerId/read", ctrl.Message.MarkRead)
		club.GET("/chat/:slug", ctrl.Message.Thread)
		club.POST("/chat/:slug", ctrl.Message.Send)

		club.GET("/feedback", ctrl.Feedback.ListOwn)
		club.POST("/feedback/:id/read", ctrl.Feedback.MarkRead)
	}

	// --- Admin area ---
	admin := v1.Group("/admin")
	admin.Use(authMiddleware.AdminOnly())
	{
		admin.GET("/dashboard", ctrl.Admin.Dashboard)

		admin.GET("/clubs", ctrl.Admin.Clubs)
		admin.GET("/clubs/pending", ctrl.Admin.Pending)
		admin.GET("/clubs/export", ctrl.Admin.Export)
		admin.POST("/clubs/:id/approve", ctrl.Admin.Approve)
		admin.POST("/clubs/:id/reject", ctrl.Admin.Reject)
		admin.PUT("/clubs/:id", ctrl.Admin.Edit)
		admin.DELETE("/clubs/:id", ctrl.Admin.Delete)

		admin.GET("/posts", ctrl.Post.ListAll)
		admin.POST("/posts", ctrl.Post.Create)
		admin.PUT("/posts/:id", ctrl.Post.Edit)
		admin.DELETE("/posts/:id", ctrl.Post.Delete)

		admin.GET("/feedback", ctrl.Feedback.ListAll)
		admin.POST("/feedback", ctrl.Feedback.Submit)
		admin.DELETE("/feedback/:id", ctrl.Feedback.Delete)
	}
}
