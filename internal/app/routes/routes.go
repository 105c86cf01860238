package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnihub/internal/app/controllers"
	"github.com/yigit/alumnihub/internal/middleware"
)

// Controllers groups every handler set the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Profile      *controllers.ProfileController
	Approval     *controllers.ApprovalController
	Import       *controllers.ImportController
	Invite       *controllers.InviteController
	Directory    *controllers.DirectoryController
	Event        *controllers.EventController
	Notification *controllers.NotificationController
	Content      *controllers.ContentController
	OG           *controllers.OGController
	Page         *controllers.PageController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	setupAPIRoutes(router.Group("/api"), c, authMiddleware)
	setupPageRoutes(router, c, authMiddleware)
}

func setupAPIRoutes(api *gin.RouterGroup, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	// --- Public ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
		auth.POST("/logout", c.Auth.Logout)
		auth.POST("/magic-link", c.Auth.MagicLink)
		auth.POST("/invite-login", c.Auth.InviteLogin)
	}
	api.GET("/og", c.OG.Image)

	// --- Any signed-in account ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/me/status", c.Auth.Status)

		authenticated.GET("/profile", c.Profile.GetProfile)
		authenticated.GET("/profile/setup", c.Profile.GetSetup)
		authenticated.POST("/profile/setup", c.Profile.SaveSetup)
		authenticated.POST("/profile/avatar", c.Profile.UploadAvatar)

		authenticated.POST("/invites/redeem", c.Invite.Redeem)
		authenticated.POST("/events/register", c.Event.Register)

		authenticated.GET("/notifications", c.Notification.List)
		authenticated.PATCH("/notifications", c.Notification.MarkRead)
		authenticated.GET("/notifications/count", c.Notification.Count)
	}

	// --- Approved alumni and admins ---
	approved := authenticated.Group("")
	approved.Use(authMiddleware.ApprovedRequired())
	{
		approved.PUT("/profile", c.Profile.UpdateProfile)

		approved.GET("/directory", c.Directory.Search)
		approved.GET("/directory/stats", c.Directory.Stats)
		approved.GET("/directory/:id", c.Directory.Detail)

		approved.GET("/events", c.Event.List)
		approved.GET("/events/:id", c.Event.Detail)

		approved.GET("/jobs", c.Content.ListJobs)
		approved.GET("/gallery", c.Content.ListGallery)
		approved.GET("/news", c.Content.ListNews)
		approved.GET("/news/:idOrSlug", c.Content.GetNews)
	}

	// --- Admins ---
	admin := authenticated.Group("")
	admin.Use(authMiddleware.AdminRequired())
	{
		approval := admin.Group("/approval")
		{
			approval.POST("/promote", c.Approval.Promote)
			approval.POST("/reject", c.Approval.Reject)
			approval.GET("/pending", c.Approval.Pending)
			approval.GET("/:userId/transitions", c.Approval.Transitions)
		}

		imports := admin.Group("/import")
		{
			imports.POST("/preview", c.Import.Preview)
			imports.POST("/commit", c.Import.Commit)
			imports.GET("/sample", c.Import.Sample)
			imports.GET("/batches", c.Import.Batches)
			imports.GET("/alumni", c.Import.ListImported)
		}

		admin.POST("/invites/generate", c.Invite.Generate)
		admin.POST("/events/create", c.Event.Create)

		adminGroup := admin.Group("/admin")
		{
			adminGroup.POST("/create-alumni", c.Import.CreateAlumni)
			adminGroup.GET("/alumni", c.Directory.AdminList)
			adminGroup.GET("/alumni/export", c.Directory.Export)
			adminGroup.GET("/stats", c.Directory.AdminStats)
			adminGroup.POST("/jobs", c.Content.CreateJob)
			adminGroup.POST("/news", c.Content.CreateNews)
			adminGroup.POST("/gallery", c.Content.UploadGallery)
		}
	}
}

// setupPageRoutes mounts the browser pages. They use the session cookie and
// answer with redirects instead of 401/403.
func setupPageRoutes(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/auth/callback", c.Auth.Callback)
	router.GET("/invite/claim", authMiddleware.OptionalSession(), c.Invite.Claim)

	session := router.Group("")
	session.Use(authMiddleware.RequireSession())
	{
		session.GET("/notifications", c.Notification.List)
		session.GET("/profile", c.Profile.GetProfile)
		session.GET("/profile/setup", c.Profile.GetSetup)
		session.GET(middleware.PendingPath, c.Page.Pending)
	}

	approved := session.Group("")
	approved.Use(authMiddleware.RequireApprovedPage())
	{
		approved.GET(controllers.DashboardPath, c.Page.Dashboard)
		approved.GET("/alumni", c.Directory.Search)
		approved.GET("/alumni/:id", c.Directory.Detail)
		approved.GET("/events", c.Event.List)
		approved.GET("/events/:id", c.Event.Detail)
		approved.GET("/jobs", c.Content.ListJobs)
		approved.GET("/gallery", c.Content.ListGallery)
		approved.GET("/news", c.Content.ListNews)
		approved.GET("/news/:idOrSlug", c.Content.GetNews)
	}

	admin := session.Group("/admin")
	admin.Use(authMiddleware.RequireAdminPage())
	{
		admin.GET("/dashboard", c.Page.AdminDashboard)
		admin.GET("/alumni", c.Directory.AdminList)
		admin.GET("/alumni-list", c.Import.ListImported)
		admin.GET("/invites", c.Import.ListImported)
	}
}
