package routes

import (
	handlers "easyride/internal/handlers/shared"
	"easyride/internal/middleware"
	"easyride/internal/services"
	"easyride/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Access        *handlers.AccessHandler
	Profile       *handlers.ProfileHandler
	Ride          *handlers.RideHandler
	Booking       *handlers.BookingHandler
	Chat          *handlers.ChatHandler
	Notification  *handlers.NotificationHandler
	City          *handlers.CityHandler
	Admin         *handlers.AdminHandler
	Health        *handlers.HealthHandler
	WebSocket     *websocket.Handler
	WebSocketPath string
}

// Guards are the middlewares that protect route groups. Each API group is
// guarded by the access rule of the client page it backs.
type Guards struct {
	Auth   *middleware.AuthMiddleware
	Access services.AccessService
}

func (g *Guards) page(path string) []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Auth.AuthRequired(), middleware.RequireRoute(g.Access, path)}
}

func Setup(router *gin.Engine, h *Handlers, g *Guards) {
	router.GET("/health", h.Health.Health)
	router.GET(h.WebSocketPath, g.Auth.AuthRequired(), h.WebSocket.HandleWebSocket)

	v1 := router.Group("/api/v1")
	{
		SetupAuthRoutes(v1, h.Auth, h.Access, g)
		SetupProfileRoutes(v1, h.Profile, g)
		SetupRideRoutes(v1, h.Ride, g)
		SetupBookingRoutes(v1, h.Booking, g)
		SetupChatRoutes(v1, h.Chat, g)
		SetupNotificationRoutes(v1, h.Notification, g)
		SetupAdminRoutes(v1, h.Admin, g)

		v1.GET("/cities", h.City.ListCities)
	}
}

func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, accessHandler *handlers.AccessHandler, g *Guards) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.SignUp)
		auth.POST("/signin", authHandler.SignIn)
		auth.POST("/verify-email", authHandler.ConfirmEmail)

		// Unverified users must reach these.
		auth.POST("/signout", g.Auth.AuthRequired(), authHandler.SignOut)
		auth.POST("/verification", g.Auth.AuthRequired(), authHandler.ResendVerification)
		auth.GET("/session", g.Auth.AuthRequired(), authHandler.Session)
	}

	r.GET("/access", g.Auth.OptionalAuth(), accessHandler.Check)
}

func SetupProfileRoutes(r *gin.RouterGroup, h *handlers.ProfileHandler, g *Guards) {
	profile := r.Group("/profile", g.page(services.PathSettings)...)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.DELETE("", h.DeleteAccount)
		profile.POST("/devices", h.RegisterDevice)
	}
}

func SetupRideRoutes(r *gin.RouterGroup, h *handlers.RideHandler, g *Guards) {
	rides := r.Group("/rides")
	{
		rides.GET("/search", append(g.page("/search-results"), h.Search)...)
		rides.GET("/mine", append(g.page(services.PathDriverDash), h.ListMine)...)
		rides.POST("", append(g.page(services.PathDriverDash), h.PostRide)...)
		rides.GET("/:id", append(g.page("/search-results"), h.GetRide)...)
	}
}

func SetupBookingRoutes(r *gin.RouterGroup, h *handlers.BookingHandler, g *Guards) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", append(g.page("/search-results"), h.CreateBooking)...)

		// Driver side
		bookings.GET("/driver", append(g.page("/manage-bookings"), h.ListForDriver)...)
		bookings.PUT("/:id/accept", append(g.page("/manage-bookings"), h.Accept)...)
		bookings.DELETE("/:id/reject", append(g.page("/manage-bookings"), h.Reject)...)

		// Passenger side
		bookings.GET("/passenger", append(g.page("/passenger-bookings"), h.ListForPassenger)...)
		bookings.DELETE("/:id/cancel", append(g.page("/passenger-bookings"), h.Cancel)...)
		bookings.POST("/:id/refresh", append(g.page("/passenger-bookings"), h.RefreshSnapshot)...)
	}
}

func SetupChatRoutes(r *gin.RouterGroup, h *handlers.ChatHandler, g *Guards) {
	chats := r.Group("/chats")
	{
		chats.POST("", append(g.page("/chats"), h.StartChat)...)
		chats.GET("", append(g.page("/chats"), h.ListChats)...)
		chats.GET("/:id/messages", append(g.page("/chats/:id"), h.GetMessages)...)
		chats.POST("/:id/messages", append(g.page("/chats/:id"), h.SendMessage)...)
		chats.POST("/:id/refresh", append(g.page("/chats/:id"), h.RefreshSnapshot)...)
	}
}

func SetupNotificationRoutes(r *gin.RouterGroup, h *handlers.NotificationHandler, g *Guards) {
	notifications := r.Group("/notifications", g.page("/profile")...)
	{
		notifications.GET("", h.ListNotifications)
		notifications.PUT("/read", h.MarkAllRead)
		notifications.PUT("/:id/read", h.MarkRead)
	}
}

func SetupAdminRoutes(r *gin.RouterGroup, h *handlers.AdminHandler, g *Guards) {
	admin := r.Group("/admin", g.page(services.PathAdminDashboard)...)
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:id/verify", h.VerifyUser)
		admin.PUT("/users/:id/block", h.BlockUser)
		admin.PUT("/users/:id/unblock", h.UnblockUser)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/rides", h.ListRides)
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/statistics", h.Statistics)
		admin.POST("/notifications", h.Broadcast)

		admin.POST("/cities", h.AddCity)
		admin.DELETE("/cities/:name", h.RemoveCity)
	}
}
