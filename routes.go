package main

import (
	"github.com/gin-gonic/gin"

	"github.com/mreimer702/Rettnar/controllers"
	"github.com/mreimer702/Rettnar/middleware"
)

type routeControllers struct {
	health        *controllers.HealthController
	users         *controllers.UserController
	roles         *controllers.RoleController
	catalog       *controllers.CatalogController
	locations     *controllers.LocationController
	listings      *controllers.ListingController
	images        *controllers.ImageController
	availability  *controllers.AvailabilityController
	bookings      *controllers.BookingController
	payments      *controllers.PaymentController
	messages      *controllers.MessageController
	reviews       *controllers.ReviewController
	notifications *controllers.NotificationController
	deliveries    *controllers.DeliveryController
	searchLogs    *controllers.SearchLogController
}

// registerRoutes define todos los endpoints de la API
func registerRoutes(router *gin.Engine, c routeControllers, users middleware.UserFinder) {
	auth := middleware.AuthMiddleware(users)
	optional := middleware.OptionalAuth(users)
	admin := middleware.AdminMiddleware()

	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api")

	// Autenticación
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", optional, c.users.Register)
		authGroup.POST("/login", c.users.Login)
		authGroup.GET("/me", auth, c.users.Me)
	}

	// Usuarios y favoritos
	usersGroup := api.Group("/users")
	{
		usersGroup.POST("", optional, c.users.Register)
		usersGroup.POST("/login", c.users.Login)
		usersGroup.GET("", auth, admin, c.users.GetAllUsers)
		usersGroup.GET("/me/favorites", auth, c.listings.ListFavorites)
		usersGroup.POST("/me/favorites/:listing_id", auth, c.listings.AddFavorite)
		usersGroup.DELETE("/me/favorites/:listing_id", auth, c.listings.RemoveFavorite)
		usersGroup.GET("/:id", auth, c.users.GetUserByID)
		usersGroup.PUT("/:id", auth, c.users.UpdateUser)
		usersGroup.DELETE("/:id", auth, c.users.DeleteUser)
	}

	// Roles: lectura pública, cambios solo admin
	roles := api.Group("/roles")
	{
		roles.GET("", c.roles.List)
		roles.GET("/:id", c.roles.Get)
		roles.POST("", auth, admin, c.roles.Create)
		roles.PUT("/:id", auth, admin, c.roles.Update)
		roles.DELETE("/:id", auth, admin, c.roles.Delete)
	}

	// Catálogo
	categories := api.Group("/categories")
	{
		categories.GET("", c.catalog.ListCategories)
		categories.GET("/:id", c.catalog.GetCategory)
		categories.POST("", auth, admin, c.catalog.CreateCategory)
		categories.PUT("/:id", auth, admin, c.catalog.UpdateCategory)
		categories.DELETE("/:id", auth, admin, c.catalog.DeleteCategory)
	}
	subcategories := api.Group("/subcategories")
	{
		subcategories.GET("", c.catalog.ListSubcategories)
		subcategories.GET("/:id", c.catalog.GetSubcategory)
		subcategories.POST("", auth, admin, c.catalog.CreateSubcategory)
		subcategories.PUT("/:id", auth, admin, c.catalog.UpdateSubcategory)
		subcategories.DELETE("/:id", auth, admin, c.catalog.DeleteSubcategory)
	}
	amenities := api.Group("/amenities")
	{
		amenities.GET("", c.catalog.ListAmenities)
		amenities.GET("/:id", c.catalog.GetAmenity)
		amenities.POST("", auth, admin, c.catalog.CreateAmenity)
		amenities.PUT("/:id", auth, admin, c.catalog.UpdateAmenity)
		amenities.DELETE("/:id", auth, admin, c.catalog.DeleteAmenity)
	}

	// Ubicaciones
	locations := api.Group("/locations")
	{
		locations.GET("", c.locations.List)
		locations.GET("/search", c.locations.Search)
		locations.GET("/admin/all", auth, admin, c.locations.List)
		locations.GET("/admin/analytics", auth, admin, c.locations.Analytics)
		locations.GET("/:id", c.locations.Get)
		locations.POST("", auth, c.locations.Create)
		locations.PUT("/:id", auth, admin, c.locations.Update)
		locations.DELETE("/:id", auth, admin, c.locations.Delete)
	}

	// Listings con sus imágenes, disponibilidad y reviews
	listings := api.Group("/listings")
	{
		listings.GET("", optional, c.listings.Search)
		listings.GET("/nearby", c.listings.Nearby)
		listings.GET("/my-listings", auth, c.listings.MyListings)
		listings.GET("/user/:owner_id", c.listings.ListByOwner)
		listings.GET("/:id", c.listings.Get)
		listings.POST("", auth, c.listings.Create)
		listings.PUT("/:id", auth, c.listings.Update)
		listings.DELETE("/:id", auth, c.listings.Delete)

		listings.GET("/:id/images", c.images.List)
		listings.POST("/:id/images", auth, c.images.Add)
		listings.POST("/:id/images/bulk", auth, c.images.AddBulk)
		listings.POST("/:id/images/upload", auth, c.images.Upload)

		listings.GET("/:id/availability", c.availability.List)
		listings.POST("/:id/availability", auth, c.availability.Create)
		listings.DELETE("/:id/availability/:availability_id", auth, c.availability.Delete)

		listings.GET("/:id/reviews", c.reviews.List)
		listings.POST("/:id/reviews", auth, c.reviews.Create)
	}

	images := api.Group("/images")
	{
		images.GET("/:id", c.images.Get)
		images.GET("/:id/file", c.images.File)
		images.PUT("/:id", auth, c.images.Update)
		images.DELETE("/:id", auth, c.images.Delete)
		images.PUT("/:id/set-primary", auth, c.images.SetPrimary)
	}

	api.DELETE("/reviews/:id", auth, c.reviews.Delete)

	// Reservas y pagos
	bookings := api.Group("/bookings", auth)
	{
		bookings.POST("", c.bookings.Create)
		bookings.GET("", c.bookings.List)
		bookings.GET("/listing/:listing_id", c.bookings.ListByListing)
		bookings.GET("/:id", c.bookings.Get)
		bookings.PUT("/:id/status", c.bookings.UpdateStatus)
		bookings.PUT("/:id/cancel", c.bookings.Cancel)
	}
	payments := api.Group("/payments", auth)
	{
		payments.POST("", c.payments.Create)
		payments.GET("", c.payments.List)
	}

	// Mensajería
	messages := api.Group("/messages", auth)
	{
		messages.GET("/conversations", c.messages.Conversations)
		messages.POST("/conversation/:user_id", c.messages.Start)
		messages.GET("/:conversation_id", c.messages.Get)
		messages.POST("/:conversation_id", c.messages.Send)
	}

	// Notificaciones
	notifications := api.Group("/notifications", auth)
	{
		notifications.GET("/general", c.notifications.ListGeneral)
		notifications.GET("/general/count", c.notifications.CountUnread)
		notifications.PUT("/general/mark-all-read", c.notifications.MarkAllRead)
		notifications.PUT("/general/:id", c.notifications.UpdateGeneral)
		notifications.DELETE("/general/:id", c.notifications.DeleteGeneral)
		notifications.GET("/delivery", c.notifications.ListDelivery)
		notifications.DELETE("/delivery/:id", c.notifications.DeleteDelivery)

		notifications.POST("/general", admin, c.notifications.CreateGeneral)
		notifications.POST("/general/bulk", admin, c.notifications.CreateBulk)
		notifications.POST("/delivery", admin, c.notifications.CreateDelivery)
		notifications.GET("/admin/general", admin, c.notifications.ListAllGeneral)
		notifications.GET("/admin/delivery", admin, c.notifications.ListAllDelivery)
	}

	deliveries := api.Group("/deliveries", auth)
	{
		deliveries.POST("", c.deliveries.Create)
		deliveries.GET("", c.deliveries.List)
		deliveries.PUT("/:id/status", admin, c.deliveries.UpdateStatus)
	}

	searchLogs := api.Group("/search-logs", auth)
	{
		searchLogs.POST("", c.searchLogs.Create)
		searchLogs.GET("", c.searchLogs.List)
		searchLogs.GET("/analytics", admin, c.searchLogs.Analytics)
	}
}
