package routes

import (
	"salonbook-backend/config"
	"salonbook-backend/controllers"
	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services groups what the handlers need besides the database.
type Services struct {
	Cashier     *services.CashierService
	Commissions *services.CommissionService
	Bookings    *services.BookingService
}

func SetupRouter(db *gorm.DB, allowedOrigins []string, svc Services) *gin.Engine {
	r := gin.Default()

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.GET("/me", utils.AuthMiddleware(), controllers.Me)
	}

	cashier := &controllers.CashierController{Cashier: svc.Cashier}
	commissions := &controllers.CommissionController{Commissions: svc.Commissions}
	bookings := &controllers.BookingController{Bookings: svc.Bookings}
	reports := &controllers.ReportController{DB: db}
	dashboard := &controllers.DashboardController{DB: db}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		settle := api.Group("/cashier/close")
		{
			settle.POST("", cashier.CloseSession)
			settle.GET("", cashier.LookupSession)
		}

		sessions := api.Group("/cashier/sessions")
		{
			sessions.POST("", cashier.OpenSession)
			sessions.GET("", cashier.ListSessions)
			sessions.GET("/:id", cashier.GetSession)
			sessions.POST("/:id/items", cashier.AddItem)
			sessions.DELETE("/:id/items/:itemId", cashier.RemoveItem)
			sessions.PUT("/:id/discount", cashier.SetDiscount)
			sessions.POST("/:id/cancel", cashier.CancelSession)
		}

		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
		}

		catalogue := api.Group("/services")
		{
			catalogue.POST("", controllers.CreateService)
			catalogue.GET("", controllers.GetServices)
			catalogue.GET("/:id", controllers.GetService)
			catalogue.PUT("/:id", controllers.UpdateService)
			catalogue.DELETE("/:id", controllers.DeleteService)
		}

		staff := api.Group("/staff")
		{
			staff.GET("", controllers.GetStaff)
			staff.POST("", controllers.CreateStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
			staff.DELETE("/:id", controllers.DeleteStaff)

			staff.GET("/:id/commission-config", commissions.GetConfig)
			staff.PUT("/:id/commission-config", utils.RequireRole(models.RoleOwner), commissions.UpsertConfig)
			staff.PUT("/:id/commission-config/overrides/:serviceId", utils.RequireRole(models.RoleOwner), commissions.UpsertOverride)
			staff.DELETE("/:id/commission-config/overrides/:serviceId", utils.RequireRole(models.RoleOwner), commissions.DeleteOverride)
		}

		ledger := api.Group("/commissions")
		{
			ledger.GET("", commissions.ListCommissions)
			ledger.GET("/export", commissions.ExportCommissions)
			ledger.POST("/backfill", utils.RequireRole(models.RoleOwner), commissions.Backfill)
		}

		bookingRoutes := api.Group("/bookings")
		{
			bookingRoutes.POST("", bookings.CreateBooking)
			bookingRoutes.GET("", bookings.GetBookings)
			bookingRoutes.GET("/:id", bookings.GetBooking)
			bookingRoutes.PATCH("/:id/status", bookings.UpdateStatus)
		}

		api.GET("/reports", reports.GetReportAnalytics)
		api.GET("/dashboard", dashboard.GetDashboardOverview)
		api.GET("/notifications", controllers.GetNotificationLogs)

		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-salon", utils.RequireRole(models.RoleOwner), controllers.UpdateSalonProfile)
			profile.PUT("/update-hours", utils.RequireRole(models.RoleOwner), controllers.UpdateWorkingHours)
			profile.PUT("/update-receipt", utils.RequireRole(models.RoleOwner), controllers.UpdateReceiptTemplate)
			profile.PUT("/update-notifications", utils.RequireRole(models.RoleOwner), controllers.UpdateNotifications)
		}
	}

	return r
}
