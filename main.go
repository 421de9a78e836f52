package main

import (
	"fmt"
	"log"

	"salonbook-backend/config"
	"salonbook-backend/routes"
	"salonbook-backend/services"
	"salonbook-backend/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := config.ConnectDB(cfg); err != nil {
		log.Fatal(err)
	}
	if err := config.Migrate(config.DB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	if err := utils.InitReceiptNode(cfg.ReceiptNodeID); err != nil {
		log.Fatalf("receipt node: %v", err)
	}

	commissions := services.NewCommissionService(config.DB)

	var receipts services.ReceiptSender
	if cfg.TwilioEnabled() {
		receipts = services.NewReceiptService(config.DB, services.TwilioSettings{
			AccountSID:     cfg.TwilioAccountSID,
			AuthToken:      cfg.TwilioAuthToken,
			PhoneNumber:    cfg.TwilioPhoneNumber,
			WhatsAppNumber: cfg.TwilioWhatsAppNumber,
		})
	} else {
		log.Println("Twilio not configured, receipts will not be sent")
	}

	backfill, err := services.StartCommissionBackfill(commissions, cfg.BackfillCron)
	if err != nil {
		log.Fatalf("commission backfill: %v", err)
	}
	if backfill != nil {
		defer backfill.Stop()
	}

	r := routes.SetupRouter(config.DB, cfg.CORSOrigins, routes.Services{
		Cashier:     services.NewCashierService(config.DB, receipts),
		Commissions: commissions,
		Bookings:    services.NewBookingService(config.DB),
	})
	printRoutes(r)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
