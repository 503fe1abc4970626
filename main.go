// File: barberbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberbook/config"
	"barberbook/cron"
	"barberbook/database"
	appointmentRepo "barberbook/database/repository/appointment"
	catalogRepo "barberbook/database/repository/catalog"
	familyRepo "barberbook/database/repository/family"
	"barberbook/handlers"
	"barberbook/middleware"
	"barberbook/routes"
	"barberbook/services/booking"
	"barberbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	catalog := catalogRepo.NewMongoCatalogRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()
	family := familyRepo.NewMongoFamilyRepo()

	// background worker for appointment completion.
	cron.InitCompletionWorker(appointments)
	completionScheduler := cron.NewCompletionScheduler()

	// services.
	bookingService := &booking.DefaultBookingSessionService{
		Catalog:      catalog,
		Appointments: appointments,
		Family:       family,
		Cache:        utils.GetSessionCacheClient(),
		Completions:  completionScheduler,
		SessionTTL:   time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute,
		Granularity:  config.AppConfig.SlotGranularityMinutes,
	}

	// handlers.
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalog, appointments, config.AppConfig.SlotGranularityMinutes, logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointments, logger)
	familyHandler := handlers.NewFamilyHandler(family, logger)

	// routes.
	routes.RegisterHealthRoute(router)
	routes.RegisterCatalogRoutes(router, catalogHandler)
	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterAppointmentRoutes(router, appointmentHandler)
	routes.RegisterFamilyRoutes(router, familyHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
