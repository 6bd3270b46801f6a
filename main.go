package main

import (
	"context"
	"errors"
	"log"
	"mediease/config"
	"mediease/controllers"
	"mediease/middleware"
	"mediease/routes"
	"mediease/utils"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	utils.SetDebug(cfg.Environment == "development")

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := utils.ConnectDB(connectCtx, cfg.MongoURI)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			utils.Error("disconnect mongodb: %v", err)
		}
	}()
	db := client.Database(cfg.DBName)

	tokens := utils.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	userController := controllers.NewUserController(db, cfg.DBTimeout)
	paymentController := controllers.NewPaymentController(db, cfg.DBTimeout)
	if cfg.StripeSecretKey != "" {
		paymentController.Intents = utils.NewStripePayments(cfg.StripeSecretKey)
	} else {
		utils.Warn("STRIPE_SECRET_KEY not set; payment intents are disabled")
	}
	if cfg.PostmarkServerToken != "" && cfg.EmailSender != "" {
		paymentController.Notifier = utils.NewEmailService(cfg.PostmarkServerToken, cfg.EmailSender)
	}

	router := mux.NewRouter()
	err = routes.RegisterRoutes(router, routes.Controllers{
		Tokens:         controllers.NewTokenController(tokens),
		Users:          userController,
		Medicines:      controllers.NewMedicineController(db, cfg.DBTimeout),
		Categories:     controllers.NewCategoryController(db, cfg.DBTimeout),
		Carts:          controllers.NewCartController(db, cfg.DBTimeout),
		Advertisements: controllers.NewAdvertisementController(db, cfg.DBTimeout),
		Payments:       paymentController,
		Stats:          controllers.NewStatsController(db, cfg.DBTimeout),
	}, routes.NewGates(tokens, userController), cfg.RoutePolicies)
	if err != nil {
		return err
	}

	var handler http.Handler = router
	handler = handlers.RecoveryHandler(handlers.RecoveryLogger(utils.ErrorLogger))(handler)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	handler = middleware.RequestID(handler)
	handler = handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSAllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.RequestIDHeader}),
	)(handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		utils.Info("MediEase is running on port %s", cfg.Port)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	utils.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// Settlement emails outlive their requests.
	if err := paymentController.WaitForNotifications(shutdownCtx); err != nil {
		utils.Warn("%v", err)
	}
	return nil
}
