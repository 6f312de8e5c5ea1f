package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/aibek-k/erp-admin/internal/config"
	"github.com/aibek-k/erp-admin/internal/database"
	"github.com/aibek-k/erp-admin/internal/handlers"
	"github.com/aibek-k/erp-admin/internal/jobs"
	"github.com/aibek-k/erp-admin/internal/repository"
	cronjobs "github.com/aibek-k/erp-admin/internal/scheduler"
	"github.com/aibek-k/erp-admin/internal/services"
	"github.com/aibek-k/erp-admin/pkg/email"
	"github.com/aibek-k/erp-admin/pkg/logger"
	"github.com/aibek-k/erp-admin/pkg/middleware"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Open the embedded database
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer db.Close()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	depRepo := repository.NewDepartmentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// --- Services ---
	mailer := email.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPSender, cfg.SMTPPassword)
	userService := services.NewUserService(userRepo, permRepo, mailer)
	orgService := services.NewOrganizationService(orgRepo)
	depService := services.NewDepartmentService(depRepo, orgRepo)
	notificationService := services.NewNotificationService(notifRepo, userRepo)
	permissionService := services.NewPermissionService(permRepo)
	inventoryService := services.NewInventoryService(inventoryRepo)
	purchaseService := services.NewPurchaseService(purchaseRepo, notificationService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	depHandler := handlers.NewDepartmentHandler(depService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, cfg.PollInterval)
	permissionHandler := handlers.NewPermissionHandler(permissionService, userService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/password-reset/request", userHandler.RequestPasswordResetHandler).Methods("POST")
	router.HandleFunc("/users/password-reset", userHandler.ResetPasswordHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	notificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("", notificationHandler.SendNotificationHandler).Methods("POST")
	notificationRoutes.HandleFunc("/config", notificationHandler.GetConfigHandler).Methods("GET")
	notificationRoutes.HandleFunc("/unread-count", notificationHandler.GetUnreadCountHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read-all", notificationHandler.MarkAllAsReadHandler).Methods("POST")
	notificationRoutes.Handle("/system",
		middleware.RequireRole("ADMIN")(http.HandlerFunc(notificationHandler.SendSystemNotificationHandler))).Methods("POST")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Organization and department routes
	orgRoutes := router.PathPrefix("/organizations").Subrouter()
	orgRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	orgRoutes.HandleFunc("", orgHandler.CreateOrganizationHandler).Methods("POST")
	orgRoutes.HandleFunc("", orgHandler.GetOrganizationsHandler).Methods("GET")
	orgRoutes.HandleFunc("/{id}", orgHandler.GetOrganizationHandler).Methods("GET")
	orgRoutes.HandleFunc("/{id}", orgHandler.UpdateOrganizationHandler).Methods("PUT")
	orgRoutes.HandleFunc("/{id}", orgHandler.DeleteOrganizationHandler).Methods("DELETE")

	depRoutes := router.PathPrefix("/departments").Subrouter()
	depRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	depRoutes.HandleFunc("", depHandler.CreateDepartmentHandler).Methods("POST")
	depRoutes.HandleFunc("", depHandler.GetDepartmentsHandler).Methods("GET")
	depRoutes.HandleFunc("/{id}", depHandler.UpdateDepartmentHandler).Methods("PUT")
	depRoutes.HandleFunc("/{id}", depHandler.DeleteDepartmentHandler).Methods("DELETE")

	// Inventory routes
	inventoryRoutes := router.PathPrefix("/inventory").Subrouter()
	inventoryRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	inventoryRoutes.HandleFunc("", inventoryHandler.CreateItemHandler).Methods("POST")
	inventoryRoutes.HandleFunc("", inventoryHandler.GetItemsHandler).Methods("GET")
	inventoryRoutes.HandleFunc("/low-stock", inventoryHandler.GetLowStockHandler).Methods("GET")
	inventoryRoutes.HandleFunc("/{id}", inventoryHandler.GetItemHandler).Methods("GET")
	inventoryRoutes.HandleFunc("/{id}", inventoryHandler.UpdateItemHandler).Methods("PATCH")
	inventoryRoutes.HandleFunc("/{id}/adjust", inventoryHandler.AdjustQuantityHandler).Methods("POST")
	inventoryRoutes.HandleFunc("/{id}", inventoryHandler.DeleteItemHandler).Methods("DELETE")

	// Purchase order routes
	purchaseRoutes := router.PathPrefix("/purchases").Subrouter()
	purchaseRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	purchaseRoutes.HandleFunc("", purchaseHandler.CreateOrderHandler).Methods("POST")
	purchaseRoutes.HandleFunc("", purchaseHandler.GetOrdersHandler).Methods("GET")
	purchaseRoutes.HandleFunc("/{id}", purchaseHandler.GetOrderHandler).Methods("GET")
	purchaseRoutes.HandleFunc("/{id}/status", purchaseHandler.TransitionOrderHandler).Methods("POST")
	purchaseRoutes.HandleFunc("/{id}", purchaseHandler.DeleteOrderHandler).Methods("DELETE")

	// Permission editor routes (admin only)
	permissionRoutes := router.PathPrefix("/permissions").Subrouter()
	permissionRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	permissionRoutes.Use(middleware.RequireRole("ADMIN"))
	permissionRoutes.HandleFunc("/{userID}", permissionHandler.GetPermissionsHandler).Methods("GET")
	permissionRoutes.HandleFunc("/{userID}", permissionHandler.SavePermissionsHandler).Methods("PUT")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("ADMIN"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")
	adminRoutes.HandleFunc("/users/{id}/active", userHandler.SetUserActiveHandler).Methods("POST")
	adminRoutes.HandleFunc("/users/{id}", userHandler.DeleteUserHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background scans feeding the notification center
	stockNotifier := jobs.NewStockNotifier(inventoryService, purchaseService, userService, notificationService)
	scheduler := cronjobs.StartScanCronJobs(stockNotifier)
	defer scheduler.Stop()

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
