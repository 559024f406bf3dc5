package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/christkomika7/atlas-crm-sub004/api/swagger" // swagger docs
	"github.com/christkomika7/atlas-crm-sub004/internal/database"
	"github.com/christkomika7/atlas-crm-sub004/internal/handler"
	"github.com/christkomika7/atlas-crm-sub004/internal/middleware"
	"github.com/christkomika7/atlas-crm-sub004/internal/repository"
	"github.com/christkomika7/atlas-crm-sub004/internal/service"
	"github.com/christkomika7/atlas-crm-sub004/internal/storage"
	"github.com/christkomika7/atlas-crm-sub004/internal/websocket"
)

// @title           Atlas CRM API
// @version         1.0
// @description     Business management API: documents, billboard rentals, counterparty balances, treasury and projects.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./storage"
	}
	fileStore, err := storage.NewStore(storageDir)
	if err != nil {
		log.Fatalf("Storage initialization failed: %v", err)
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	billboardRepo := repository.NewBillboardRepository(db)
	productRepo := repository.NewProductRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo)
	companyService := service.NewCompanyService(companyRepo)
	clientService := service.NewClientService(clientRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	billboardService := service.NewBillboardService(billboardRepo)
	catalogService := service.NewCatalogService(productRepo, auditRepo, txManager)
	projectService := service.NewProjectService(projectRepo, clientRepo)
	documentService := service.NewDocumentService(
		documentRepo, clientRepo, supplierRepo, projectRepo, productRepo,
		billboardRepo, paymentRepo, transactionRepo, ledgerRepo,
		notificationRepo, companyRepo, auditRepo, fileStore, txManager, wsHub,
	)
	transactionService := service.NewTransactionService(
		transactionRepo, paymentRepo, documentRepo, clientRepo, supplierRepo,
		projectRepo, ledgerRepo, notificationRepo, auditRepo, txManager, wsHub,
	)
	notificationService := service.NewNotificationService(notificationRepo)
	statisticsService := service.NewStatisticsService(db)
	auditService := service.NewAuditService(auditRepo)
	backupService := service.NewBackupService(db, auditRepo, txManager)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	companyHandler := handler.NewCompanyHandler(companyService)
	clientHandler := handler.NewClientHandler(clientService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	billboardHandler := handler.NewBillboardHandler(billboardService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	projectHandler := handler.NewProjectHandler(projectService)
	documentHandler := handler.NewDocumentHandler(documentService, fileStore)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)
	auditHandler := handler.NewAuditHandler(auditService)
	backupHandler := handler.NewBackupHandler(backupService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	companyHandler.RegisterRoutes(root)
	clientHandler.RegisterRoutes(root)
	supplierHandler.RegisterRoutes(root)
	billboardHandler.RegisterRoutes(root)
	catalogHandler.RegisterRoutes(root)
	projectHandler.RegisterRoutes(root)
	documentHandler.RegisterRoutes(root)
	transactionHandler.RegisterRoutes(root)
	notificationHandler.RegisterRoutes(root)
	statisticsHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)
	backupHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
