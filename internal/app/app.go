package app

import (
	"fmt"

	"corpmatch_backend/internal/config"
	"corpmatch_backend/internal/email"
	"corpmatch_backend/internal/handlers"
	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/middleware"
	"corpmatch_backend/internal/models"
	"corpmatch_backend/internal/otp"
	"corpmatch_backend/internal/repositories"
	"corpmatch_backend/internal/routes"
	"corpmatch_backend/internal/services"
	"corpmatch_backend/internal/services/payment"
	"corpmatch_backend/internal/services/rides"
	"corpmatch_backend/internal/validator"
	"corpmatch_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Database migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Match{},
		&models.Restaurant{},
		&models.Meeting{},
		&models.CabBooking{},
		&models.PremiumPurchase{},
		&models.Message{},
		&models.Notification{},
	)
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	// 1. Инициализируем WebSocket-менеджер: он же Publisher для сервисов
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()

	// 2. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, gormDB, wsManager)

	// 3. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	wsHandler := ws.NewWebSocketHandler(wsManager, serviceContainer.MessageService)

	// 4. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 5. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, publisher services.Publisher) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewGomailProvider(cfg)
	} else {
		logger.Warn("SMTP is not configured, emails will be dropped")
		emailService = &email.NoopProvider{}
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository(gormDB)
	matchRepo := repositories.NewMatchRepository(gormDB)
	meetingRepo := repositories.NewMeetingRepository(gormDB)
	restaurantRepo := repositories.NewRestaurantRepository(gormDB)
	bookingRepo := repositories.NewCabBookingRepository(gormDB)
	premiumRepo := repositories.NewPremiumRepository(gormDB)
	messageRepo := repositories.NewMessageRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// --- Внешние зависимости ---
	gateway := payment.NewRazorpayService(&cfg.Payments)
	estimator := rides.NewEstimator(cfg.Payments.Currency)
	otpStore := otp.NewStore(cfg)

	// --- Инициализация сервисов ---
	authService := services.NewAuthService(userRepo)
	profileService := services.NewProfileService(userRepo)
	matchService := services.NewMatchService(matchRepo, userRepo, notificationRepo, publisher)
	meetingService := services.NewMeetingService(meetingRepo, matchRepo, userRepo, restaurantRepo, notificationRepo, gateway, emailService, publisher, &cfg.Payments)
	cabService := services.NewCabService(bookingRepo, meetingRepo, notificationRepo, estimator, publisher, &cfg.Payments)
	premiumService := services.NewPremiumService(premiumRepo, userRepo, matchRepo, gateway, &cfg.Payments)
	messageService := services.NewMessageService(messageRepo, matchRepo, userRepo, notificationRepo, publisher)
	notificationService := services.NewNotificationService(notificationRepo)
	phoneService := services.NewPhoneService(userRepo, otpStore)
	restaurantService := services.NewRestaurantService(restaurantRepo)
	webhookService := services.NewWebhookService(meetingRepo, premiumRepo, gateway)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProfileService:      profileService,
		MatchService:        matchService,
		MeetingService:      meetingService,
		CabService:          cabService,
		PremiumService:      premiumService,
		MessageService:      messageService,
		NotificationService: notificationService,
		PhoneService:        phoneService,
		RestaurantService:   restaurantService,
		WebhookService:      webhookService,
		EmailService:        emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, services.ProfileService),
		MatchHandler:        handlers.NewMatchHandler(baseHandler, services.MatchService),
		MeetingHandler:      handlers.NewMeetingHandler(baseHandler, services.MeetingService),
		CabHandler:          handlers.NewCabHandler(baseHandler, services.CabService),
		PremiumHandler:      handlers.NewPremiumHandler(baseHandler, services.PremiumService),
		MessageHandler:      handlers.NewMessageHandler(baseHandler, services.MessageService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		PhoneHandler:        handlers.NewPhoneHandler(baseHandler, services.PhoneService),
		RestaurantHandler:   handlers.NewRestaurantHandler(baseHandler, services.RestaurantService),
		WebhookHandler:      handlers.NewWebhookHandler(baseHandler, services.WebhookService),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
