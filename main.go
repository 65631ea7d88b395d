package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"

	"github.com/mreimer702/Rettnar/config"
	"github.com/mreimer702/Rettnar/controllers"
	"github.com/mreimer702/Rettnar/database"
	"github.com/mreimer702/Rettnar/events"
	"github.com/mreimer702/Rettnar/logger"
	"github.com/mreimer702/Rettnar/middleware"
	"github.com/mreimer702/Rettnar/obs"
	"github.com/mreimer702/Rettnar/repositories"
	"github.com/mreimer702/Rettnar/services"
	"github.com/mreimer702/Rettnar/utils"
)

const (
	serviceName    = "renttar-api"
	serviceVersion = "1.0.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============================================
	// 1. CONFIGURACIÓN - Leer variables de entorno
	// ============================================
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Default().Fatalf("❌ Invalid configuration: %v", err)
	}
	logger.InitLogger(cfg.LogLevel)
	log := logger.Default()
	utils.ConfigureJWT(cfg.JWTSecret, cfg.TokenTTL())

	log.Info("🔧 Configuración cargada:")
	log.Infof("   - DB: %s en %s:%s/%s", cfg.DBDriver, cfg.DBHost, cfg.DBPort, cfg.DBName)
	log.Infof("   - Blob store: %s", cfg.BlobStore)
	log.Infof("   - Memcached: %q, RabbitMQ configurado: %t", cfg.MemcachedHost, cfg.RabbitMQURL != "")

	shutdownTracer, err := obs.InitTracer(ctx, serviceName, serviceVersion, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("❌ Failed to init tracing: %v", err)
	}

	// ============================================
	// 2. CONECTAR A LA BASE DE DATOS
	// ============================================
	log.Infof("📡 Conectando a %s...", cfg.DBDriver)
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Info("✅ Conexión exitosa")

	// ============================================
	// 3. MIGRACIONES Y DATOS INICIALES
	// ============================================
	log.Info("🔄 Ejecutando migraciones...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := database.Seed(ctx, db, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Info("✅ Tablas creadas/actualizadas")

	sqlxDB, err := database.SQLX(db, cfg.DBDriver)
	if err != nil {
		log.Fatalf("❌ Failed to wrap connection for analytics: %v", err)
	}

	// ============================================
	// 4. CACHÉ Y ALMACENAMIENTO DE IMÁGENES
	// ============================================
	cache := repositories.NewCacheRepository(cfg.MemcachedHost, cfg.CacheTTL())

	blobs, mongoClient, err := openBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open blob store: %v", err)
	}

	// ============================================
	// 5. INICIALIZAR CAPAS (Repository -> Service -> Controller)
	// ============================================
	log.Info("🏗️  Inicializando capas...")

	// Repositories: acceso a datos
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	listingRepo := repositories.NewListingRepository(db)
	imageRepo := repositories.NewImageRepository(db)
	availabilityRepo := repositories.NewAvailabilityRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	deliveryRepo := repositories.NewDeliveryRepository(db)
	searchLogRepo := repositories.NewSearchLogRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(sqlxDB)

	// Las notificaciones consumen los eventos del resto de los servicios
	notificationService := services.NewNotificationService(notificationRepo, userRepo, deliveryRepo)

	// ============================================
	// 6. EVENTOS (RabbitMQ o en el mismo proceso)
	// ============================================
	publisher, consumer := openEvents(ctx, cfg, notificationService)

	// Services: lógica de negocio
	userService := services.NewUserService(userRepo, roleRepo, locationRepo)
	roleService := services.NewRoleService(roleRepo)
	catalogService := services.NewCatalogService(catalogRepo)
	locationService := services.NewLocationService(locationRepo, analyticsRepo)
	listingService := services.NewListingService(services.ListingDeps{
		Listings:   listingRepo,
		Catalog:    catalogRepo,
		Locations:  locationRepo,
		Reviews:    reviewRepo,
		Users:      userRepo,
		SearchLogs: searchLogRepo,
		Blobs:      blobs,
		Cache:      cache,
	})
	imageService := services.NewImageService(imageRepo, listingRepo, blobs, cache)
	availabilityService := services.NewAvailabilityService(availabilityRepo, listingRepo)
	bookingService := services.NewBookingService(bookingRepo, listingRepo, publisher)
	paymentService := services.NewPaymentService(paymentRepo, listingRepo, bookingRepo, publisher)
	messageService := services.NewMessageService(messageRepo, userRepo, publisher)
	reviewService := services.NewReviewService(reviewRepo, listingRepo, cache)
	deliveryService := services.NewDeliveryService(deliveryRepo, listingRepo, notificationRepo)
	searchLogService := services.NewSearchLogService(searchLogRepo, locationRepo, analyticsRepo)

	// Controllers: manejan HTTP
	ctrls := routeControllers{
		health:        controllers.NewHealthController(serviceName, func(ctx context.Context) error { return database.Ping(ctx, db) }),
		users:         controllers.NewUserController(userService),
		roles:         controllers.NewRoleController(roleService),
		catalog:       controllers.NewCatalogController(catalogService),
		locations:     controllers.NewLocationController(locationService),
		listings:      controllers.NewListingController(listingService),
		images:        controllers.NewImageController(imageService),
		availability:  controllers.NewAvailabilityController(availabilityService),
		bookings:      controllers.NewBookingController(bookingService),
		payments:      controllers.NewPaymentController(paymentService),
		messages:      controllers.NewMessageController(messageService),
		reviews:       controllers.NewReviewController(reviewService),
		notifications: controllers.NewNotificationController(notificationService),
		deliveries:    controllers.NewDeliveryController(deliveryService),
		searchLogs:    controllers.NewSearchLogController(searchLogService),
	}
	log.Info("✅ Capas inicializadas")

	// ============================================
	// 7. CONFIGURAR GIN Y RUTAS
	// ============================================
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(gin.Recovery(), logger.RequestLogger(), middleware.Tracing(serviceName))
	registerRoutes(router, ctrls, userService)

	// CORS y compresión envuelven todo el router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", logger.RequestIDHeader, "traceparent"},
		ExposedHeaders:   []string{logger.RequestIDHeader},
		AllowCredentials: false,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.CompressHandler(corsHandler.Handler(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ============================================
	// 8. ARRANCAR EL SERVIDOR
	// ============================================
	go func() {
		log.Info("🚀 =======================================")
		log.Infof("🚀 Renttar API corriendo en puerto %s", cfg.Port)
		log.Info("🚀 =======================================")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Apagando el servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Errorf("Consumer shutdown: %v", err)
		}
	}
	if err := publisher.Close(); err != nil {
		log.Errorf("Publisher shutdown: %v", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Errorf("Mongo disconnect: %v", err)
		}
	}
	closeDB(db)
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Errorf("Tracer shutdown: %v", err)
	}
	log.Info("👋 Servidor detenido")
}

// openBlobStore elige dónde se guardan las imágenes subidas según BLOB_STORE
func openBlobStore(ctx context.Context, cfg *config.Config) (repositories.BlobRepository, *mongo.Client, error) {
	log := logger.Default()
	switch cfg.BlobStore {
	case "gridfs":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, nil, err
		}
		blobs, err := repositories.NewGridFSBlobRepository(client.Database(cfg.MongoDB))
		if err != nil {
			return nil, nil, err
		}
		log.Infof("✅ Imágenes en MongoDB GridFS (%s)", cfg.MongoDB)
		return blobs, client, nil
	case "s3":
		blobs, err := repositories.NewS3BlobRepository(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessID, cfg.S3AccessKey)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("✅ Imágenes en S3 (bucket %s)", cfg.S3Bucket)
		return blobs, nil, nil
	default:
		log.Info("Subida de imágenes deshabilitada (BLOB_STORE=none)")
		return repositories.NewNoopBlobRepository(), nil, nil
	}
}

// openEvents conecta a RabbitMQ si hay URL; si no, despacha en el mismo proceso.
// Si RabbitMQ no responde al arrancar también se usa el despacho directo.
func openEvents(ctx context.Context, cfg *config.Config, handler events.Handler) (events.Publisher, *events.Consumer) {
	log := logger.Default()
	if cfg.RabbitMQURL == "" {
		log.Info("Eventos en el mismo proceso (RABBITMQ_URL no configurada)")
		return events.NewDirectPublisher(handler), nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
	if err != nil {
		log.Warnf("⚠️  RabbitMQ unavailable, dispatching events in-process: %v", err)
		return events.NewDirectPublisher(handler), nil
	}

	consumer, err := events.NewConsumer(cfg.RabbitMQURL, cfg.EventsExchange, cfg.NotificationsQueue, handler)
	if err != nil {
		log.Fatalf("❌ Failed to create consumer: %v", err)
	}
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start consumer: %v", err)
	}
	log.Infof("✅ Eventos publicados en el exchange %s", cfg.EventsExchange)
	return publisher, consumer
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Default().Errorf("Database close: %v", err)
	}
}
