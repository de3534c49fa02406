package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"clinicrm/internal/app/crm/config"
	"clinicrm/internal/app/crm/entity"
	"clinicrm/internal/app/crm/handler"
	"clinicrm/internal/app/crm/processor"
	"clinicrm/internal/app/crm/repository"
	"clinicrm/internal/app/crm/service"
	"clinicrm/internal/app/crm/util"
	"clinicrm/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("crm", cfg.App.LogLevel)

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := util.NewRedisClient(
		cfg.Redis.Address(),
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	mongoDB, mongoClient, err := connectMongo(cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()
	logger.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")

	leadProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.LeadTopic)
	defer leadProducer.Close()
	reminderProducer := util.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.ReminderTopic)
	defer reminderProducer.Close()
	logger.Info().
		Str("lead_topic", cfg.Kafka.LeadTopic).
		Str("reminder_topic", cfg.Kafka.ReminderTopic).
		Msg("Initialized Kafka producers")

	jwtManager, err := util.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	activityRepo := repository.NewLeadActivityRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	followUpRepo := repository.NewFollowUpRepository(db)
	commentRepo := repository.NewCommentRepository(mongoDB)

	// Сид и bootstrap при каждом старте, оба идемпотентны
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer seedCancel()

	seedService := service.NewSeedService(permissionRepo, roleRepo)
	if err := seedService.Run(seedCtx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to seed database")
	}

	bootstrapService := service.NewBootstrapService(userRepo, roleRepo, cfg.SuperAdmin, cfg.App.BcryptCost)
	if err := bootstrapService.Run(seedCtx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to bootstrap super admin")
	}

	authService := service.NewAuthService(userRepo, jwtManager)
	roleService := service.NewRoleService(roleRepo)
	permissionService := service.NewPermissionService(permissionRepo, redisClient)
	userService := service.NewUserService(userRepo, roleRepo, cfg.App.BcryptCost)
	leadService := service.NewLeadService(leadRepo, activityRepo, leadProducer)
	branchService := service.NewBranchService(branchRepo)
	doctorService := service.NewDoctorService(doctorRepo)
	followUpService := service.NewFollowUpService(followUpRepo, leadRepo, reminderProducer)
	commentService := service.NewCommentService(commentRepo, activityRepo)

	authMiddleware := handler.NewAuthMiddleware(authService)
	handlers := &handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, cfg.IsProduction()),
		Role:       handler.NewRoleHandler(roleService),
		Permission: handler.NewPermissionHandler(permissionService),
		User:       handler.NewUserHandler(userService),
		Lead:       handler.NewLeadHandler(leadService),
		Branch:     handler.NewBranchHandler(branchService),
		Doctor:     handler.NewDoctorHandler(doctorService),
		FollowUp:   handler.NewFollowUpHandler(followUpService),
		Comment:    handler.NewCommentHandler(commentService),
	}

	router := handler.SetupRoutes(handlers, authMiddleware)

	// Cron-сканер напоминаний по follow-up
	scheduler := processor.NewCronScheduler(followUpService)
	if err := scheduler.Start(context.Background(), cfg.App.FollowUpSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start follow-up scheduler")
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting CRM Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down CRM Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("CRM Service stopped gracefully")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				pingErr := sqlDB.Ping()
				if pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(25)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					sqlDB.SetConnMaxIdleTime(1 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// migrate регистрирует явные join-модели и создает схему.
// SetupJoinTable нужен, чтобы gorm использовал наши композитные PK
// для user_roles и role_permissions
func migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&entity.Role{}, "Permissions", &entity.RolePermission{}); err != nil {
		return fmt.Errorf("failed to set up role_permissions join table: %w", err)
	}
	if err := db.SetupJoinTable(&entity.User{}, "Roles", &entity.UserRole{}); err != nil {
		return fmt.Errorf("failed to set up user_roles join table: %w", err)
	}

	return db.AutoMigrate(
		&entity.Permission{},
		&entity.Role{},
		&entity.User{},
		&entity.Profile{},
		&entity.Branch{},
		&entity.Doctor{},
		&entity.Lead{},
		&entity.LeadActivity{},
		&entity.FollowUp{},
	)
}

func connectMongo(cfg config.MongoConfig) (*mongo.Database, *mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(cfg.Database), client, nil
}
