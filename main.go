package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coachhub/config"
	"coachhub/cron"
	"coachhub/database"
	appointmentRepo "coachhub/database/repository/appointment"
	checkinRepo "coachhub/database/repository/checkin"
	planRepo "coachhub/database/repository/plan"
	userRepoPkg "coachhub/database/repository/user"
	"coachhub/handlers"
	"coachhub/middleware"
	"coachhub/routes"
	"coachhub/services/activity"
	"coachhub/services/analytics"
	"coachhub/services/appointment"
	"coachhub/services/checkin"
	"coachhub/services/client"
	"coachhub/services/notification"
	"coachhub/services/plan"
	"coachhub/services/realtime"
	"coachhub/services/storage"
	"coachhub/services/user"
	"coachhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: database unavailable", zap.Error(err))
	}
	if err := utils.InitRedis(); err != nil {
		logger.Fatal("main: redis unavailable", zap.Error(err))
	}
	queueOpt := utils.QueueRedisOpt()
	queueHealth, err := utils.NewRedisClient(config.AppConfig.RedisQueueDB)
	if err != nil {
		logger.Fatal("main: reminder queue unavailable", zap.Error(err))
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	db := database.Database()
	users := userRepoPkg.NewMongoUserRepo(db)
	plans := planRepo.NewMongoPlanRepo(db)
	meals := planRepo.NewMongoMealRepo(db)
	appts := appointmentRepo.NewMongoAppointmentRepo(db)
	checkIns := checkinRepo.NewMongoCheckInRepo(db)

	indexCtx, cancelIndexes := context.WithTimeout(rootCtx, 30*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		"users":        users.EnsureIndexes,
		"plans":        plans.EnsureIndexes,
		"meals":        meals.EnsureIndexes,
		"appointments": appts.EnsureIndexes,
		"checkins":     checkIns.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	cancelIndexes()

	// external integrations.
	messagingClient, err := utils.NewMessagingClient(rootCtx)
	if err != nil {
		logger.Fatal("main: failed to initialize firebase", zap.Error(err))
	}
	if messagingClient == nil {
		logger.Warn("main: FIREBASE_CREDENTIALS_FILE not set, push notifications will only be logged")
	}
	notifier := notification.New(users, messagingClient)

	cld, err := utils.NewCloudinary()
	if err != nil {
		logger.Fatal("main: failed to initialize cloudinary", zap.Error(err))
	}
	if cld == nil {
		logger.Warn("main: cloudinary not configured, avatar uploads are disabled")
	}

	hub := realtime.NewHub()
	reminders := appointment.NewAsynqScheduler(queueOpt)

	// services.
	tokens := utils.NewTokenIssuer(config.AppConfig.JWTSecret, config.AppConfig.TokenTTL)

	analyticsService := &analytics.DefaultAnalyticsService{
		Users:        users,
		Plans:        plans,
		Meals:        meals,
		Appointments: appts,
		CheckIns:     checkIns,
		Cache:        utils.CacheClient,
		CacheTTL:     config.AppConfig.AnalyticsCacheTTL,
	}
	userService := &user.DefaultUserService{
		Repo:      users,
		Tokens:    tokens,
		AuthCache: utils.AuthCacheClient,
	}
	clientService := &client.DefaultClientService{
		Users:        users,
		Plans:        plans,
		Appointments: appts,
		CheckIns:     checkIns,
		Analytics:    analyticsService,
	}
	planService := &plan.DefaultPlanService{
		Users:     users,
		Plans:     plans,
		Meals:     meals,
		Events:    hub,
		Analytics: analyticsService,
	}
	appointmentService := &appointment.DefaultAppointmentService{
		Users:        users,
		Appointments: appts,
		Reminders:    reminders,
		LeadTime:     config.AppConfig.ReminderLeadTime,
		Events:       hub,
		Analytics:    analyticsService,
	}
	checkInService := &checkin.DefaultCheckInService{
		Users:     users,
		CheckIns:  checkIns,
		Events:    hub,
		Notifier:  notifier,
		Analytics: analyticsService,
	}
	activityService := &activity.DefaultActivityService{
		Users:    users,
		Meals:    meals,
		CheckIns: checkIns,
	}

	handlerBundle := &handlers.HandlerBundle{
		Auth: &middleware.Authenticator{
			Tokens:    tokens,
			Users:     users,
			AuthCache: utils.AuthCacheClient,
		},
		Users: &handlers.UserHandler{
			UserService: userService,
			Storage:     storage.NewStorageService(cld, userService),
		},
		Clients:      &handlers.ClientHandler{ClientService: clientService},
		Plans:        &handlers.PlanHandler{PlanService: planService},
		Appointments: &handlers.AppointmentHandler{AppointmentService: appointmentService},
		CheckIns:     &handlers.CheckInHandler{CheckInService: checkInService},
		Analytics: &handlers.AnalyticsHandler{
			AnalyticsService: analyticsService,
			ActivityService:  activityService,
		},
		Socket:            &handlers.SocketHandler{Hub: hub},
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
	}

	// background work.
	utils.StartHealthMonitor(rootCtx, 30*time.Second,
		[]*redis.Client{utils.CacheClient, utils.AuthCacheClient, queueHealth}, database.MongoClient)
	worker := cron.InitReminderWorker(queueOpt, &cron.ReminderWorker{
		Appointments: appts,
		Users:        users,
		Notifier:     notifier,
	})

	router := gin.New()
	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	hub.Close()
	worker.Shutdown()
	if err := reminders.Close(); err != nil {
		logger.Warn("main: failed to close reminder scheduler", zap.Error(err))
	}
	stop()
	for _, c := range []*redis.Client{utils.CacheClient, utils.AuthCacheClient, queueHealth} {
		_ = c.Close()
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
