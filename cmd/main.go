package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	changeStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/change_status"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	deleteAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	listSalonAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_salon_appointments"
	restoreAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/restore_appointment"
	retryFinancialSyncHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/retry_financial_sync"
	updateClientHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_client"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache/velocity"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/client"
	financialSyncRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/financialsync"
	salonRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/salon"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/finance"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	clientsService "github.com/m04kA/SMC-AppointmentService/internal/service/clients"
	salonsService "github.com/m04kA/SMC-AppointmentService/internal/service/salons"
	changeStatusUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/change_status"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	retryFinancialSyncUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/retry_financial_sync"
	financialSyncWorker "github.com/m04kA/SMC-AppointmentService/internal/worker/financialsync"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// .env необязателен: в контейнере переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", *configPath)

	defaultLocation, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}

	// Метрики: nil-коллектор безопасен, методы ничего не делают
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	clientRepository := clientRepo.NewRepository(wrappedDB)
	salonRepository := salonRepo.NewRepository(wrappedDB)
	financialSyncRepository := financialSyncRepo.NewRepository(wrappedDB)

	// Финансовая подсистема
	financeClient := finance.NewClient(
		cfg.Finance.URL,
		cfg.Finance.APIKey,
		cfg.Finance.Operation,
		time.Duration(cfg.Finance.Timeout)*time.Second,
		log,
	)
	log.Info("Finance client initialized (url=%s, operation=%s, timeout=%ds)",
		cfg.Finance.URL, cfg.Finance.Operation, cfg.Finance.Timeout)

	// Ограничение частоты записей (только при заданном Redis)
	var limiter createBookingUC.VelocityLimiter
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" && cfg.Booking.VelocityMaxBookings > 0 {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		limiter = velocity.NewLimiter(redisClient, velocity.Config{
			MaxBookings: cfg.Booking.VelocityMaxBookings,
			Window:      cfg.Booking.VelocityWindow(),
		}, log)
		log.Info("Velocity limit enabled: %d bookings per %s (redis=%s)",
			cfg.Booking.VelocityMaxBookings, cfg.Booking.VelocityWindow(), cfg.Redis.Addr)
	}

	// Сервисы
	salonSvc := salonsService.NewService(salonRepository, log)
	clientSvc := clientsService.NewService(clientRepository, log)
	appointmentSvc := appointmentsService.NewService(appointmentRepository, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		salonSvc,
		getAvailableSlotsUC.Settings{
			StepMinutes:     cfg.Booking.SlotStepMinutes,
			LeadTime:        cfg.Booking.LeadTime(),
			DefaultLocation: defaultLocation,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		salonSvc,
		clientSvc,
		limiter,
		metricsCollector,
		createBookingUC.Settings{
			StepMinutes:     cfg.Booking.SlotStepMinutes,
			LeadTime:        cfg.Booking.LeadTime(),
			DefaultLocation: defaultLocation,
		},
		log,
	)

	changeStatusUseCase := changeStatusUC.NewUseCase(
		appointmentRepository,
		financeClient,
		financialSyncRepository,
		metricsCollector,
		changeStatusUC.Settings{
			RetryEnabled: cfg.Finance.Retry.Enabled,
			RetryBackoff: cfg.Finance.Retry.Backoff(),
		},
		log,
	)

	// Проход воркера не дольше batch_size проводок; аренда задач переживает его с запасом
	retryBatchTimeout := time.Duration(cfg.Finance.Timeout*cfg.Finance.Retry.BatchSize) * time.Second

	retryFinancialSyncUseCase := retryFinancialSyncUC.NewUseCase(
		appointmentRepository,
		financialSyncRepository,
		financeClient,
		txMgr,
		metricsCollector,
		retryFinancialSyncUC.Settings{
			RetryEnabled: cfg.Finance.Retry.Enabled,
			MaxAttempts:  cfg.Finance.Retry.MaxAttempts,
			BatchSize:    cfg.Finance.Retry.BatchSize,
			Backoff:      cfg.Finance.Retry.Backoff(),
			ClaimLease:   retryBatchTimeout + time.Minute,
		},
		log,
	)

	// Фоновые повторы проводок
	var worker *financialSyncWorker.Worker
	if cfg.Finance.Retry.Enabled {
		worker, err = financialSyncWorker.NewWorker(
			retryFinancialSyncUseCase,
			cfg.Finance.Retry.Schedule,
			retryBatchTimeout,
			log,
		)
		if err != nil {
			log.Fatal("Failed to create financial sync worker: %v", err)
		}
		worker.Start()
		log.Info("Financial sync retry enabled (schedule=%s, max_attempts=%d)",
			cfg.Finance.Retry.Schedule, cfg.Finance.Retry.MaxAttempts)
	} else {
		log.Info("Financial sync retry disabled, manual retry only")
	}

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	listSalonAppointments := listSalonAppointmentsHandler.NewHandler(appointmentSvc, log)
	changeStatus := changeStatusHandler.NewHandler(changeStatusUseCase, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	restoreAppointment := restoreAppointmentHandler.NewHandler(appointmentSvc, log)
	retryFinancialSync := retryFinancialSyncHandler.NewHandler(retryFinancialSyncUseCase, log)
	updateClient := updateClientHandler.NewHandler(clientSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.RequestLogger(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (форма записи)
	// ============================================================

	api.HandleFunc("/salons/{salonId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-ID header)
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminAuth)

	admin.HandleFunc("/salons/{salonId}/appointments", listSalonAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/appointments/{appointmentId}/status", changeStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId}/restore", restoreAppointment.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{appointmentId}/financial-sync", retryFinancialSync.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/clients/{clientId}", updateClient.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if worker != nil {
		if err := worker.Stop(shutdownCtx); err != nil {
			log.Error("Financial sync worker did not stop in time: %v", err)
		}
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
