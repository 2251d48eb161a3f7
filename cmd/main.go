package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminCancelBookingHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/admin_cancel_booking"
	cancelBookingHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/create_booking"
	createHolidayHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/create_holiday"
	disableHolidayHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/disable_holiday"
	getAvailabilityHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/get_booking"
	getBookingAuditHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/get_booking_audit"
	getDayBookingsHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/get_day_bookings"
	getScheduleRulesHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/get_schedule_rules"
	listHolidaysHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/list_holidays"
	rescheduleBookingHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/reschedule_booking"
	updateScheduleRulesHandler "github.com/m04kA/FGV-BookingService/internal/api/handlers/update_schedule_rules"
	"github.com/m04kA/FGV-BookingService/internal/api/middleware"
	"github.com/m04kA/FGV-BookingService/internal/config"
	"github.com/m04kA/FGV-BookingService/internal/domain"
	auditRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/audit"
	bookingRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/booking"
	rulesRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/rules"
	scheduleRepo "github.com/m04kA/FGV-BookingService/internal/infra/storage/schedule"
	notifierClient "github.com/m04kA/FGV-BookingService/internal/integrations/notifier"
	"github.com/m04kA/FGV-BookingService/internal/scheduler"
	bookingsService "github.com/m04kA/FGV-BookingService/internal/service/bookings"
	rulesService "github.com/m04kA/FGV-BookingService/internal/service/rules"
	scheduleService "github.com/m04kA/FGV-BookingService/internal/service/schedule"
	createBookingUC "github.com/m04kA/FGV-BookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/FGV-BookingService/internal/usecase/get_availability"
	rescheduleBookingUC "github.com/m04kA/FGV-BookingService/internal/usecase/reschedule_booking"
	"github.com/m04kA/FGV-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FGV-BookingService/pkg/logger"
	"github.com/m04kA/FGV-BookingService/pkg/metrics"
	"github.com/m04kA/FGV-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/FGV-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting FGV-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент уведомлений
	var notifier interface {
		BookingCreated(*domain.Booking)
		BookingCancelled(*domain.Booking)
		BookingRescheduled(*domain.Booking)
	}
	if cfg.Notifier.Enabled {
		notifier = notifierClient.NewClient(cfg.Notifier.URL, time.Duration(cfg.Notifier.Timeout)*time.Second, log)
		log.Info("Webhook notifier enabled (url=%s timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	} else {
		notifier = notifierClient.Noop{}
		log.Info("Webhook notifier disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		rulesRepository    *rulesRepo.Repository
		auditRepository    *auditRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		rulesRepository = rulesRepo.NewRepository(wrappedDB)
		auditRepository = auditRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		rulesRepository = rulesRepo.NewRepository(db)
		auditRepository = auditRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		rulesRepository,
		scheduleRepository,
		bookingRepository,
		log,
		cfg.Schedule.HorizonDays,
		cfg.Schedule.MinDaysAhead,
		cfg.Schedule.BatchSizeDays,
	)
	rulesSvc := rulesService.NewService(
		rulesRepository,
		scheduleSvc,
		log,
		cfg.Schedule.HorizonDays,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		auditRepository,
		txMgr,
		notifier,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		auditRepository,
		txMgr,
		notifier,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		auditRepository,
		txMgr,
		notifier,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		scheduleRepository,
		bookingRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getScheduleRules := getScheduleRulesHandler.NewHandler(rulesSvc, log)
	updateScheduleRules := updateScheduleRulesHandler.NewHandler(rulesSvc, log)
	createHoliday := createHolidayHandler.NewHandler(rulesSvc, log)
	listHolidays := listHolidaysHandler.NewHandler(rulesSvc, log)
	disableHoliday := disableHolidayHandler.NewHandler(rulesSvc, log)
	adminCancelBooking := adminCancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, log)
	getBookingAudit := getBookingAuditHandler.NewHandler(bookingSvc, log)

	// Прогреваем горизонт расписания при старте и запускаем фоновое продление
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()

	horizonScheduler := scheduler.New(
		scheduleSvc,
		time.Duration(cfg.Schedule.ExtendIntervalHours)*time.Hour,
		log,
	)
	go horizonScheduler.Start(schedulerCtx)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты на ближайшие дни
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Просмотр бронирования по токену
	api.HandleFunc("/bookings/{token}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования по токену
	api.HandleFunc("/bookings/{token}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token))

	// --- Правила расписания ---
	admin.HandleFunc("/schedule-rules", getScheduleRules.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/schedule-rules", updateScheduleRules.Handle).Methods(http.MethodPut)

	// --- Праздники ---
	admin.HandleFunc("/holidays", createHoliday.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/holidays", listHolidays.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/holidays/{id}/disable", disableHoliday.Handle).Methods(http.MethodPost)

	// --- Управление бронированиями ---
	admin.HandleFunc("/bookings/{id}/cancel", adminCancelBooking.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/audit", getBookingAudit.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/days/{date}/bookings", getDayBookings.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновое продление горизонта
	stopScheduler()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
