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
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/TattooBookingService/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/cancel_booking"
	checkoutSuccessHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/checkout_success"
	createCheckoutHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/create_checkout"
	createOverrideHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/create_override"
	deleteOverrideHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/delete_override"
	getAvailableSlotsHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/get_calendar"
	getScheduleHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/get_schedule"
	listArtistBookingsHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/list_artist_bookings"
	replaceTemplatesHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/replace_templates"
	stripeWebhookHandler "github.com/m04kA/TattooBookingService/internal/api/handlers/stripe_webhook"
	"github.com/m04kA/TattooBookingService/internal/api/middleware"
	"github.com/m04kA/TattooBookingService/internal/config"
	"github.com/m04kA/TattooBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/TattooBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/TattooBookingService/internal/integrations/googlecalendar"
	stripeClient "github.com/m04kA/TattooBookingService/internal/integrations/stripe"
	bookingsService "github.com/m04kA/TattooBookingService/internal/service/bookings"
	scheduleService "github.com/m04kA/TattooBookingService/internal/service/schedule"
	confirmBookingUC "github.com/m04kA/TattooBookingService/internal/usecase/confirm_booking"
	createCheckoutUC "github.com/m04kA/TattooBookingService/internal/usecase/create_checkout"
	expireCheckoutUC "github.com/m04kA/TattooBookingService/internal/usecase/expire_checkout"
	getAvailableSlotsUC "github.com/m04kA/TattooBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/TattooBookingService/pkg/dbmetrics"
	"github.com/m04kA/TattooBookingService/pkg/logger"
	"github.com/m04kA/TattooBookingService/pkg/metrics"
	"github.com/m04kA/TattooBookingService/pkg/txmanager"
)

// calendarAPI объединяет операции внешнего календаря, которые нужны use cases и сервисам
type calendarAPI interface {
	FreeBusy(ctx context.Context, link domain.CalendarLink, from, to time.Time) ([]domain.TimeRange, error)
	UpsertEvent(ctx context.Context, link domain.CalendarLink, event googlecalendar.Event) (string, error)
	DeleteEvent(ctx context.Context, link domain.CalendarLink, eventID string) error
}

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
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

	log.Info("Starting TattooBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	loc, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone: %v", err)
	}

	// Метрики. nil коллектор безопасен, все методы становятся no-op
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, nil)
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

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB, loc)

	// Инициализируем интеграционных клиентов
	var calendarClient calendarAPI
	var redisClient *redis.Client
	if cfg.GoogleCalendar.Enabled {
		var busyCache googlecalendar.BusyCache
		if cfg.Redis.Enabled() {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			busyCache = googlecalendar.NewRedisBusyCache(redisClient, time.Duration(cfg.Redis.FreeBusyTTLSeconds)*time.Second)
			log.Info("Free/busy cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.FreeBusyTTLSeconds)
		}

		calendarClient = googlecalendar.NewClient(
			googlecalendar.CredentialsFactory(),
			time.Duration(cfg.GoogleCalendar.TimeoutSeconds)*time.Second,
			cfg.GoogleCalendar.EventTimeZone,
			busyCache,
			log,
		)
		log.Info("Google Calendar integration enabled (timeout=%ds)", cfg.GoogleCalendar.TimeoutSeconds)
	} else {
		log.Warn("Google Calendar integration disabled, external busy time is not considered")
	}

	payments := stripeClient.NewClient(stripeClient.Config{
		SecretKey:        cfg.Stripe.SecretKey,
		WebhookSecret:    cfg.Stripe.WebhookSecret,
		WebhookTolerance: time.Duration(cfg.Stripe.WebhookToleranceSeconds) * time.Second,
		SuccessURL:       cfg.Stripe.SuccessURL,
		CancelURL:        cfg.Stripe.CancelURL,
	}, nil, log)

	defaultSchedule := domain.DefaultSchedule{
		WeekdayStartMinute: cfg.Booking.DefaultSchedule.WeekdayOpen.MustMinutes(),
		WeekdayEndMinute:   cfg.Booking.DefaultSchedule.WeekdayClose.MustMinutes(),
		WeekendStartMinute: cfg.Booking.DefaultSchedule.WeekendOpen.MustMinutes(),
		WeekendEndMinute:   cfg.Booking.DefaultSchedule.WeekendClose.MustMinutes(),
	}
	hold := time.Duration(cfg.Booking.HoldMinutes) * time.Minute
	minNotice := time.Duration(cfg.Booking.MinNoticeMinutes) * time.Minute

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogRepository,
		calendarClient,
		txMgr,
		metricsCollector,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		catalogRepository,
		txMgr,
		scheduleService.Config{Location: loc, MaxRangeDays: cfg.Booking.MaxRangeDays},
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogRepository,
		scheduleRepository,
		bookingRepository,
		calendarClient,
		metricsCollector,
		getAvailableSlotsUC.Config{
			Location:        loc,
			Hold:            hold,
			StepMinutes:     cfg.Booking.SlotStepMinutes,
			MinNotice:       minNotice,
			MaxRangeDays:    cfg.Booking.MaxRangeDays,
			DefaultSchedule: defaultSchedule,
		},
		log,
	)
	createCheckoutUseCase := createCheckoutUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		scheduleRepository,
		payments,
		txMgr,
		metricsCollector,
		createCheckoutUC.Config{
			Location:        loc,
			Hold:            hold,
			MinNotice:       minNotice,
			Currency:        cfg.Booking.Currency,
			DefaultSchedule: defaultSchedule,
		},
		log,
	)
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		payments,
		calendarClient,
		txMgr,
		metricsCollector,
		log,
	)
	expireCheckoutUseCase := expireCheckoutUC.NewUseCase(bookingRepository, txMgr, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, loc, log)
	getCalendar := getCalendarHandler.NewHandler(getAvailableSlotsUseCase, loc, log)
	createCheckout := createCheckoutHandler.NewHandler(createCheckoutUseCase, loc, log)
	checkoutSuccess := checkoutSuccessHandler.NewHandler(confirmBookingUseCase, loc, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(payments, confirmBookingUseCase, expireCheckoutUseCase, bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listArtistBookings := listArtistBookingsHandler.NewHandler(bookingSvc, loc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, loc, log)
	replaceTemplates := replaceTemplatesHandler.NewHandler(scheduleSvc, log)
	createOverride := createOverrideHandler.NewHandler(scheduleSvc, log)
	deleteOverride := deleteOverrideHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Проверка готовности
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Error("GET /healthz - Database unavailable: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "база данных недоступна")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мастера по услугам
	api.HandleFunc("/artists/{artistId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Календарь мастера по дням
	api.HandleFunc("/artists/{artistId}/calendar", getCalendar.Handle).Methods(http.MethodGet)

	// Оформление брони с предоплатой
	api.HandleFunc("/checkout", createCheckout.Handle).Methods(http.MethodPost)

	// Возврат клиента после оплаты
	api.HandleFunc("/checkout/success", checkoutSuccess.Handle).Methods(http.MethodGet)

	// Webhook платежного провайдера (подпись проверяется в handler)
	api.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token header)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token))

	// --- Бронирования ---
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/artists/{artistId}/bookings", listArtistBookings.Handle).Methods(http.MethodGet)

	// --- Расписание ---
	admin.HandleFunc("/artists/{artistId}/schedule", getSchedule.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/artists/{artistId}/schedule/templates", replaceTemplates.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/artists/{artistId}/schedule/overrides", createOverride.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/artists/{artistId}/schedule/overrides/{overrideId}", deleteOverride.Handle).Methods(http.MethodDelete)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
