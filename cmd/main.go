package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	allocateBookingsHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/allocate_bookings"
	cancelBookingHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/delete_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/get_booking"
	getHouseBookingsHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/get_house_bookings"
	getRoomHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/get_room"
	listHouseRoomsHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/list_house_rooms"
	rescheduleBookingHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-AllotmentService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-AllotmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AllotmentService/internal/config"
	bookingsService "github.com/m04kA/SMC-AllotmentService/internal/service/bookings"
	roomsService "github.com/m04kA/SMC-AllotmentService/internal/service/rooms"
	allocateBookingsUC "github.com/m04kA/SMC-AllotmentService/internal/usecase/allocate_bookings"
	createBookingUC "github.com/m04kA/SMC-AllotmentService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-AllotmentService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-AllotmentService/pkg/logger"
	"github.com/m04kA/SMC-AllotmentService/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(logger.Options{
		Level:       cfg.Logs.Level,
		Format:      cfg.Logs.Format,
		File:        cfg.Logs.File,
		ServiceName: cfg.Metrics.ServiceName,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AllotmentService...")
	log.Info("Configuration loaded from %s (storage=%s)", *configPath, cfg.Storage.Driver)

	// Метрики (nil при выключенных, все потребители это допускают)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище и блокировка домов
	store, err := openStorage(cfg, metricsCollector, log, stopMetricsCh)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	locker, closeLocker, err := openLocker(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize house lock: %v", err)
	}
	defer closeLocker()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(store.bookings, store.topology, store.txManager, log)
	roomSvc := roomsService.NewService(store.topology, store.txManager, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(store.bookings, store.topology, store.txManager, log)

	allocateBookingsUseCase := allocateBookingsUC.NewUseCase(
		store.bookings,
		store.topology,
		store.txManager,
		locker,
		cfg.Allocation.LockTimeoutDuration(),
		metricsCollector,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		store.bookings,
		store.topology,
		store.txManager,
		cfg.Availability.MaxDays,
		cfg.Availability.TimeoutDuration(),
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getRoom := getRoomHandler.NewHandler(roomSvc, log)
	listHouseRooms := listHouseRoomsHandler.NewHandler(roomSvc, log)
	allocateBookings := allocateBookingsHandler.NewHandler(allocateBookingsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getHouseBookings := getHouseBookingsHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/rooms/{roomId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}", getRoom.Handle).Methods(http.MethodGet)
	api.HandleFunc("/houses/{houseId}/rooms", listHouseRooms.Handle).Methods(http.MethodGet)
	api.HandleFunc("/houses/{houseId}/bookings", getHouseBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Размещение ---
	protected.HandleFunc("/houses/{houseId}/allocations", allocateBookings.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/dates", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
