package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"physiocare/internal/api"
	"physiocare/internal/availability"
	"physiocare/internal/booking"
	"physiocare/internal/calendar"
	"physiocare/internal/config"
	"physiocare/internal/database"
	"physiocare/internal/email"
	"physiocare/internal/export"
	"physiocare/internal/metrics"
	"physiocare/internal/notify"
	"physiocare/internal/payments"
	"physiocare/internal/slots"
	"physiocare/internal/videos"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PHYSIOCARE_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Calendar.CalendarID == "" {
		logger.Fatal().Msg("set calendar.calendar_id in config")
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	location := cfg.Location()
	cal, err := calendar.New(ctx, calendar.Options{
		CalendarID:      cfg.Calendar.CalendarID,
		CredentialsFile: cfg.Calendar.CredentialsFile,
		Location:        location,
		Timeout:         cfg.CalendarTimeout(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create calendar client error")
	}

	hours := slots.WorkingHours{StartHour: cfg.Practice.StartHour, EndHour: cfg.Practice.EndHour}
	availabilitySvc := availability.NewService(cal, hours, location, &logger)

	var mailer *email.Mailer
	if sender := email.NewSendGridSender(email.SendGridConfig{
		APIKey:      cfg.Email.SendGridAPIKey,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	}); sender != nil {
		mailer = email.NewMailer(sender, cfg.Practice.Name)
	} else {
		logger.Warn().Msg("no sendgrid api key; confirmation emails disabled")
	}
	var confirmation booking.ConfirmationSender
	if mailer != nil {
		confirmation = mailer
	}

	var notifier booking.AdminNotifier
	if cfg.Telegram.BotToken != "" {
		tn, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("create telegram notifier error")
		}
		notifier = tn
	}

	bookingSvc := booking.NewService(db, cal, hours, confirmation, notifier, &logger)

	videosSvc := videos.NewService(db, &logger)
	var rdb *redis.Client
	if ttl := cfg.CacheTTL(); ttl > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		videosSvc.UseRedisCache(rdb, ttl)
	}

	var paymentsSvc *payments.Service
	if cfg.Stripe.SecretKey != "" {
		provider := payments.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.SupportPlanPrice)
		paymentsSvc = payments.NewService(provider, db, cfg.Stripe.Currency, &logger)
		if mailer != nil {
			paymentsSvc.UseReceipts(mailer)
		}
	} else {
		logger.Warn().Msg("no stripe secret key; donations disabled")
	}

	backup := database.NewBackupService(db, cfg.Database.Path, database.BackupOptions{
		Enabled:       cfg.Backup.Enabled,
		StoragePath:   cfg.Backup.StoragePath,
		IntervalHours: cfg.Backup.IntervalHours,
		RetentionDays: cfg.Backup.RetentionDays,
	}, &logger)
	go backup.Start(ctx)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	server := api.NewHTTPServer(api.Config{
		Port:            cfg.Server.Port,
		APIKey:          cfg.Server.APIKey,
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
	}, api.Deps{
		Availability: availabilitySvc,
		Booking:      bookingSvc,
		Videos:       videosSvc,
		Payments:     paymentsSvc,
		Exporter:     export.NewExporter(db),
		Location:     location,
	}, &logger)

	logger.Info().Str("practice", cfg.Practice.Name).Msg("practice backend started")
	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("http server error")
	}
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
