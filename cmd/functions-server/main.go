// cmd/functions-server/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"eventapp-functions/internal/common/config"
	"eventapp-functions/internal/common/database"
	fb "eventapp-functions/internal/common/firebase"
	"eventapp-functions/internal/common/httpx"
	"eventapp-functions/internal/common/logger"
	"eventapp-functions/internal/common/observability"
	stripegw "eventapp-functions/internal/common/payments"
	"eventapp-functions/internal/functions/notifications"
	"eventapp-functions/internal/functions/payments"
	"eventapp-functions/internal/functions/scheduled"
	"eventapp-functions/internal/functions/triggers"
	"eventapp-functions/internal/functions/users"
	"eventapp-functions/internal/notify"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting functions server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New("functions-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Firebase clients with retry ---
	var clients *fb.Clients
	err = retryWithBackoff(func() error {
		var err error
		clients, err = fb.NewClients(ctx, cfg.Firebase)
		return err
	}, 10, 2*time.Second, zapLog, "Firebase client initialization")

	if err != nil {
		zapLog.Fatal("firebase clients failed after retries", zap.Error(err))
	}
	defer clients.Close()
	zapLog.Info("Firebase clients connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init payments processor ---
	gateway := stripegw.NewGateway(cfg.Stripe)
	zapLog.Info("Payments gateway initialized")

	// --- Assemble the delivery pipeline ---
	audience := notify.NewFirestoreAudience(clients.Firestore, cfg.Firebase.UserCollection)
	appender := notify.NewFirestoreAppender(clients.Firestore, cfg.Firebase.UserCollection, cfg.Fanout.MaxInboxSize, log)
	fanout := notify.NewFanout(audience, appender, cfg.Fanout.PageSize, log)
	dispatcher := notify.NewDispatcher(clients.Messaging, log)

	eventRef := func(eventID string) interface{} {
		return notify.EventRef(clients.Firestore, cfg.Firebase.EventCollection, eventID)
	}
	eventSource := scheduled.NewFirestoreEvents(clients.Firestore, cfg.Firebase.EventCollection)

	// --- Handlers ---
	usersHandler := users.NewHandler(users.NewAuthProvider(clients.Auth), log)
	notifHandler := notifications.NewHandler(dispatcher, fanout, eventRef, log)
	triggerHandler := triggers.NewHandler(dispatcher, fanout, redis,
		time.Duration(cfg.Redis.DedupTTLSec)*time.Second, log)
	schedHandler := scheduled.NewHandler(dispatcher, fanout, eventSource, eventRef, log)
	payHandler := payments.NewHandler(gateway, log)

	// --- Routes ---
	mux := http.NewServeMux()
	route := func(pattern, name string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, httpx.WithRequestLogging(name, log, h))
	}

	route("/checkEmail", "check-email", usersHandler.CheckEmail)
	route("/deleteUser", "delete-user", usersHandler.DeleteUser)
	route("/getUsersByLoginDate", "users-by-login-date", usersHandler.UsersByLoginDate)

	route("/putNotificationUser", "put-notification", notifHandler.PutNotification)
	route("/sendNotificationInviteUser", "invite-user", notifHandler.Invite)
	route("/sendNotificationEventFinish", "event-finish", notifHandler.EventFinish)
	route("/sendNotificationChatMessage", "chat-message", notifHandler.ChatMessage)
	route("/sendNotificationQuestion", "question", notifHandler.Question)
	route("/sendNotificationAdmin", "admin-notification", notifHandler.Admin)

	route("/triggers/eventCreated", "event-created", triggerHandler.EventCreated)

	route("/jobs/eventsReminder", "events-reminder", schedHandler.EventsReminder)
	route("/jobs/favoritesReminder", "favorites-reminder", schedHandler.FavoritesReminder)
	route("/jobs/engagementPrompts", "engagement-prompts", schedHandler.EngagementPrompts)

	route("/payments/createAccount", "create-account", payHandler.CreateAccount)
	route("/payments/updateAccount", "update-account", payHandler.UpdateAccount)
	route("/payments/addExternalAccount", "attach-bank-account", payHandler.AttachBankAccount)
	route("/payments/createTransfer", "create-transfer", payHandler.CreateTransfer)
	route("/payments/createPayout", "create-payout", payHandler.CreatePayout)
	route("/payments/createPaymentIntent", "create-payment-intent", payHandler.CreatePaymentIntent)
	route("/payments/confirmPaymentIntent", "confirm-payment-intent", payHandler.ConfirmPaymentIntent)

	zapLog.Info("All handlers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		metricsMux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		metricsMux.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.Server.MetricsAddr()))
		if err := http.ListenAndServe(cfg.Server.MetricsAddr(), metricsMux); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      mux,
		ReadTimeout:  time.Duration(cfg.Server.RequestTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Functions server stopped gracefully")
}
