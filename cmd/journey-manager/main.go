// cmd/journey-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	awsx "loan-journey-workers/internal/common/aws"
	"loan-journey-workers/internal/common/camunda"
	"loan-journey-workers/internal/common/config"
	"loan-journey-workers/internal/common/database"
	"loan-journey-workers/internal/common/logger"
	"loan-journey-workers/internal/common/metrics"
	"loan-journey-workers/internal/common/observability"
	"loan-journey-workers/internal/common/validation"
	"loan-journey-workers/internal/notify"
	"loan-journey-workers/internal/session"
	"loan-journey-workers/internal/workers/journeyjob"
	"loan-journey-workers/pkg/registry"

	// Agreement Workers (3)
	aa "loan-journey-workers/internal/workers/agreement/accept-agreement"
	snm "loan-journey-workers/internal/workers/agreement/setup-nach-mandate"
	veo "loan-journey-workers/internal/workers/agreement/verify-esign-otp"

	// Communication & Disbursement Workers (2)
	sn "loan-journey-workers/internal/workers/communication/send-notification"
	dl "loan-journey-workers/internal/workers/disbursement/disburse-loan"

	// KYC & Lender Workers (2)
	kds "loan-journey-workers/internal/workers/kyc/kyc-document-step"
	ld "loan-journey-workers/internal/workers/lender/lender-decision"

	// Offer Workers (2)
	mo "loan-journey-workers/internal/workers/offers/match-offers"
	so "loan-journey-workers/internal/workers/offers/select-offer"

	// Onboarding & Verification Workers (3)
	pq "loan-journey-workers/internal/workers/onboarding/pre-qualify"
	sj "loan-journey-workers/internal/workers/onboarding/start-journey"
	vp "loan-journey-workers/internal/workers/verification/verify-pan"
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
	bootLog := logger.Bootstrap()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		bootLog.Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting journey manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: cfg.Camunda.Plaintext,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(ctx, cfg.Database.Redis)
		return err
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL audit trail with retry ---
	var recorders session.Recorders
	if cfg.Journey.AuditEnabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.EnsureSchema(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		recorders = append(recorders, session.NewPostgresRecorder(pg.DB))
		zapLog.Info("PostgreSQL audit trail enabled")
	}

	// --- Elasticsearch journey event index ---
	var history eventHistory
	if cfg.Journey.SearchIndexEnabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			return es.EnsureIndex(ctx, cfg.Database.Elasticsearch.Index)
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		search := session.NewSearchRecorder(es.Client, cfg.Database.Elasticsearch.Index)
		recorders = append(recorders, search)
		history = search
		zapLog.Info("Elasticsearch journey index enabled", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	var recorder session.Recorder = session.NopRecorder{}
	if len(recorders) > 0 {
		recorder = recorders
	}

	// --- Activity registry & input schemas ---
	reg, err := registry.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	schemas, err := validation.NewSchemaSet(reg)
	if err != nil {
		zapLog.Fatal("activity input schemas invalid", zap.Error(err))
	}

	// --- Journey sessions ---
	store := session.NewRedisStore(redis.Client, cfg.Journey.KeyPrefix, time.Duration(cfg.Journey.SessionTTL)*time.Second)
	sessions := session.NewManager(store, recorder, session.DepsFromConfig(cfg.Journey, clockwork.NewRealClock(), log), log)

	// --- Notification channels ---
	dispatcher, err := newDispatcher(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("notification setup failed", zap.Error(err))
	}

	deps := journeyjob.Deps{
		Sessions: sessions,
		Schemas:  schemas,
		Obs:      obs,
		Logger:   log,
	}

	// --- Register all 12 workers ---
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	handlers := []struct {
		taskType string
		handler  camunda.JobHandler
	}{
		{sj.TaskType, sj.NewHandler(&sj.Config{Timeout: timeout(sj.TaskType)}, deps)},
		{pq.TaskType, pq.NewHandler(&pq.Config{Timeout: timeout(pq.TaskType)}, deps)},
		{vp.TaskType, vp.NewHandler(&vp.Config{Timeout: timeout(vp.TaskType)}, deps)},
		{mo.TaskType, mo.NewHandler(&mo.Config{Timeout: timeout(mo.TaskType)}, deps)},
		{so.TaskType, so.NewHandler(&so.Config{Timeout: timeout(so.TaskType)}, deps)},
		{kds.TaskType, kds.NewHandler(&kds.Config{Timeout: timeout(kds.TaskType)}, deps)},
		{ld.TaskType, ld.NewHandler(&ld.Config{Timeout: timeout(ld.TaskType)}, deps)},
		{aa.TaskType, aa.NewHandler(&aa.Config{Timeout: timeout(aa.TaskType)}, deps)},
		{veo.TaskType, veo.NewHandler(&veo.Config{Timeout: timeout(veo.TaskType)}, deps)},
		{snm.TaskType, snm.NewHandler(&snm.Config{Timeout: timeout(snm.TaskType)}, deps)},
		{dl.TaskType, dl.NewHandler(&dl.Config{Timeout: timeout(dl.TaskType)}, deps)},
		{sn.TaskType, sn.NewHandler(&sn.Config{
			EmailEnabled: cfg.Notifications.Email.Enabled,
			SMSEnabled:   cfg.Notifications.SMS.Enabled,
			Timeout:      timeout(sn.TaskType),
		}, deps, dispatcher)},
	}

	var workers []*camunda.Worker
	for _, h := range handlers {
		if _, ok := reg.Find(h.taskType); !ok {
			zapLog.Warn("task type missing from activity registry", zap.String("taskType", h.taskType))
		}
		w := camunda.StartWorker(zeebe.GetClient(), h.taskType, config.GetWorkerConfig(cfg, h.taskType), h.handler, log)
		if w != nil {
			workers = append(workers, w)
		}
	}
	zapLog.Info("Journey workers registered", zap.Int("active", len(workers)))

	// --- Health & Metrics Server ---
	srv := newServer(fmt.Sprintf(":%d", cfg.App.HTTPPort), serverDeps{
		ready: func(ctx context.Context) error {
			if err := redis.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			if err := zeebe.HealthCheck(ctx); err != nil {
				return fmt.Errorf("zeebe: %w", err)
			}
			return nil
		},
		starter:   zeebe,
		history:   history,
		processID: cfg.Camunda.ProcessID,
		logger:    log,
	})
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sessionsCtx, stopSessions := context.WithCancel(ctx)
	go trackSessions(sessionsCtx, redis, cfg.Journey.KeyPrefix, time.Minute, log)

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	stopSessions()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop(10 * time.Second)
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing metrics", zap.Error(err))
	}

	zapLog.Info("Journey manager stopped gracefully")
}

// trackSessions refreshes the active session gauge until ctx ends.
func trackSessions(ctx context.Context, redis *database.RedisClient, prefix string, every time.Duration, log logger.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		n, err := redis.SessionCount(ctx, prefix)
		if err != nil {
			log.Warn("session count failed", map[string]interface{}{"error": err.Error()})
		} else {
			metrics.ActiveSessions.Set(float64(n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// newDispatcher wires SES and SNS when their channels are enabled.
func newDispatcher(ctx context.Context, cfg *config.Config, log logger.Logger) (*notify.Dispatcher, error) {
	n := cfg.Notifications
	if !n.Email.Enabled && !n.SMS.Enabled {
		return notify.NewDispatcher(nil, nil, log), nil
	}

	awsCfg, err := awsx.LoadConfig(ctx, n.AWS.Region)
	if err != nil {
		return nil, err
	}

	var email notify.EmailSender
	if n.Email.Enabled {
		email = awsx.NewEmailSender(awsx.NewSESClient(awsCfg), n.Email.FromEmail)
	}
	var sms notify.SMSSender
	if n.SMS.Enabled {
		sms = awsx.NewSMSSender(awsx.NewSNSClient(awsCfg), n.SMS.SenderID)
	}
	return notify.NewDispatcher(email, sms, log), nil
}
