package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tokenwise/internal/monitor"
	"tokenwise/internal/store"
	"tokenwise/pkg/config"
	"tokenwise/pkg/solana"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	sqlDB, _ := db.DB()

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := config.ExecuteMigrations(db); err != nil {
			logrus.Fatal("Failed to run migrations: ", err)
		}
		logrus.Info("Database migrations completed successfully")
	}

	st := store.NewStore(db)

	// Seed the monitored wallet set from the discovery job's output.
	addresses, err := st.HolderAddresses()
	if err != nil {
		logrus.Fatal("Failed to load holder addresses: ", err)
	}
	if len(addresses) == 0 {
		logrus.Warn("No holders found in top_holders; run the discover job first")
	}

	limiter := monitor.NewRateLimiter(cfg.Monitor.RateLimit, cfg.Monitor.RateWindow)
	tracker := monitor.NewActivityTracker(st, cfg.Monitor.ActiveThreshold, cfg.Monitor.ModerateThreshold)
	queue := monitor.NewSignatureQueue()
	chain := solana.NewClient(cfg.RPCEndpoint)
	fetcher := monitor.NewSignatureFetcher(limiter, chain, tracker, queue)
	scheduler := monitor.NewScheduler(tracker, fetcher, monitor.PollIntervals{
		Active:   cfg.Monitor.ActiveInterval,
		Moderate: cfg.Monitor.ModerateInterval,
		Inactive: cfg.Monitor.InactiveInterval,
	})
	processor := monitor.NewProcessor(limiter, chain, tracker, queue, st, cfg.TokenMint)

	// Initialize RabbitMQ (optional, events are skipped if not configured)
	if cfg.RabbitMQ.Host != "" {
		conn, err := config.InitRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			logrus.Fatal("Failed to connect to RabbitMQ: ", err)
		}
		defer conn.Close()

		publisher, err := config.NewPublisher(conn)
		if err != nil {
			logrus.Fatal("Failed to create publisher: ", err)
		}
		defer publisher.Close()

		processor.WithPublisher(publisher, cfg.RabbitMQ.Queue)
		logrus.Infof("Publishing stored transactions to queue %s", cfg.RabbitMQ.Queue)
	} else {
		logrus.Info("RabbitMQ not configured, skipping event publishing")
	}

	if err := tracker.Initialize(addresses); err != nil {
		logrus.Fatal("Failed to initialize wallet activity: ", err)
	}
	logrus.Infof("Initialized with %d wallets to monitor", len(addresses))
	logDistribution(tracker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Periodic reclassification and distribution reporting
	c := cron.New(cron.WithSeconds())
	_, err = c.AddFunc("0 */5 * * * *", func() {
		if err := tracker.Reclassify(); err != nil {
			logrus.Errorf("Failed to reclassify wallets: %v", err)
		}
	})
	if err != nil {
		logrus.Fatal("Failed to schedule reclassification: ", err)
	}
	_, err = c.AddFunc("0 * * * * *", func() {
		logDistribution(tracker)
	})
	if err != nil {
		logrus.Fatal("Failed to schedule distribution log: ", err)
	}
	c.Start()

	go limiter.Run(ctx)
	go scheduler.Run(ctx, cfg.Monitor.PollInterval)
	go processor.Run(ctx, cfg.Monitor.ProcessInterval)

	logrus.Info("Monitoring service is live")

	<-ctx.Done()
	logrus.Info("Shutting down...")

	// Stop the cron entries and let any in-flight store write finish
	// before the connection closes.
	<-c.Stop().Done()

	if sqlDB != nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Failed to close database: %v", err)
		} else {
			logrus.Info("Database connection has been closed")
		}
	}
}

func logDistribution(tracker *monitor.ActivityTracker) {
	dist := tracker.Distribution()
	logrus.Infof("Wallet Activity Distribution: Active: %d, Moderate: %d, Inactive: %d",
		dist[monitor.ActivityActive], dist[monitor.ActivityModerate], dist[monitor.ActivityInactive])
}
