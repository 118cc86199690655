package main

import (
	"context"
	"flag"
	"os"

	"order-analytics-service/internal/config"
	"order-analytics-service/internal/kafka"
	"order-analytics-service/internal/metrics"
	"order-analytics-service/internal/pipeline"
	"order-analytics-service/internal/repository/postgres"
	"order-analytics-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		customersFile = flag.String("customers", "", "path to the customers CSV (overrides config)")
		productsFile  = flag.String("products", "", "path to the products CSV (overrides config)")
		ordersFile    = flag.String("orders", "", "path to the orders CSV (overrides config)")
		parallelism   = flag.Int("parallelism", 0, "max orders reconciled concurrently (overrides config)")
	)
	flag.Parse()

	log := initLogger()

	log.Infow("Reseed starting up...")

	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	if *customersFile == "" {
		*customersFile = cfg.Seed.CustomersFile
	}
	if *productsFile == "" {
		*productsFile = cfg.Seed.ProductsFile
	}
	if *ordersFile == "" {
		*ordersFile = cfg.Seed.OrdersFile
	}
	if *parallelism <= 0 {
		*parallelism = cfg.Seed.Parallelism
	}

	ctx := context.Background()

	// An unreachable store is the one fatal failure of a run
	pool, err := postgres.NewConnection(ctx, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalw("Failed to apply schema", "error", err)
	}

	customerRepo := postgres.NewPostgresCustomerRepository(pool, log)
	productRepo := postgres.NewPostgresProductRepository(pool, log)
	orderRepo := postgres.NewPostgresOrderRepository(pool, log)

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry, log)

	batches, err := pipeline.LoadBatches(*customersFile, *productsFile, *ordersFile)
	if err != nil {
		log.Fatalw("Failed to read input batches", "error", err)
	}
	log.Infow("Input batches loaded",
		"customers", len(batches.Customers),
		"products", len(batches.Products),
		"orders", len(batches.Orders),
	)

	p := pipeline.New(customerRepo, productRepo, orderRepo, pipelineMetrics, log, *parallelism)

	summary, err := p.Run(ctx, batches)
	if err != nil {
		log.Fatalw("Reseed run failed", "error", err)
	}

	log.Infow("Seed data imported",
		"customersInserted", summary.CustomersInserted,
		"customersSkipped", summary.CustomersSkipped,
		"productsInserted", summary.ProductsInserted,
		"productsSkipped", summary.ProductsSkipped,
		"ordersInserted", summary.OrdersInserted,
		"ordersSkipped", summary.OrdersSkipped,
		"linesDropped", summary.LinesDropped,
		"ordersWithNoLines", summary.OrdersWithNoLines,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)

	publishSummary(ctx, cfg, summary, log)
}

// publishSummary sends the run summary to Kafka when brokers are
// configured; failures are logged, never fatal
func publishSummary(ctx context.Context, cfg *config.Config, summary *pipeline.Summary, log *logger.Logger) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Debugw("No Kafka brokers configured, skipping summary event")
		return
	}

	producer, err := kafka.NewKafkaProducer(cfg.Kafka.Brokers, log)
	if err != nil {
		log.Errorw("Failed to initialize Kafka producer, continuing without event publishing", "error", err)
		return
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Errorw("Error closing Kafka producer", "error", err)
		}
	}()

	topic := cfg.Kafka.Topic
	if topic == "" {
		topic = kafka.TopicReseedCompleted
	}

	runID := uuid.NewString()
	if err := producer.PublishReseedSummary(ctx, topic, runID, summary); err != nil {
		log.Errorw("Failed to publish reseed summary", "error", err, "runID", runID)
	}
}

// initLogger creates the process logger
func initLogger() *logger.Logger {
	logLevel := logger.INFO
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = logger.DEBUG
	}
	return logger.New(logLevel)
}
