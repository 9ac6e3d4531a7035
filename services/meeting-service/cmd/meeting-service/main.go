package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/reallifeconnect/orgmeet/libs/config"
	"github.com/reallifeconnect/orgmeet/libs/grpcx"
	"github.com/reallifeconnect/orgmeet/libs/httpx"
	"github.com/reallifeconnect/orgmeet/libs/kafkax"
	otelx "github.com/reallifeconnect/orgmeet/libs/otel"
	"github.com/reallifeconnect/orgmeet/libs/runtime"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/booking"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/conferencing"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/handlers"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/outbox"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/signup"
	"github.com/reallifeconnect/orgmeet/services/meeting-service/internal/workspace"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	service := config.String("SERVICE_NAME", "meeting-service")
	port, err := config.Port("PORT", "8085")
	if err != nil {
		panic(err)
	}
	grpcPort, err := config.Port("GRPC_PORT", "9095")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
		otelShutdown = nil
	}

	profile, err := booking.ProfileForFlow(config.String("BOOKING_DEFAULT_FLOW", booking.FlowCalendar))
	if err != nil {
		panic(err)
	}
	provider, err := conferencing.NewProvider(conferencing.ConfigFromEnv())
	if err != nil {
		logger.Error("conferencing provider init failed; using local booking ids", "err", err)
		provider = nil
	}
	if provider != nil {
		logger.Info("conferencing provider enabled")
	}

	brokers := kafkax.SplitBrokers(config.String("KAFKA_BROKERS", ""))
	queue := outbox.NewQueue(config.Int("OUTBOX_MAX_PENDING", 10000))
	publisher := outbox.NewPublisher(queue, logger, outbox.PublisherConfig{
		Brokers:   brokers,
		PollEvery: time.Duration(config.Int("OUTBOX_POLL_MS", 2000)) * time.Millisecond,
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	publisherDone := make(chan struct{})
	go func() {
		publisher.Run(ctx)
		close(publisherDone)
	}()

	directory := workspace.NewDirectory()
	bookingService := booking.NewService(booking.NewFactory(profile, provider), queue, logger)
	signupHandler := handlers.NewSignupHandler(signup.NewService(directory, queue, logger), logger)
	orgHandler := handlers.NewOrgHandler(directory, bookingService, queue, logger)

	var checks []runtime.ReadyCheck
	if len(brokers) > 0 {
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
	}
	rateLimit, rdb := rateLimitMiddleware(logger)
	if rdb != nil {
		defer rdb.Close()
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	mux := runtime.NewBaseMuxWithReady(checks...)
	mux.HandleFunc("/api/signup", signupHandler.Signup)
	orgHandler.Register(mux)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicyFromEnv()),
		rateLimit,
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))),
		httpx.WithTimeout(config.Seconds("REQUEST_TIMEOUT_SECONDS", 0)),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "meeting")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpcx.NewServer(logger)
	grpcServer.SetServing(service, true)
	lis, err := net.Listen("tcp", ":"+grpcPort)
	if err != nil {
		logger.Error("grpc listen failed", "err", err)
		panic(err)
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc server error", "err", err)
		}
	}()

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "default_profile", profile.Name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	_ = runtime.Shutdown(logger, 10*time.Second,
		runtime.Closer{Name: "grpc", Close: grpcServer.Stop},
		runtime.Closer{Name: "http", Close: srv.Shutdown},
		runtime.Closer{Name: "outbox", Close: func(ctx context.Context) error {
			select {
			case <-publisherDone:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}},
		runtime.Closer{Name: "otel", Close: otelShutdown},
	)
	logger.Info("meeting service stopped")
}

// rateLimitMiddleware prefers a Redis limiter shared across replicas and
// falls back to a per-process one. A zero limit disables rate limiting.
func rateLimitMiddleware(logger *slog.Logger) (httpx.Middleware, *redis.Client) {
	perMinute := config.Int("RATE_LIMIT_PER_MINUTE", 120)
	if perMinute <= 0 {
		return nil, nil
	}

	addr := config.String("REDIS_ADDR", "")
	if addr == "" {
		logger.Info("rate limiting enabled (memory)", "per_minute", perMinute)
		return httpx.RateLimit(httpx.NewMemoryLimiter(perMinute, time.Minute), logger, false), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.String("REDIS_PASSWORD", ""),
		DB:       config.Int("REDIS_DB", 0),
	})
	limiter := httpx.NewRedisLimiter(rdb, perMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "orgmeet:rl"))
	logger.Info("rate limiting enabled (redis)", "per_minute", perMinute, "redis_addr", addr)
	return httpx.RateLimit(limiter, logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true)), rdb
}
