package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crochee/actionstore/config"
	"github.com/crochee/actionstore/internal/code"
	"github.com/crochee/actionstore/internal/event"
	"github.com/crochee/actionstore/internal/metrics"
	"github.com/crochee/actionstore/internal/migration"
	"github.com/crochee/actionstore/internal/router"
	"github.com/crochee/actionstore/internal/service"
	"github.com/crochee/actionstore/internal/store"
	"github.com/crochee/actionstore/internal/store/dbstore"
	"github.com/crochee/actionstore/internal/store/hybrid"
	"github.com/crochee/actionstore/internal/store/legacy"
	"github.com/crochee/actionstore/pkg/lockx"
	"github.com/crochee/actionstore/pkg/logger"
	"github.com/crochee/actionstore/pkg/redis"
)

var configFile = flag.String("f", "./config/actionstore.yaml", "the config file")

func main() {
	flag.Parse()
	if err := config.LoadConfig(*configFile); err != nil {
		log.Fatal(err)
	}
	if err := code.Loading(); err != nil {
		log.Fatal(err)
	}
	if mode := strings.ToLower(viper.GetString("mode")); mode != "" {
		gin.SetMode(mode)
	}
	if err := run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func run() error {
	l := logger.New(
		logger.WithServerName(viper.GetString("service.name")),
		logger.WithLevel(viper.GetString("log.level")),
		logger.WithJSON(viper.GetBool("log.json")),
		logger.WithWriter(logger.SetWriter(viper.GetBool("log.console"), viper.GetString("log.path"))))
	defer l.Sync()
	ctx := logger.With(context.Background(), l)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(registry); err != nil {
		return err
	}

	publisher, closePublisher, err := eventPublisher(ctx, l)
	if err != nil {
		return err
	}
	defer closePublisher()

	tp := sdktrace.NewTracerProvider()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			l.Warn("shutdown tracer provider", zap.Error(err))
		}
	}()
	otel.SetTracerProvider(tp)

	loc, err := config.Location()
	if err != nil {
		return err
	}
	db, err := config.OpenMySQL(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	primary := dbstore.New(db, dbstore.WithLocation(loc), dbstore.WithNotifier(publisher))
	if viper.GetBool("mysql.auto_migrate") {
		if err = primary.Migrate(ctx); err != nil {
			return err
		}
	}

	actions, closeLegacy, err := actionStore(ctx, primary, loc, publisher)
	if err != nil {
		return err
	}
	defer closeLegacy()

	opts := []router.Option{router.WithTracing(tp, viper.GetString("service.name"))}
	if origins := viper.GetStringSlice("http.cors_origins"); len(origins) > 0 {
		opts = append(opts, router.WithCORS(origins...))
	}
	if limit := viper.GetFloat64("http.rate_limit"); limit > 0 {
		opts = append(opts, router.WithRateLimit(limit, viper.GetInt("http.rate_burst")))
	}
	handler, err := router.New(service.NewService(actions), l, registry, opts...)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:    viper.GetString("http.addr"),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info("admin api listening", zap.String("addr", srv.Addr), zap.String("mode", gin.Mode()))
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		return shutdownAction(gCtx, srv)
	})
	if err = g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
		l.Error("server run with error", zap.Error(err))
		return err
	}
	return nil
}

// eventPublisher publishes to rabbitmq when event.amqp_url is set, otherwise
// in process where notifications are only logged
func eventPublisher(ctx context.Context, l *zap.Logger) (*event.Publisher, func(), error) {
	if url := viper.GetString("event.amqp_url"); url != "" {
		pub, err := event.DialAMQP(url, viper.GetString("event.exchange"))
		if err != nil {
			return nil, nil, err
		}
		publisher := event.NewPublisher(pub)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				l.Warn("close publisher", zap.Error(err))
			}
		}, nil
	}
	pubSub := event.NewGoChannel(l)
	publisher := event.NewPublisher(pubSub)
	listeners, err := event.Log(ctx, pubSub)
	closeFn := func() {
		if err := publisher.Close(); err != nil {
			l.Warn("close publisher", zap.Error(err))
		}
		listeners.Wait()
	}
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return publisher, closeFn, nil
}

// actionStore returns primary alone, or the bridge over primary and the legacy
// backend when legacy.enabled is set
func actionStore(ctx context.Context, primary *dbstore.Store, loc *time.Location,
	notifier store.Notifier) (store.ActionStore, func(), error) {
	if !viper.GetBool("legacy.enabled") {
		return primary, func() {}, nil
	}
	db, err := legacy.Open(ctx, viper.GetString("legacy.driver"), viper.GetString("legacy.dsn"))
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.From(ctx).Warn("close legacy backend", zap.Error(err))
		}
	}
	secondary := legacy.New(db,
		legacy.WithPrefix(viper.GetString("legacy.prefix")),
		legacy.WithLocation(loc),
		legacy.WithNotifier(notifier))

	locker, err := boundaryLocker(ctx)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	boundary, err := hybrid.EnsureBoundaryInitialized(ctx, primary, secondary, locker,
		viper.GetDuration("bootstrap.lock_ttl"))
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	runner := migration.NewRunner(secondary, primary,
		migration.WithAttempts(viper.GetInt("migration.retries")),
		migration.WithInterval(viper.GetDuration("migration.interval")))
	bridge, err := hybrid.New(primary, secondary, runner, boundary)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return bridge, closeDB, nil
}

// boundaryLocker is shared through redis when one is configured
func boundaryLocker(ctx context.Context) (lockx.Locker, error) {
	addr := viper.GetString("redis.addr")
	if addr == "" {
		logger.From(ctx).Warn("no redis configured, boundary bootstrap is only locked in process")
		return lockx.NewLocal(), nil
	}
	client, err := redis.New(ctx,
		redis.WithAddrs(strings.Split(addr, ",")...),
		redis.WithPassword(viper.GetString("redis.password")))
	if err != nil {
		return nil, err
	}
	return lockx.NewRedis(client, 100*time.Millisecond), nil
}

const DefaultStopTime = 15 * time.Second

func shutdownAction(ctx context.Context, srv *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-quit:
	}
	newCtx, cancel := context.WithTimeout(context.Background(), DefaultStopTime)
	defer cancel()
	logger.From(ctx).Info("shutting down server...")
	return multierr.Append(err, srv.Shutdown(newCtx))
}
