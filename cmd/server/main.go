package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"alumnet/internal/audit"
	auditmemory "alumnet/internal/audit/store/memory"
	auditpostgres "alumnet/internal/audit/store/postgres"
	"alumnet/internal/credential"
	credmemory "alumnet/internal/credential/store/memory"
	credpostgres "alumnet/internal/credential/store/postgres"
	"alumnet/internal/jwtsession"
	"alumnet/internal/mentorship"
	mentmemory "alumnet/internal/mentorship/store/memory"
	"alumnet/internal/messaging"
	msgmemory "alumnet/internal/messaging/store/memory"
	"alumnet/internal/platform/config"
	"alumnet/internal/platform/httpserver"
	"alumnet/internal/platform/logger"
	platformredis "alumnet/internal/platform/redis"
	"alumnet/internal/referral"
	refmemory "alumnet/internal/referral/store/memory"
	refpostgres "alumnet/internal/referral/store/postgres"
	"alumnet/internal/registration"
	"alumnet/internal/relyingparty"
	rpmemory "alumnet/internal/relyingparty/store/memory"
	rpredis "alumnet/internal/relyingparty/store/redis"
	"alumnet/internal/secondfactor"
	sfmemory "alumnet/internal/secondfactor/store/memory"
	sfredis "alumnet/internal/secondfactor/store/redis"
	httptransport "alumnet/internal/transport/http"
	"alumnet/internal/verifier"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages. Stores are
// Postgres/Redis when configured, in-memory otherwise.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		credStore  credential.Store  = credmemory.New()
		auditStore audit.Store       = auditmemory.New()
		refStore   referral.Store    = refmemory.New()
		rpStore    relyingparty.Store = rpmemory.New()
		sfStore    secondfactor.Store = sfmemory.New()
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		credStore = credpostgres.New(db)
		auditStore = auditpostgres.New(db)
		refStore = refpostgres.New(db)
		log.Info("using postgres stores")
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		rpStore = rpredis.New(redisClient.Client)
		sfStore = sfredis.New(redisClient.Client)
		log.Info("using redis session stores")
	}

	publisher := audit.NewPublisher(log)
	worker := audit.NewWorker(auditStore, publisher.Inbox(), log)

	csp := credential.New(credStore, publisher, credential.WithLogger(log))
	ra := registration.New(csp, registration.WithLogger(log))
	vf := verifier.New(csp, verifier.WithLogger(log))
	sf := secondfactor.New(sfStore, secondfactor.NewLogDeliverer(log),
		secondfactor.WithLogger(log),
		secondfactor.WithTTL(cfg.LoginCodeTTL),
		secondfactor.WithMaxAttempts(cfg.LoginCodeMaxAttempts),
	)
	tokens := jwtsession.New(cfg.JWTSigningKey, "alumnet")
	rp := relyingparty.New(rpStore, vf, sf, tokens, publisher,
		relyingparty.WithLogger(log),
		relyingparty.WithSessionTTL(cfg.SessionTTL),
	)

	handler := httptransport.NewHandler(
		log,
		ra,
		rp,
		csp,
		messaging.New(msgmemory.New(), csp, messaging.WithLogger(log)),
		referral.New(refStore, publisher, referral.WithLogger(log)),
		mentorship.New(mentmemory.New(), csp, mentorship.WithLogger(log)),
		auditStore,
		tokens,
		cfg.AdminToken,
	)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return worker.Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting alumnet", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
