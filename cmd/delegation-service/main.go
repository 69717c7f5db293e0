// @title         delegation-service API
// @version       1.0
// @description   Сервис делегирования подписи кастодиального кошелька агентам.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8082
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/vbncursed/vkr/delegation-service/docs"
	"github.com/vbncursed/vkr/delegation-service/internal/condition"
	icfg "github.com/vbncursed/vkr/delegation-service/internal/config"
	"github.com/vbncursed/vkr/delegation-service/internal/custody"
	ih "github.com/vbncursed/vkr/delegation-service/internal/http"
	"github.com/vbncursed/vkr/delegation-service/internal/repo"
	dsvc "github.com/vbncursed/vkr/delegation-service/internal/service"
)

func main() {
	cfg := icfg.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := custody.NewClient(cfg.CustodyAPIURL, cfg.CustodyAPIKey)
	verifier := dsvc.NewRuleVerifier(cfg.MinAgentIDLen, nil)
	compiler := condition.NewCompiler()
	compiler.MaxInstructions = cfg.MaxInstr

	if cfg.MemoryRegistry {
		mem := dsvc.NewMemoryRegistry()
		svc := dsvc.New(client, client, verifier, mem, mem, dsvc.RealClock{}, compiler)
		run(ctx, svc, ih.Router(svc, nil, cfg), cfg)
		return
	}

	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := repo.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	store := repo.NewStore(pool)
	svc := dsvc.New(client, client, verifier, store, store, dsvc.RealClock{}, compiler)
	run(ctx, svc, ih.Router(svc, pool, cfg), cfg)
}

func run(ctx context.Context, svc *dsvc.Service, handler http.Handler, cfg icfg.Config) {
	srv := &http.Server{
		Addr:              cfg.Bind,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// периодическая выметка истёкших делегирований — таймер живёт здесь,
	// а не в ядре
	go func() {
		t := time.NewTicker(cfg.SweepInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				n, err := svc.CleanupExpiredDelegations(ctx, now.UTC())
				if err != nil {
					log.Printf("sweep: %v", err)
				} else if n > 0 {
					log.Printf("sweep: expired %d delegation(s)", n)
				}
			}
		}
	}()

	go func() {
		log.Printf("delegation-service listening on %s", cfg.Bind)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
