package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/astro-shop-service/internal/adapter/catalogdb"
	"github.com/example/astro-shop-service/internal/adapter/httpapi"
	"github.com/example/astro-shop-service/internal/adapter/memstore"
	"github.com/example/astro-shop-service/internal/adapter/natsstan"
	"github.com/example/astro-shop-service/internal/audit"
	"github.com/example/astro-shop-service/internal/config"
	"github.com/example/astro-shop-service/internal/dispatch"
	"github.com/example/astro-shop-service/internal/usecase"
	"github.com/go-playground/validator/v10"
	stan "github.com/nats-io/stan.go"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Read()
	if err != nil {
		log.Error("read config", "error", err)
		os.Exit(1)
	}

	catalog, err := catalogdb.Open(cfg.DBFile)
	if err != nil {
		log.Error("open catalog", "error", err)
		os.Exit(1)
	}

	// отдельный client id для исходящего соединения, подписчик держит своё
	outClientID := cfg.StanClientID + "-out"
	if cfg.StanClientID == "" {
		outClientID = fmt.Sprintf("astro-out-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(cfg.StanClusterID, outClientID, stan.NatsURL(cfg.NatsURL))
	if err != nil {
		log.Error("stan connect", "error", err)
		os.Exit(1)
	}
	defer sc.Close()

	gateway := &natsstan.Gateway{
		Conn:        sc,
		Subject:     cfg.OutboundSubject,
		StaffRoleID: cfg.StaffRoleID,
		CategoryID:  cfg.CartCategoryID,
	}

	carts := memstore.NewMemoryCartRegistry()
	orders := memstore.NewMemoryOrderRegistry()

	dispatcher := dispatch.New(dispatch.Deps{
		Log:         log,
		Validate:    validator.New(),
		Gateway:     gateway,
		Audit:       &audit.Logger{Gateway: gateway, ChannelID: cfg.LogChannelID, Log: log},
		Carts:       carts,
		Orders:      orders,
		Catalog:     catalog,
		StaffRoleID: cfg.StaffRoleID,
		PixKey:      cfg.PixKey,
		PayLink:     cfg.PaymentLink,
		CloseDelay:  1500 * time.Millisecond,
	})

	sub := &natsstan.Subscriber{
		ClusterID: cfg.StanClusterID,
		ClientID:  cfg.StanClientID,
		URL:       cfg.NatsURL,
		Subject:   cfg.InboundSubject,
		Durable:   cfg.StanDurable,
		Log:       log,
	}
	go func() {
		if err := sub.Subscribe(ctx, dispatcher.Handle); err != nil {
			log.Error("stan subscribe", "error", err)
		}
	}()

	api := httpapi.NewServer(
		usecase.GetOrder{Orders: orders},
		usecase.ListProducts{Catalog: catalog},
	)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Router}
	go func() {
		log.Info("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http serve", "error", err)
			cancel()
		}
	}()

	log.Info("astro shop service online")

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
}
