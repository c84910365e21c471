package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/illenko/checkout-service/config"
	"github.com/illenko/checkout-service/handler"
	"github.com/illenko/checkout-service/observability"
	"github.com/illenko/checkout-service/razorpay"
	"github.com/illenko/checkout-service/service"
	"github.com/illenko/checkout-service/signature"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	shutdown, err := observability.SetupOpenTelemetry(ctx, observability.Options{
		ServiceName:       cfg.ServiceName,
		CollectorEndpoint: cfg.CollectorEndpoint,
	})
	if err != nil {
		slog.ErrorContext(ctx, "error setting up OpenTelemetry", slog.Any("error", err))
	}
	if shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("error during shutdown", slog.Any("error", err))
			}
		}()
	}
	slog.InfoContext(ctx, "Configuration loaded", slog.Any("config", cfg))

	verifier, err := signature.NewVerifier(cfg.KeySecret)
	if err != nil {
		return err
	}

	client := razorpay.NewClient(razorpay.Config{
		KeyID:     cfg.KeyID,
		KeySecret: cfg.KeySecret,
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
	})

	paymentService, err := service.NewPaymentService(client, verifier, service.Options{
		DefaultAmountPaise: cfg.DefaultAmountPaise,
		Currency:           cfg.Currency,
	})
	if err != nil {
		return err
	}

	router := handler.NewRouter(handler.NewPaymentHandler(paymentService), cfg.ServiceName)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", handler.RequestIDHeader},
		ExposedHeaders: []string{handler.RequestIDHeader},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Timeout + 5*time.Second,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
