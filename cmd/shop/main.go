// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command shop starts the Aleutian Commerce API server.
//
// The server hosts the conversational shopping agent, the product catalog,
// and Stripe checkout for a Romanian small-business storefront:
//   - Keyword-driven dialogue engine (no LLM in the loop)
//   - JSON product catalog with hot reload
//   - Stripe Checkout Sessions for multi-vendor carts
//
// Usage:
//
//	go run ./cmd/shop
//	go run ./cmd/shop -port 9090 -products ./data/products.json
//
// With Stripe:
//
//	STRIPE_SECRET_KEY=sk_test_... STRIPE_PUBLISHABLE_KEY=pk_test_... go run ./cmd/shop
//
// Example requests:
//
//	# Health check
//	curl http://localhost:3000/api/health
//
//	# One dialogue turn
//	curl -X POST http://localhost:3000/api/agent/message \
//	  -H "Content-Type: application/json" \
//	  -d '{"message": "vreau un tricou portocaliu"}'
//
//	# Product search
//	curl -X POST http://localhost:3000/api/products/search \
//	  -H "Content-Type: application/json" \
//	  -d '{"category": "tricou", "maxPrice": 10000}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/AleutianCommerce/services/shop"
	"github.com/AleutianAI/AleutianCommerce/services/shop/agent"
	"github.com/AleutianAI/AleutianCommerce/services/shop/catalog"
	"github.com/AleutianAI/AleutianCommerce/services/shop/payments"
)

func main() {
	port := flag.Int("port", 3000, "Port to listen on")
	productsPath := flag.String("products", "data/products.json", "Path to the products JSON file")
	frontendDir := flag.String("frontend", "", "Directory of static frontend files to serve (optional)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	traceStdout := flag.Bool("trace-stdout", false, "Export OTel spans to stdout")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext propagation so trace IDs flow from incoming headers
	// through all handlers.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	shutdownTracing, err := setupTracing(*traceStdout)
	if err != nil {
		slog.Error("Failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	engine, err := agent.NewEngine(logger)
	if err != nil {
		slog.Error("Failed to create dialogue engine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := catalog.NewStore(*productsPath, logger)
	if err != nil {
		slog.Error("Failed to load product catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Checkout degrades gracefully without Stripe keys: the endpoints
	// return 503 instead of the server refusing to start.
	stripe, err := payments.NewStripeClient()
	if err != nil {
		slog.Warn("Stripe disabled", slog.String("reason", err.Error()))
		stripe = nil
	}

	handlers := shop.NewHandlers(engine, store, stripe)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("aleutian-shop"))
	router.Use(shop.RequestIDMiddleware())
	router.Use(shop.RateLimitMiddleware(rate.Limit(20), 40))
	if *debug {
		router.Use(gin.Logger())
	}

	api := router.Group("/api")
	shop.RegisterRoutes(api, handlers)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if *frontendDir != "" {
		router.Static("/static", *frontendDir)
		router.StaticFile("/", *frontendDir+"/index.html")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting Aleutian Commerce server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := store.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("catalog watcher: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down Aleutian Commerce server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		shutdownTracing(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupTracing installs the global tracer provider. With -trace-stdout the
// spans go to a pretty-printed stdout exporter; otherwise spans are created
// but never exported, which keeps span attributes available to logging.
func setupTracing(stdout bool) (func(context.Context), error) {
	opts := []sdktrace.TracerProviderOption{}
	if stdout {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			slog.Warn("Tracer provider shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}
