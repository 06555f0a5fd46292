package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-webtempl/pkg/handler"
	"github.com/goliatone/go-webtempl/pkg/metrics"
	"github.com/goliatone/go-webtempl/pkg/templ/pongo"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		addr        string
		dir         string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve templates over HTTP, one template per request path",
		Long: "Serve templates over HTTP, one template per request path.\n\n" +
			"Render metrics are kept in process and exposed as JSON at /metrics; " +
			"no exporter is configured.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			collector, err := metrics.Init("webtempl")
			if err != nil {
				return err
			}

			engine, err := newEngine(flags, pongo.WithMetrics(collector))
			if err != nil {
				return err
			}

			app := fiber.New(fiber.Config{DisableStartupMessage: true})
			app.Get("/healthz", func(c *fiber.Ctx) error {
				return c.JSON(fiber.Map{"status": "ok"})
			})
			app.Get("/metrics", metricsHandler(collector))
			handler.New(engine,
				handler.WithTemplateDirectory(dir),
				handler.WithContentType(contentType),
			).Register(app, "/")

			return run(cmd.Context(), app, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&dir, "dir", handler.DefaultTemplateDirectory, "template directory prefix")
	cmd.Flags().StringVar(&contentType, "content-type", handler.DefaultContentType, "response content type")
	return cmd
}

func metricsHandler(collector *metrics.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := collector.Snapshot(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"metrics": points})
	}
}

func run(ctx context.Context, app *fiber.App, addr string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return nil
}
