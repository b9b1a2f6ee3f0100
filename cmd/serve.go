package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/ramanasai/streak/internal/publisher"
	"github.com/ramanasai/streak/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard and JSON API",
		Long: `Serves the dashboard at / and the API under /api/{kind}.
With mqtt.enabled, today's totals are also republished after every change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Dashboard.Addr
			}
			ctx := cmd.Context()
			a.startReminder(ctx)

			srv := web.New(a.store, web.Options{
				Location:      a.loc,
				SummaryDays:   a.cfg.SummaryDays,
				HeatmapMonths: a.cfg.HeatmapMonths,
				Now:           a.now,
			}, a.log)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Run(ctx, addr) })
			if a.cfg.MQTT.Enabled {
				pub, err := publisher.New(a.cfg.MQTT, a.cfg.SummaryDays, a.log)
				if err != nil {
					return err
				}
				defer pub.Close()
				g.Go(func() error { return a.mirror(ctx, pub) })
			}
			return g.Wait()
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "listen address (default from config dashboard.addr)")
	return c
}

// mirror publishes every kind once, then the changed kind after each write.
// Broker failures are logged and never stop the dashboard.
func (a *app) mirror(ctx context.Context, pub *publisher.Publisher) error {
	changes, unsubscribe := a.bus.Subscribe()
	defer unsubscribe()

	if err := pub.PublishAll(ctx, a.store, a.now(), a.loc); err != nil {
		a.log.Warn("initial publish failed", slog.Any("error", err))
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if err := pub.PublishKind(ctx, a.store, c.Kind, a.now(), a.loc); err != nil {
				a.log.Warn("publish failed", slog.String("kind", c.Kind.String()), slog.Any("error", err))
			}
		}
	}
}

func newPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish today's totals to the MQTT broker once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := publisher.New(a.cfg.MQTT, a.cfg.SummaryDays, a.log)
			if err != nil {
				return err
			}
			defer pub.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := pub.PublishAll(ctx, a.store, a.now(), a.loc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published %s/{sleep,exercise,study}/today.\n", a.cfg.MQTT.TopicPrefix)
			return nil
		},
	}
}
