package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paulvitic/hotel-booking/config"
	"github.com/paulvitic/hotel-booking/ddd"
	ddd_http "github.com/paulvitic/hotel-booking/http"
	"github.com/paulvitic/hotel-booking/hotel"
	"github.com/paulvitic/hotel-booking/hotel/application"
	"github.com/paulvitic/hotel-booking/tracing"
	"github.com/spf13/cobra"
)

const reloadDebounce = 500 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the booking API over HTTP",
	Long: `Serve the booking API under /hotel until interrupted.

The properties file is watched; admission rules and the log level follow its changes.

Examples:
  hotel-booking serve
  hotel-booking serve --profile dev --seed`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("seed", false, "register the stock users, rooms and reservations on start")
}

func runServe(cmd *cobra.Command, args []string) error {
	props, logger, err := loadProperties()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.NewProvider(props.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown: %v", err)
		}
	}()

	booking, err := hotel.NewContext(ctx, props, logger, provider.Tracer())
	if err != nil {
		return err
	}
	defer func() {
		if err := booking.Close(); err != nil {
			logger.Warn("closing %s context: %v", booking.Name(), err)
		}
	}()

	if seed, _ := cmd.Flags().GetBool("seed"); seed || props.Seed.Enabled {
		if err = seedStock(ctx, booking.Service(), props.Seed.File); err != nil {
			return err
		}
	}

	if props.FilePath != "" {
		watcher, err := config.Watch(props, configDir(), profile(), reloadDebounce, func(changed *config.Properties, err error) {
			if err != nil {
				logger.Warn("ignoring properties change: %v", err)
				return
			}
			logger.SetLevel(ddd.ParseLevel(changed.Logging.Level))
			booking.Reload(changed)
		})
		if err != nil {
			logger.Warn("properties will not be reloaded: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	server := ddd_http.NewServer(props.Server.Host, props.Server.Port, logger).WithContexts(booking)
	if provider.Enabled() {
		server.Use(tracing.Middleware(provider.Tracer()))
	}
	return server.Run(ctx)
}

func seedStock(ctx context.Context, service *application.BookingService, file string) error {
	var (
		stock application.StockData
		err   error
	)
	if file == "" {
		stock, err = application.DefaultStockData()
	} else {
		stock, err = application.LoadStockData(file)
	}
	if err != nil {
		return err
	}
	_, err = service.Seed(ctx, stock)
	return err
}
