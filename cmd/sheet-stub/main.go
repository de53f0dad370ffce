package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/sheetboard/internal/sheetstub"
	"github.com/okian/sheetboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultColleges   = 8
	defaultEvents     = 24
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", ":9090", "Listen address")
		colleges = flag.Int("colleges", defaultColleges, "Number of colleges")
		events   = flag.Int("events", defaultEvents, "Number of events")
		layout   = flag.String("layout", string(sheetstub.Flat), "Sheet layout: flat or wide")
		rotate   = flag.Duration("rotate", 0, "Regenerate scores at this interval (0 disables)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("sheet-stub")

	if l := sheetstub.Layout(*layout); l != sheetstub.Flat && l != sheetstub.Wide {
		log.Error(context.Background(), "unknown layout", logger.String("layout", *layout))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := sheetstub.Config{Colleges: *colleges, Events: *events}
	stub := sheetstub.NewServer(sheetstub.Generate(cfg), sheetstub.Layout(*layout))

	if *rotate > 0 {
		go func() {
			ticker := time.NewTicker(*rotate)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					stub.SetSheet(sheetstub.Generate(cfg))
					log.Info(ctx, "sheet regenerated")
				}
			}
		}()
	}

	srv := &http.Server{Addr: *addr, Handler: stub, ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "serving sheet stub",
		logger.String("addr", *addr),
		logger.String("layout", *layout),
		logger.Int("colleges", *colleges),
		logger.Int("events", *events),
		logger.String("urlTemplate", sheetstub.URLTemplate("http://localhost"+*addr)),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(ctx, "sheet stub failed", logger.Error(err))
		os.Exit(1)
	}
}
