package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"framewatch/internal/analysis"
	"framewatch/internal/capture"
	"framewatch/internal/config"
	"framewatch/internal/decode"
	"framewatch/internal/keyboard"
	"framewatch/internal/logging"
	"framewatch/internal/render"
	"framewatch/internal/sniffer"
	"framewatch/internal/tui"

	"go.uber.org/zap"
)

const topTalkers = 5

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "framewatch: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "framewatch: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// A second interrupt kills the process even if a frame read is stuck.
	go func() {
		<-ctx.Done()
		stop()
	}()

	var opts []render.Option
	if cfg.NoColor {
		opts = append(opts, render.WithoutColor())
	}
	out := render.New(os.Stdout, opts...)

	iface := cfg.Interface
	for {
		if iface == "" {
			iface, err = chooseInterface()
			if errors.Is(err, tui.ErrAborted) {
				break
			}
			if err != nil {
				logger.Error("interface selection failed", zap.Error(err))
				break
			}
		}

		runSession(ctx, cfg, iface, out, logger)
		iface = ""
		if ctx.Err() != nil {
			break
		}

		again, err := tui.Confirm("Do you want to choose another interface? (y/n):")
		if err != nil && !errors.Is(err, tui.ErrAborted) {
			logger.Error("prompt failed", zap.Error(err))
		}
		if !again {
			break
		}
	}

	out.Printf("Exiting the program.")
}

func chooseInterface() (string, error) {
	ifaces, err := capture.Interfaces()
	if err != nil {
		return "", err
	}
	ifi, err := tui.SelectInterface(ifaces)
	if err != nil {
		return "", err
	}
	return ifi.Name, nil
}

// runSession captures on iface until the operator closes input, the
// handle goes away or ctx is canceled.
func runSession(ctx context.Context, cfg *config.Config, iface string, out *render.Table, logger *zap.Logger) {
	out.Printf("Using interface: %s", iface)

	handle, err := capture.Open(capture.Config{
		Interface:   iface,
		SnapLen:     cfg.SnapLen,
		Promisc:     cfg.Promisc,
		ReadTimeout: cfg.ReadTimeout,
	}, logger)
	if err != nil {
		out.Printf("An error occurred when creating the datalink channel: %v", err)
		logger.Debug("open failed", zap.String("interface", iface), zap.Error(err))
		return
	}
	defer handle.Close()

	keys := keyboard.NewQueue(16)
	watcher, err := keyboard.NewWatcher(os.Stdin, keys, logger)
	if err != nil {
		logger.Error("keyboard watcher unavailable", zap.Error(err))
		return
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	out.Printf("Listening on interface: %s", handle.Name())
	out.Notice("Press Enter to pause.")

	stats := analysis.NewTrafficStats()
	loop := sniffer.New(handle, decode.NewBuilder(nil), keys, out, &sniffer.Config{
		IdleInterval: cfg.IdleInterval,
		Stats:        stats,
		Logger:       logger,
	})
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("capture loop stopped", zap.Error(err))
	}

	if c, err := handle.Stats(); err == nil {
		logger.Info("capture counters",
			zap.String("interface", iface),
			zap.Int("received", c.Received),
			zap.Int("dropped", c.Dropped),
			zap.Int("if_dropped", c.InterfaceDropped),
		)
	}
	out.Summary(iface, stats.Snapshot(topTalkers))
}
