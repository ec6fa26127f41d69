package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/lixenwraith/termrender/app"
	"github.com/lixenwraith/termrender/terminal"
)

var (
	configFlag = flag.String("config", "", "Path to a TOML config file")
	colorFlag  = flag.String("color", "", "Color mode: auto, truecolor, 256 (overrides config)")
	fpsFlag    = flag.Int("fps", -1, "Frames per second, 0 renders on input only (overrides config)")
	debugFlag  = flag.Bool("debug", false, "Write diagnostics to logs/termrender.log")
	ttyFlag    = flag.Bool("tty", false, "Open /dev/tty through tcell instead of using stdin/stdout")
)

func main() {
	// Restore the terminal even if something below panics outside the frame loop
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mTERMRENDER DEMO CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "termrender-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	opts := []app.Option{app.WithConfig(cfg), app.WithLogger(log.Default())}

	tp, err := newTracerProvider(ctx)
	if err != nil {
		log.Printf("tracing disabled: %v", err)
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			tp.Shutdown(shutdownCtx)
		}()
		opts = append(opts, app.WithTracerProvider(tp))
	}

	backend := terminal.NewBackend()
	if *ttyFlag {
		backend, err = terminal.OpenTTY()
		if err != nil {
			return fmt.Errorf("open tty: %w", err)
		}
	}

	a, err := app.NewWithBackend(backend, opts...)
	if err != nil {
		return err
	}

	d, err := newDemo(cfg.Keys)
	if err != nil {
		return err
	}
	if err := d.build(a); err != nil {
		return err
	}
	return app.Run(ctx, a, d, step)
}

// loadConfig reads the optional config file and applies flag overrides
func loadConfig() (app.Config, error) {
	cfg := app.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = app.LoadConfig(*configFlag); err != nil {
			return cfg, err
		}
	}
	if *colorFlag != "" {
		cfg.ColorMode = *colorFlag
	}
	if *fpsFlag == 0 {
		cfg.FrameInterval = 0
	} else if *fpsFlag > 0 {
		cfg.FrameInterval = time.Second / time.Duration(*fpsFlag)
	}
	return cfg, cfg.Validate()
}
