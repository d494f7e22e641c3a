package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-composer/audio"
	"github.com/lixenwraith/vi-composer/composer"
	"github.com/lixenwraith/vi-composer/config"
	"github.com/lixenwraith/vi-composer/report"
	"github.com/lixenwraith/vi-composer/view"
)

// errQuit reports that the user closed the monitor before the search finished
var errQuit = errors.New("quit before the search finished")

// newScreen opens the terminal for the monitor
var newScreen = tcell.NewScreen

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain returns the exit code so deferred cleanup runs before the process exits
func runMain(args []string) int {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, fs, &opts, os.Stdout); err != nil {
		slog.Error("run failed", "error", err)
		fmt.Fprintf(os.Stderr, "vi-composer: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, fs *flag.FlagSet, opts *options, stdout io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := opts.apply(fs, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.Default()
	gen, err := composer.NewGenerator(cfg.Composer, logger)
	if err != nil {
		return err
	}
	gen.SetCoefficients(cfg.Coefficients)

	var res *composer.Result
	if opts.view {
		res, err = composeWithView(ctx, gen, cfg)
	} else {
		res, err = gen.Compose(ctx, cfg.Measures, cfg.TopK)
	}
	if errors.Is(err, errQuit) {
		logger.Info("run abandoned from the monitor")
		return nil
	}
	if err != nil {
		return err
	}

	return publish(ctx, res, gen, cfg, opts, stdout, logger)
}

// composeWithView runs the search behind a terminal monitor; quitting the monitor cancels the run
func composeWithView(ctx context.Context, gen *composer.Generator, cfg config.Config) (res *composer.Result, err error) {
	screen, err := newScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	// Restore the terminal before a crash report reaches stderr
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nVI-COMPOSER CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	title := fmt.Sprintf("vi-composer  %s  %s  %d measures", gen.Sets().Key, cfg.Composer.Meter, cfg.Measures)
	monitor := view.NewMonitor(screen, title, gen.History(), gen.BeatLength(), gen.Sets().Scale)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	viewCtx, closeView := context.WithCancel(ctx)
	defer closeView()
	viewDone := make(chan bool, 1)
	go func() {
		quit := monitor.Run(viewCtx)
		if quit {
			cancel()
		}
		viewDone <- quit
	}()

	res, err = gen.Compose(runCtx, cfg.Measures, cfg.TopK)
	if err != nil {
		closeView()
		if quit := <-viewDone; quit && ctx.Err() == nil && errors.Is(err, context.Canceled) {
			return nil, errQuit
		}
		return nil, err
	}

	best := res.Best()
	monitor.SetMelody(best.Melody, best.Fitness)
	monitor.SetStatus("done")

	// Keep the result on screen until the user quits
	select {
	case <-viewDone:
	case <-ctx.Done():
		closeView()
		<-viewDone
	}
	return res, nil
}

// publish writes the report and optional artefacts, then prints a summary
func publish(ctx context.Context, res *composer.Result, gen *composer.Generator, cfg config.Config, opts *options, stdout io.Writer, logger *slog.Logger) error {
	dto := report.FromResult(res, gen.Config(), gen.Sets().Key)
	mgr := report.NewManager(opts.outDir)

	reportPath, err := mgr.Save(dto)
	if err != nil {
		return err
	}
	logger.Info("report written", "id", dto.ID, "path", reportPath)

	best := res.Best()
	fmt.Fprintf(stdout, "run      %s\n", dto.ID)
	fmt.Fprintf(stdout, "key      %s\n", gen.Sets().Key)
	fmt.Fprintf(stdout, "seed     %d\n", res.Seed)
	fmt.Fprintf(stdout, "fitness  %.4f\n", best.Fitness)
	fmt.Fprintf(stdout, "melody   %s\n", report.Notation(best.Melody))
	fmt.Fprintf(stdout, "report   %s\n", reportPath)

	if opts.plot {
		plotPath := mgr.PlotPath(dto.ID)
		if err := report.PlotHistory(res.History, plotPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "plot     %s\n", plotPath)
	}

	renderCfg := cfg.RenderConfig()
	if opts.wav {
		wavPath := filepath.Join(opts.outDir, dto.ID+".wav")
		if err := writeWAV(wavPath, best, renderCfg); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "audio    %s\n", wavPath)
	}

	if opts.play {
		player, err := audio.NewPlayer(renderCfg, logger)
		if err != nil {
			return err
		}
		if err := player.Play(ctx, best.Melody); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	return nil
}

func writeWAV(path string, best composer.Scored, cfg audio.Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audio.WriteWAV(f, best.Melody, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
