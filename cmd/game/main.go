package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/audio/speaker"
	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/loop/client"
	"github.com/tomz197/starfall/internal/tui"
	"golang.org/x/term"
)

func main() {
	ansi := flag.Bool("ansi", false, "draw with raw ANSI escapes instead of tcell")
	mute := flag.Bool("mute", config.GetEnvBool("STARFALL_MUTE", false), "start with sound muted")
	seed := flag.Int64("seed", int64(config.GetEnvInt("STARFALL_SEED", 0)), "random seed, 0 picks one")
	flag.Parse()

	if err := run(*ansi, *mute, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(ansi, mute bool, seed int64) error {
	// The terminal belongs to the game, so logs only go to LOG_FILE.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "game")
	tickRate := config.GetEnvInt("STARFALL_TICK_RATE", 0)

	spk := speaker.New()
	var sink audio.Sink = spk
	if err := spk.Init(); err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
		sink = audio.Nop{}
	} else {
		defer spk.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if ansi {
		err = runANSI(ctx, client.Options{
			Sink:     sink,
			Muted:    mute,
			TickRate: tickRate,
			Seed:     seed,
			Logger:   logger,
		})
	} else {
		err = runTUI(ctx, tui.Options{
			Sink:     sink,
			Muted:    mute,
			TickRate: tickRate,
			Seed:     seed,
			Logger:   logger,
		})
	}
	if err != nil {
		logger.Error("game error", "err", err)
	}
	return err
}

func runTUI(ctx context.Context, opts tui.Options) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	return tui.New(screen, opts).Run(ctx)
}

func runANSI(ctx context.Context, opts client.Options) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	return client.NewClient(reader, os.Stdout, opts).Run(ctx)
}
