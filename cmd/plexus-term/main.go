// Command plexus-term runs the particle field in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/plexus/config"
	"github.com/pthm-cable/plexus/field"
	"github.com/pthm-cable/plexus/palette"
	"github.com/pthm-cable/plexus/terminal"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	fps := flag.Int("fps", 30, "Frames per second")
	flag.Parse()

	logOut := io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := run(*configPath, *seed, *fps); err != nil {
		slog.Error("plexus-term failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, fps int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if fps < 1 {
		fps = 30
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	cols, rows := screen.Size()
	pal, err := palette.New(cfg.Render, 0, 0)
	if err != nil {
		return err
	}
	surface := terminal.NewSurface(pal, cfg.Terminal, cols, rows)

	w, h := surface.PixelSize()
	f, err := field.New(w, h, *cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("creating field: %w", err)
	}
	slog.Info("starting terminal field", "seed", seed, "cols", cols, "rows", rows, "particles", f.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resized := make(chan [2]int, 1)
	go pollEvents(ctx, cancel, screen, surface, f, resized)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping terminal field", "tick", f.Ticks())
			return nil
		case size := <-resized:
			// The surface is only touched on this goroutine.
			surface.Resize(size[0], size[1])
			w, h := surface.PixelSize()
			f.Send(field.Resize{W: w, H: h})
			screen.Sync()
		case <-ticker.C:
			surface.Clear()
			f.Tick(surface)
			surface.Flush(screen)
			screen.Show()
		}
	}
}

// pollEvents forwards terminal input to the field until ctx ends or a quit
// key is pressed.
func pollEvents(ctx context.Context, quit context.CancelFunc, screen tcell.Screen, surface *terminal.Surface, f *field.Field, resized chan [2]int) {
	buttonDown := false
	for ctx.Err() == nil {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isQuit(ev) {
				quit()
				return
			}
		case *tcell.EventResize:
			cols, rows := ev.Size()
			// Keep only the latest size.
			select {
			case <-resized:
			default:
			}
			resized <- [2]int{cols, rows}
		case *tcell.EventMouse:
			col, row := ev.Position()
			x, y := surface.CellCenter(col, row)
			pressed := ev.Buttons()&tcell.Button1 != 0
			switch {
			case pressed && !buttonDown:
				f.Send(field.PointerDown{X: x, Y: y})
			case pressed:
				f.Send(field.PointerMove{X: x, Y: y})
			case buttonDown:
				f.Send(field.PointerUp{})
			}
			buttonDown = pressed
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
