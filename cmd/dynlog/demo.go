package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dynlog/internal/config"
	"dynlog/internal/dynlog"
	"dynlog/internal/render"
)

const demoBarWidth = 20

func demoMain(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	var steps int
	var delay time.Duration
	fs.IntVar(&steps, "steps", 4, "Number of steps to simulate")
	fs.DurationVar(&delay, "delay", 150*time.Millisecond, "Pause between updates")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse demo args: %v", err)
	}
	live, width := stdoutTerminal(os.Stdout, cfg.Width)
	if !live {
		delay = 0
	}
	if err := runDemo(os.Stdout, steps, delay, width); err != nil {
		fmt.Fprintf(os.Stderr, "dynlog demo: %v\n", err)
		return 1
	}
	return 0
}

// runDemo walks a Log through a fake multi-step job.
func runDemo(out io.Writer, steps int, delay time.Duration, width int) error {
	l := dynlog.New(out)
	fit := func(s string) string { return render.FitString(s, width) }

	l.PushChunk("header").PushLine(fit(fmt.Sprintf("dynlog demo: %d steps", steps)))
	if err := l.Render(); err != nil {
		return err
	}

	for i := 1; i <= steps; i++ {
		id := fmt.Sprintf("step-%d", i)
		l.PushChunk(id)
		if err := l.PushLines([]string{fit(progressLine(i, 0)), fit("  starting")}, true); err != nil {
			return err
		}
		for pct := 25; pct <= 100; pct += 25 {
			pause(delay)
			c, err := l.ChunkByID(id)
			if err != nil {
				return err
			}
			if err := c.SetLine(0, fit(progressLine(i, pct))); err != nil {
				return err
			}
			if err := c.SetLine(1, fit(fmt.Sprintf("  processed %d/%d items", pct, 100))); err != nil {
				return err
			}
			if err := l.Render(); err != nil {
				return err
			}
		}
		// 完成后只保留进度行。
		if _, _, err := l.PopLine(true); err != nil {
			return err
		}
		if err := l.SetLine(-1, 0, fit(fmt.Sprintf("✓ step %d done", i)), true); err != nil {
			return err
		}
	}

	header, err := l.ChunkAt(0)
	if err != nil {
		return err
	}
	if err := header.SetLine(0, fit(fmt.Sprintf("dynlog demo: %d steps, all done", steps))); err != nil {
		return err
	}
	if err := l.Render(); err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}

func progressLine(step, pct int) string {
	filled := demoBarWidth * pct / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", demoBarWidth-filled)
	return fmt.Sprintf("step %d [%s] %3d%%", step, bar, pct)
}

func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
