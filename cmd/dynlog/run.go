package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dynlog/internal/config"
	"dynlog/internal/panel"
	"dynlog/internal/runner"
	"dynlog/internal/status"

	"github.com/atotto/clipboard"
)

type runOptions struct {
	live      bool
	width     int
	tailLines int
	refresh   time.Duration
	shell     string
	workdir   string
	spinner   string
	animated  bool
}

func runMain(cfg config.Config, args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	var overrides stringSlice
	var name string
	var workdir string
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	fs.IntVar(&cfg.TailLines, "tail", cfg.TailLines, "Output lines shown per task")
	fs.BoolVar(&cfg.CopyFrame, "copy", cfg.CopyFrame, "Copy the final frame to the clipboard")
	fs.StringVar(&name, "name", "", "Task name when the command is given as arguments")
	fs.StringVar(&workdir, "cd", "", "Working directory for every task")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: dynlog run [flags] -- command [args]")
		fmt.Fprintln(fs.Output(), "       dynlog run [flags] < tasks   (one \"name,command\" per line)")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse run args: %v", err)
	}
	cfg = config.ApplyKVOverrides(cfg, []string(overrides))

	specs, err := collectSpecs(fs.Args(), name, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynlog run: %v\n", err)
		return 2
	}
	if len(specs) == 0 {
		fs.Usage()
		return 2
	}

	live, width := stdoutTerminal(os.Stdout, cfg.Width)
	opts := runOptions{
		live:      live,
		width:     width,
		tailLines: cfg.TailLines,
		refresh:   time.Duration(cfg.RefreshMS) * time.Millisecond,
		shell:     cfg.Shell,
		workdir:   workdir,
		spinner:   cfg.Spinner,
		animated:  cfg.Animations,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed, frame, err := runTasks(ctx, opts, specs, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dynlog run: %v\n", err)
		return 1
	}
	if cfg.CopyFrame {
		copyFrame(frame)
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// collectSpecs builds tasks from the command line, or from stdin when no
// command is given and stdin is not a terminal.
func collectSpecs(args []string, name string, stdin *os.File) ([]runner.Spec, error) {
	if len(args) > 0 {
		return []runner.Spec{{Name: name, Command: strings.Join(args, " ")}}, nil
	}
	if stdin == nil {
		return nil, nil
	}
	fi, err := stdin.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Mode()&os.ModeCharDevice != 0 {
		return nil, nil
	}
	return runner.ParseSpecs(stdin)
}

// runTasks runs specs concurrently and draws them on out until all exit. It
// returns the number of failed tasks and the final frame text.
func runTasks(ctx context.Context, opts runOptions, specs []runner.Spec, out io.Writer) (int, string, error) {
	p := panel.New(panel.Options{
		Out:        out,
		Live:       opts.live,
		Width:      opts.width,
		TailLines:  opts.tailLines,
		Animations: opts.animated,
		Spinner:    status.SpinnerByName(opts.spinner),
	})
	tasks := make([]runner.Task, 0, len(specs))
	for _, spec := range specs {
		if spec.Workdir == "" {
			spec.Workdir = opts.workdir
		}
		t := runner.NewTask(spec)
		tasks = append(tasks, t)
		p.Add(t)
	}

	cols := opts.width
	if cols <= 0 {
		cols = 80
	}
	r := runner.Runner{Shell: opts.shell, Cols: cols}
	events := make(chan runner.Event, 64)
	go r.RunAll(ctx, tasks, events)

	err := p.Run(events, opts.refresh)
	if err != nil {
		log.WithError(err).Error("panel stopped drawing")
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		log.Info("interrupted")
	}
	return p.Failed(), p.Frame(), err
}

func copyFrame(frame string) {
	if clipboard.Unsupported {
		log.Warn("clipboard is not supported on this system")
		return
	}
	if err := clipboard.WriteAll(frame); err != nil {
		log.WithError(err).Warn("failed to copy frame to clipboard")
	}
}
