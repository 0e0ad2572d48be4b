package main

import (
	"fmt"
	"io"
	"os"

	"dynlog/internal/config"
	"dynlog/internal/logger"

	"golang.org/x/term"
)

var log = logger.Named("cli")

const usage = `usage: dynlog [-c key=value]... [-config path] <command> [args]

commands:
  run     run commands and show their progress in place
  demo    draw a synthetic live panel
  config  init|show the config file
`

func main() {
	logger.Configure()

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if len(rest) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch rest[0] {
	case "config":
		configMain(root, rest[1:])
		return
	case "run", "demo":
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", rest[0], usage)
		os.Exit(2)
	}

	cfg := loadConfig(root)
	// stdout 交给 dynlog.Log 独占，日志只能写文件。
	if logFile, _, err := logger.SetupFile(cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "dynlog: failed to open log file %s: %v\n", cfg.LogPath, err)
		logger.Discard()
	} else {
		defer logFile.Close()
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("%v", err)
	}

	var code int
	switch rest[0] {
	case "run":
		code = runMain(cfg, rest[1:])
	case "demo":
		code = demoMain(cfg, rest[1:])
	}
	if code != 0 {
		os.Exit(code)
	}
}

func loadConfig(root rootArgs) config.Config {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return config.ApplyKVOverrides(cfg, root.overrides)
}

// stdoutTerminal reports whether stdout is a terminal and its width.
func stdoutTerminal(out io.Writer, configured int) (bool, int) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, configured
	}
	if configured > 0 {
		return true, configured
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return true, 80
	}
	return true, w
}
