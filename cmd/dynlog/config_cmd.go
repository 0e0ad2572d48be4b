package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"dynlog/internal/config"
)

func configMain(root rootArgs, args []string) {
	if len(args) == 0 {
		log.Fatalf("usage: dynlog config init|show")
	}
	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("config init", flag.ExitOnError)
		var force bool
		fs.BoolVar(&force, "force", false, "Overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			log.Fatalf("parse config args: %v", err)
		}
		path := root.cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil && !force {
			log.Fatalf("%s already exists (use -force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("stat %s: %v", path, err)
		}
		if err := config.Save(path, config.ApplyKVOverrides(config.Default(), root.overrides)); err != nil {
			log.Fatalf("failed to write config: %v", err)
		}
		fmt.Printf("Wrote %s\n", path)
	case "show":
		fs := flag.NewFlagSet("config show", flag.ExitOnError)
		var overrides stringSlice
		fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
		if err := fs.Parse(args[1:]); err != nil {
			log.Fatalf("parse config args: %v", err)
		}
		cfg, err := config.Load(root.cfgPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, overrides))
		data, err := config.Marshal(cfg)
		if err != nil {
			log.Fatalf("failed to encode config: %v", err)
		}
		fmt.Printf("# %s\n%s", cfg.Source, data)
	default:
		log.Fatalf("unknown config command %q (want init or show)", args[0])
	}
}
