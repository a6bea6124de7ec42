package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"website-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
)

// runConfig 处理 `config show` 与 `config init [-force]`。
func runConfig(root rootArgs, cfg config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: website-cli config <show|init>")
	}
	switch args[0] {
	case "show":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# source: %s\n%s", cfg.Source, data)
		return nil
	case "init":
		fs := flag.NewFlagSet("config init", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		force := fs.Bool("force", false, "Overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		path := root.cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil && !*force {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q", args[0])
	}
}
