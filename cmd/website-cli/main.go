package main

import (
	"fmt"
	"io"
	"os"

	"website-cli/internal/config"
	"website-cli/internal/logger"
	"website-cli/internal/tui"
)

// version 在发布构建时通过 -ldflags "-X main.version=..." 注入。
var version = "dev"

var log = logger.Named("cli")

func main() {
	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse args: %v\n", err)
		os.Exit(2)
	}
	cfg, err := loadConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Configure(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	if logFile, _, err := logger.SetupFile(cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize log file (%s): %v\n", cfg.LogPath, err)
	} else {
		defer logFile.Close()
	}
	eventLog, eventCloser := setupEventLog(cfg.EventLogPath)
	if eventCloser != nil {
		defer eventCloser.Close()
	}

	if len(rest) > 0 {
		switch rest[0] {
		case "run":
			if err := runHeadless(cfg, eventLog, rest[1:], os.Stdout); err != nil {
				reportFailure(os.Stderr, "run", err)
				os.Exit(1)
			}
			return
		case "config":
			if err := runConfig(root, cfg, rest[1:], os.Stdout); err != nil {
				reportFailure(os.Stderr, "config", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Println(version)
			return
		}
	}

	runInteractive(cfg, eventLog)
}

// setupEventLog 为事件队列打开独立日志文件；path 为空或打开失败时返回 nil，
// 事件日志随之并入主日志。
func setupEventLog(path string) (*logger.LogEntry, io.Closer) {
	if path == "" {
		return nil, nil
	}
	entry, closer, _, err := logger.SetupComponentFile("eq", path)
	if err != nil {
		log.Warnf("failed to set up eq log file (%s): %v", path, err)
		return nil, nil
	}
	return entry, closer
}

// reportFailure 把子命令错误同时写到 stderr 与日志；主日志已重定向到文件，仅写日志用户看不到。
func reportFailure(stderr io.Writer, command string, err error) {
	fmt.Fprintf(stderr, "website-cli %s: %v\n", command, err)
	log.WithError(err).Errorf("%s failed", command)
}

func loadConfig(root rootArgs) (config.Config, error) {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if _, err := cfg.Delay(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runInteractive(cfg config.Config, eventLog *logger.LogEntry) {
	delay, _ := cfg.Delay()
	log.WithField("config", cfg.Source).Info("starting interactive session")
	res, err := tui.Run(tui.Options{
		InitialURL: cfg.InitialURL,
		Delay:      delay,
		AltScreen:  cfg.AltScreen,
		EventLog:   eventLog,
	})
	if err != nil {
		log.Fatalf("program exit: %v", err)
	}
	fmt.Printf("url=%s title=%q\n", res.State.URL, res.State.Title)
}
