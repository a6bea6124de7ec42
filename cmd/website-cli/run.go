package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"website-cli/internal/config"
	"website-cli/internal/logger"
	"website-cli/internal/uiloop"
	"website-cli/internal/website"
)

// runHeadless 在 uiloop 上驱动控制器：按间隔切换 url，打印每次属性写入，
// 最后一次切换之后没有在途抓取时退出。eventLog 可为空。
func runHeadless(cfg config.Config, eventLog *logger.LogEntry, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var toggles int
	var interval time.Duration
	var timeout time.Duration
	fs.IntVar(&toggles, "toggles", 1, "Number of url toggles to issue")
	fs.DurationVar(&interval, "interval", 0, "Delay between toggles (shorter than fetch_delay to exercise skipping)")
	fs.DurationVar(&timeout, "timeout", 30*time.Second, "Abort if the run takes longer than this")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if toggles < 0 {
		return errors.New("toggles must not be negative")
	}
	delay, err := cfg.Delay()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	loop := uiloop.New(nil)
	controller := website.New(website.Options{
		Requester:  loop,
		Delay:      delay,
		InitialURL: cfg.InitialURL,
		EventLog:   eventLog,
		Observer: func(p website.Property, s website.State) {
			switch p {
			case website.PropertyURL:
				fmt.Fprintf(out, "url: %s\n", s.URL)
			case website.PropertyTitle:
				fmt.Fprintf(out, "title: %s\n", s.Title)
			}
		},
	})

	// 只在循环 goroutine 上读写。
	issuedAll := false
	finishIfIdle := func() {
		if issuedAll && !controller.Loading() {
			cancel()
		}
	}
	loop.SetOnUpdate(func() {
		controller.OnUpdateRequested()
		finishIfIdle()
	})

	go func() {
		for i := 0; i < toggles; i++ {
			if i > 0 && interval > 0 {
				select {
				case <-time.After(interval):
				case <-ctx.Done():
					return
				}
			}
			if err := loop.Post(controller.ToggleURL); err != nil {
				return
			}
		}
		_ = loop.Post(func() {
			issuedAll = true
			finishIfIdle()
		})
	}()

	err = loop.Run(ctx)
	controller.Close()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s", timeout)
	}
	fmt.Fprintf(out, "final: url=%s title=%q\n", controller.State().URL, controller.State().Title)
	return nil
}
