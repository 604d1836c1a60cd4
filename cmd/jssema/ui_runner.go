package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"jssema/internal/driver"
	"jssema/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI runs the driver while a progress view follows its events on
// stderr.
func runWithUI(ctx context.Context, title string, files, paths []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, paths, opts)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
