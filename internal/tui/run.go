package tui

import (
	"errors"

	"website-cli/internal/website"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回 TUI 退出时的最终状态。
type Result struct {
	State website.State
}

// Run 封装 Bubble Tea 入口。退出后关闭控制器并等待在途 worker。
func Run(opts Options) (Result, error) {
	programOptions := []tea.ProgramOption{}
	if opts.AltScreen {
		programOptions = append(programOptions, tea.WithAltScreen())
	}
	model := New(opts)
	program := tea.NewProgram(model, programOptions...)
	if opts.Requester == nil {
		model.Controller().SetRequester(ProgramRequester{Program: program})
	}

	final, err := program.Run()
	model.Controller().Close()
	if err != nil {
		return Result{}, err
	}
	tuiModel, ok := final.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	return Result{State: tuiModel.Controller().State()}, nil
}
