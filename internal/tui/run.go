package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// programExecutor posts coordinator callbacks to a running bubbletea program,
// so they execute on its event loop.
type programExecutor struct {
	program *tea.Program
}

func (e *programExecutor) Post(fn func()) {
	e.program.Send(callbackMsg{fn: fn})
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	executor := &programExecutor{}

	program := tea.NewProgram(
		newModel(ctx, opts, executor),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	executor.program = program

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return err
	}

	return nil
}
