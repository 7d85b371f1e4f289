package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"auralife/internal/engine"
)

func RunBoard(ctx context.Context, svc *engine.Service, profile engine.ProfileKey, out io.Writer) error {
	m := newBoardModel(ctx, svc, profile)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
