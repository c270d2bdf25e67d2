package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/dayplanner/internal/cli"
	"github.com/julianstephens/dayplanner/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	model := tui.NewModel(tui.Options{
		Store:    ctx.Store,
		Location: ctx.Loc(),
		Now:      ctx.Now,
		Debounce: ctx.Config.Debounce(),
	})
	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if m, ok := final.(tui.Model); ok {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	} else if cerr := model.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}
