package tui

import (
	"github.com/PizzaHomicide/playstate/internal/player"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/models"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the playback TUI until the user quits or the backend exits
func Run(session *player.Session, startIndex int) error {
	p := tea.NewProgram(models.NewAppModel(session, startIndex), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
