package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"cratedig/internal/domain"
	"cratedig/internal/resolver"
)

// artResolvedMsg carries one finished artwork resolution. The result is
// applied to the record inside Update so record fields are only ever written
// on the program loop that also renders them.
type artResolvedMsg struct {
	rec *domain.Record
	res resolver.Result
}

// listenArt waits for the next artwork resolution.
func listenArt(ch <-chan artResolvedMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
