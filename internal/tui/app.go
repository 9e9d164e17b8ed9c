package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
)

// Run starts the live watch view, streaming Switchmate advertisements
// for the given window. Quitting the view cancels the scan.
func Run(ctx context.Context, t ble.Transport, duration time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	adverts := make(chan ble.Advertisement, 16)
	scanErr := make(chan error, 1)

	scanner := ble.NewScanner(t)
	go func() {
		scanErr <- scanner.Watch(ctx, duration, func(adv ble.Advertisement) {
			select {
			case adverts <- adv:
			case <-ctx.Done():
			}
		})
		close(adverts)
	}()

	p := tea.NewProgram(NewModel(adverts), tea.WithAltScreen())
	_, err := p.Run()
	cancel()

	if werr := <-scanErr; werr != nil && err == nil {
		return werr
	}
	return err
}
