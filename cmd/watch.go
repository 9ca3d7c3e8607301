package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"grimm.is/netdevd/internal/client"
	"grimm.is/netdevd/internal/logging"
	"grimm.is/netdevd/internal/tui"
)

// RunWatch opens the interactive device monitor against a running daemon.
func RunWatch(addr string) error {
	c := client.NewHTTPClient(addr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := make(chan client.Event, 64)
	go func() {
		defer close(stream)
		err := c.WatchEvents(ctx, nil, func(e client.Event) {
			select {
			case stream <- e:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			logging.Debug("event stream ended", "error", err)
		}
	}()

	p := tea.NewProgram(tui.NewModel(c, stream), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
