// Package monitor renders a small live terminal view of the running
// pipeline: tracks, mix weights, effect counts, and the bar clock.
package monitor

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/mielpeeters/breaker/parameter"
	"github.com/mielpeeters/breaker/pipeline"
)

const refreshInterval = 100 * time.Millisecond

// Run displays the monitor until q or Escape is pressed. It only reads
// pipeline snapshots; the producer and watcher are unaffected.
func Run(p *pipeline.Pipeline) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 8)
	quit := make(chan struct{})
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
					close(quit)
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			draw(screen, p.Snapshot())
		}
	}
}

func draw(screen tcell.Screen, snap pipeline.Snapshot) {
	screen.Clear()

	head := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	puts(screen, 0, 0, head, "breaker")

	bar := uint64(0)
	phrase := uint64(0)
	if snap.BarLength > 0 {
		bar = snap.Time / snap.BarLength
		phrase = bar % parameter.SwapBars
	}
	puts(screen, 0, 1, dim, fmt.Sprintf("bar %d  phrase %d/%d  clock %d",
		bar, phrase+1, parameter.SwapBars, snap.Time))

	if snap.Pending {
		puts(screen, 0, 2, head, "reload pending, swapping at phrase boundary")
	}

	row := 4
	puts(screen, 0, row, head, fmt.Sprintf("%-16s %8s %8s", "track", "mix", "effects"))
	row++
	for _, track := range snap.Tracks {
		puts(screen, 0, row, tcell.StyleDefault,
			fmt.Sprintf("%-16s %8.3f %8d", track.Name, track.Mix, track.Effects))
		row++
	}

	puts(screen, 0, row+1, dim, "q to quit")
	screen.Show()
}

func puts(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
