package client

import (
	"fmt"
	"io"
)

// BellPlayer rings the terminal bell, the closest a console client gets to
// the portal's muted notification chime.
type BellPlayer struct {
	Out io.Writer
}

func (p *BellPlayer) Play() error {
	if p.Out == nil {
		return fmt.Errorf("no output configured")
	}
	_, err := fmt.Fprint(p.Out, "\a")
	return err
}

// NopPlayer is a silent Player.
type NopPlayer struct{}

func (NopPlayer) Play() error { return nil }
