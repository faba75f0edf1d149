package client

import (
	"fmt"
	"io"
	"sync"

	"campus-portal/internal/models"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiBlue   = "\033[34m"
	ansiYellow = "\033[33m"
	ansiGray   = "\033[90m"
)

type style struct {
	glyph string
	color string
}

// styleFor maps a notification type to its visual tag. Unrecognized types
// fall back to the neutral bell.
func styleFor(t models.NotificationType) style {
	switch t {
	case models.NotificationSuccess:
		return style{glyph: "✔", color: ansiGreen}
	case models.NotificationError:
		return style{glyph: "✖", color: ansiRed}
	case models.NotificationInfo:
		return style{glyph: "ℹ", color: ansiBlue}
	case models.NotificationWarning:
		return style{glyph: "⚠", color: ansiYellow}
	default:
		return style{glyph: "🔔", color: ansiGray}
	}
}

// Renderer projects the store's toast stack onto a terminal. It holds no
// state of its own beyond the output writer.
type Renderer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render draws the current stack, newest on top. Meant to be passed as the
// store's onChange callback.
func (r *Renderer) Render(toasts []Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(toasts) == 0 {
		fmt.Fprintln(r.out, ansiGray+"(no active notifications)"+ansiReset)
		return
	}

	for _, t := range toasts {
		st := styleFor(t.Type)
		fmt.Fprintf(r.out, "%s%s %s%s [%s] %s\n", st.color, st.glyph, t.Title, ansiReset,
			t.ReceivedAt.Format("15:04:05"), t.Message)
		if t.Link != "" {
			fmt.Fprintf(r.out, "  %s%s%s\n", ansiGray, t.Link, ansiReset)
		}
	}
}
