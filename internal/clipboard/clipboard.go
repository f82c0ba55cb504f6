// Package clipboard copies text to the user's clipboard from a terminal.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/fiscal-auditor/adminctl/internal/notify"
)

const (
	copiedMessage = "Copiado para a área de transferência"
	failedMessage = "Erro ao copiar"
)

var ErrNoCopier = errors.New("clipboard: no copier configured")

// Copier writes text to a clipboard.
type Copier interface {
	Copy(ctx context.Context, text string) error
}

// OSC52 copies by emitting an OSC 52 escape sequence, which most terminal
// emulators (and tmux/screen when configured) forward to the system clipboard.
type OSC52 struct {
	Out  io.Writer
	Mode osc52.Mode
}

// NewOSC52 writes sequences to stderr, leaving stdout to the program.
func NewOSC52() *OSC52 {
	mode := osc52.DefaultMode
	switch {
	case os.Getenv("TMUX") != "":
		mode = osc52.TmuxMode
	case os.Getenv("STY") != "":
		mode = osc52.ScreenMode
	}
	return &OSC52{Out: os.Stderr, Mode: mode}
}

func (c *OSC52) Copy(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.Out == nil {
		return ErrNoCopier
	}
	seq := osc52.New(text).Mode(c.Mode)
	if _, err := seq.WriteTo(c.Out); err != nil {
		return fmt.Errorf("clipboard: write osc52: %w", err)
	}
	return nil
}

// Copy writes text with c and reports the result through n. It never returns
// an error or panics; a nil copier counts as a failure.
func Copy(ctx context.Context, c Copier, text string, n notify.Notifier) {
	err := safeCopy(ctx, c, text)
	if n == nil {
		return
	}
	if err != nil {
		slog.Warn("clipboard copy failed", "err", err)
		n.Notify(failedMessage, notify.Error)
		return
	}
	n.Notify(copiedMessage, notify.Success)
}

func safeCopy(ctx context.Context, c Copier, text string) (err error) {
	if c == nil {
		return ErrNoCopier
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipboard: %v", r)
		}
	}()
	return c.Copy(ctx, text)
}
