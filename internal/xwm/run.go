package xwm

import (
	"context"
	"log/slog"

	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/jezek/xgb"
)

// Run dispatches events in the order the server sends them until an action
// quits, ctx is done or the connection closes.
func (w *WM) Run(ctx context.Context, commands <-chan Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eventC := make(chan any)
	go ReceiveEvents(ctx, w.conn, eventC)

	for !w.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-commands:
			slog.Debug("Command", "package", "xwm", "command", cmd.String())
			switch cmd {
			case CommandQuit:
				w.Quit()
			case CommandReload:
				w.reload()
			}
		case ev, ok := <-eventC:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrConnectionClosed
			}

			switch ev := ev.(type) {
			case xgb.Error:
				slog.Error("X protocol error", "package", "xwm", "error", ev.Error())
			case xgb.Event:
				w.Handle(ev)
			}
		}
	}

	slog.Info("Quit", "package", "xwm")
	return nil
}

// ReceiveEvents sends every event and protocol error on eventC. eventC is
// closed when the connection is gone.
func ReceiveEvents(ctx context.Context, conn xconn.Conn, eventC chan<- any) {
	defer close(eventC)
	slog := slog.With("func", "xwm.ReceiveEvents")

	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}

		var item any = ev
		if err != nil {
			item = err
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- item:
		}
	}
}
