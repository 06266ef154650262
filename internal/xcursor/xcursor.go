// xcursor creates glyph cursors from the core "cursor" font.
// Shapes are from https://github.com/BurntSushi/xgbutil/blob/master/xcursor/xcursor.go
package xcursor

import (
	"fmt"

	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/jezek/xgb/xproto"
)

const (
	XCursor   = 0
	Arrow     = 2
	Cross     = 30
	Crosshair = 34
	Fleur     = 52
	Hand1     = 58
	Hand2     = 60
	LeftPtr   = 68
	Sizing    = 120
	Watch     = 150
	XTerm     = 152
)

// Cursor owns a server-side cursor and the font it was created from.
type Cursor struct {
	conn   xconn.Conn
	font   xproto.Font
	cursor xproto.Cursor
	closed bool
}

// Create opens the cursor font and creates the glyph cursor for shape.
func Create(conn xconn.Conn, shape uint16) (*Cursor, error) {
	fontID, err := conn.NewID()
	if err != nil {
		return nil, err
	}
	font := xproto.Font(fontID)

	if err := conn.OpenFont(font, "cursor"); err != nil {
		return nil, fmt.Errorf("failed to open cursor font: %w", err)
	}

	cursorID, err := conn.NewID()
	if err != nil {
		conn.CloseFont(font)
		return nil, err
	}
	cursor := xproto.Cursor(cursorID)

	if err := conn.CreateGlyphCursor(cursor, font, shape); err != nil {
		conn.CloseFont(font)
		return nil, fmt.Errorf("failed to create cursor %d: %w", shape, err)
	}

	return &Cursor{
		conn:   conn,
		font:   font,
		cursor: cursor,
	}, nil
}

func (c *Cursor) ID() xproto.Cursor {
	return c.cursor
}

// Close frees the cursor and its font. Only the first call has an effect.
func (c *Cursor) Close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	c.conn.FreeCursor(c.cursor)
	c.conn.CloseFont(c.font)
}
