// Package decoration draws the window manager's own overlay into an
// off-screen pixmap that is copied onto the root window on expose.
package decoration

import (
	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/jezek/xgb/xproto"
)

type Rect struct {
	X int16
	Y int16
	W uint16
	H uint16
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.W == 0 || r.H == 0 || o.W == 0 || o.H == 0 {
		return false
	}
	return int(r.X) < int(o.X)+int(o.W) &&
		int(o.X) < int(r.X)+int(r.W) &&
		int(r.Y) < int(o.Y)+int(o.H) &&
		int(o.Y) < int(r.Y)+int(r.H)
}

// Decoration is a pixmap and graphics context positioned at Rect on the root
// window. Drawing only touches the pixmap; Expose makes it visible.
type Decoration struct {
	conn   xconn.Conn
	root   xproto.Window
	rect   Rect
	pixmap xproto.Pixmap
	gc     xproto.Gcontext
	closed bool
}

func New(conn xconn.Conn, screen *xproto.ScreenInfo, rect Rect) (*Decoration, error) {
	pid, err := conn.NewID()
	if err != nil {
		return nil, err
	}
	pixmap := xproto.Pixmap(pid)
	conn.CreatePixmap(screen.RootDepth, pixmap, xproto.Drawable(screen.Root), rect.W, rect.H)

	gid, err := conn.NewID()
	if err != nil {
		conn.FreePixmap(pixmap)
		return nil, err
	}
	gc := xproto.Gcontext(gid)
	conn.CreateGC(gc, xproto.Drawable(pixmap), xproto.GcGraphicsExposures, []uint32{0})

	return &Decoration{
		conn:   conn,
		root:   screen.Root,
		rect:   rect,
		pixmap: pixmap,
		gc:     gc,
	}, nil
}

func (d *Decoration) Rect() Rect {
	return d.rect
}

// DrawRect fills r, relative to the decoration, with color.
func (d *Decoration) DrawRect(r Rect, color uint32) {
	d.conn.ChangeGC(d.gc, xproto.GcForeground, []uint32{color})
	d.conn.PolyFillRectangle(xproto.Drawable(d.pixmap), d.gc, []xproto.Rectangle{{
		X:      r.X,
		Y:      r.Y,
		Width:  r.W,
		Height: r.H,
	}})
}

// DrawText draws text with its top-left corner at (x, y). Text longer than a
// single ImageText8 request allows is truncated.
func (d *Decoration) DrawText(x, y int16, text string, font *Font, fg, bg uint32) {
	if len(text) > 255 {
		text = text[:255]
	}
	d.conn.ChangeGC(d.gc, xproto.GcForeground|xproto.GcBackground|xproto.GcFont, []uint32{fg, bg, uint32(font.ID())})
	d.conn.ImageText8(xproto.Drawable(d.pixmap), d.gc, x, y+font.Ascent, text)
}

// Expose copies the pixmap onto the root window.
func (d *Decoration) Expose() {
	d.conn.CopyArea(xproto.Drawable(d.pixmap), xproto.Drawable(d.root), d.gc,
		0, 0,
		d.rect.X, d.rect.Y, d.rect.W, d.rect.H)
}

func (d *Decoration) Close() {
	if d == nil || d.closed {
		return
	}
	d.closed = true
	d.conn.FreePixmap(d.pixmap)
	d.conn.FreeGC(d.gc)
}
