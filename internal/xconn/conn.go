package xconn

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Conn is the set of X requests the window manager issues.
//
// Methods returning an error are checked requests and wait for the server.
// The rest are fire-and-forget; their errors show up in WaitForEvent.
type Conn interface {
	Setup() *xproto.SetupInfo
	DefaultScreen() *xproto.ScreenInfo
	NewID() (uint32, error)
	GetKeyboardMapping(first xproto.Keycode, count byte) (*xproto.GetKeyboardMappingReply, error)

	ChangeWindowAttributes(w xproto.Window, mask uint32, values []uint32) error
	GrabKey(mods uint16, key xproto.Keycode, w xproto.Window) error
	UngrabKey(mods uint16, key xproto.Keycode, w xproto.Window)

	MapWindow(w xproto.Window)
	ConfigureWindow(w xproto.Window, mask uint16, values []uint32)

	OpenFont(fid xproto.Font, name string) error
	QueryFont(fid xproto.Font) (ascent, descent int16, err error)
	CloseFont(fid xproto.Font)
	CreateGlyphCursor(cid xproto.Cursor, font xproto.Font, char uint16) error
	FreeCursor(cid xproto.Cursor)

	CreatePixmap(depth byte, pid xproto.Pixmap, d xproto.Drawable, width, height uint16)
	FreePixmap(pid xproto.Pixmap)
	CreateGC(gc xproto.Gcontext, d xproto.Drawable, mask uint32, values []uint32)
	ChangeGC(gc xproto.Gcontext, mask uint32, values []uint32)
	FreeGC(gc xproto.Gcontext)
	PolyFillRectangle(d xproto.Drawable, gc xproto.Gcontext, rects []xproto.Rectangle)
	ImageText8(d xproto.Drawable, gc xproto.Gcontext, x, y int16, text string)
	CopyArea(src, dst xproto.Drawable, gc xproto.Gcontext, srcX, srcY, dstX, dstY int16, width, height uint16)

	// WaitForEvent either returns an event or an error and never both.
	// Both nil means the connection is gone.
	WaitForEvent() (xgb.Event, xgb.Error)
	Flush()
	Close()
}

// Dial connects to the display named by $DISPLAY.
func Dial() (Conn, error) {
	c, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	return xgbConn{c}, nil
}

type xgbConn struct {
	c *xgb.Conn
}

var _ Conn = xgbConn{}

func (x xgbConn) Setup() *xproto.SetupInfo {
	return xproto.Setup(x.c)
}

func (x xgbConn) DefaultScreen() *xproto.ScreenInfo {
	return xproto.Setup(x.c).DefaultScreen(x.c)
}

func (x xgbConn) NewID() (uint32, error) {
	return x.c.NewId()
}

func (x xgbConn) GetKeyboardMapping(first xproto.Keycode, count byte) (*xproto.GetKeyboardMappingReply, error) {
	return xproto.GetKeyboardMapping(x.c, first, count).Reply()
}

func (x xgbConn) ChangeWindowAttributes(w xproto.Window, mask uint32, values []uint32) error {
	return xproto.ChangeWindowAttributesChecked(x.c, w, mask, values).Check()
}

func (x xgbConn) GrabKey(mods uint16, key xproto.Keycode, w xproto.Window) error {
	return xproto.GrabKeyChecked(x.c, true, w, mods, key, xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
}

func (x xgbConn) UngrabKey(mods uint16, key xproto.Keycode, w xproto.Window) {
	xproto.UngrabKey(x.c, key, w, mods)
}

func (x xgbConn) MapWindow(w xproto.Window) {
	xproto.MapWindow(x.c, w)
}

func (x xgbConn) ConfigureWindow(w xproto.Window, mask uint16, values []uint32) {
	xproto.ConfigureWindow(x.c, w, mask, values)
}

func (x xgbConn) OpenFont(fid xproto.Font, name string) error {
	return xproto.OpenFontChecked(x.c, fid, uint16(len(name)), name).Check()
}

func (x xgbConn) QueryFont(fid xproto.Font) (int16, int16, error) {
	reply, err := xproto.QueryFont(x.c, xproto.Fontable(fid)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return reply.FontAscent, reply.FontDescent, nil
}

func (x xgbConn) CloseFont(fid xproto.Font) {
	xproto.CloseFont(x.c, fid)
}

func (x xgbConn) CreateGlyphCursor(cid xproto.Cursor, font xproto.Font, char uint16) error {
	return xproto.CreateGlyphCursorChecked(x.c, cid, font, font,
		char, char+1,
		0, 0, 0,
		0xffff, 0xffff, 0xffff).Check()
}

func (x xgbConn) FreeCursor(cid xproto.Cursor) {
	xproto.FreeCursor(x.c, cid)
}

func (x xgbConn) CreatePixmap(depth byte, pid xproto.Pixmap, d xproto.Drawable, width, height uint16) {
	xproto.CreatePixmap(x.c, depth, pid, d, width, height)
}

func (x xgbConn) FreePixmap(pid xproto.Pixmap) {
	xproto.FreePixmap(x.c, pid)
}

func (x xgbConn) CreateGC(gc xproto.Gcontext, d xproto.Drawable, mask uint32, values []uint32) {
	xproto.CreateGC(x.c, gc, d, mask, values)
}

func (x xgbConn) ChangeGC(gc xproto.Gcontext, mask uint32, values []uint32) {
	xproto.ChangeGC(x.c, gc, mask, values)
}

func (x xgbConn) FreeGC(gc xproto.Gcontext) {
	xproto.FreeGC(x.c, gc)
}

func (x xgbConn) PolyFillRectangle(d xproto.Drawable, gc xproto.Gcontext, rects []xproto.Rectangle) {
	xproto.PolyFillRectangle(x.c, d, gc, rects)
}

func (x xgbConn) ImageText8(d xproto.Drawable, gc xproto.Gcontext, x0, y0 int16, text string) {
	xproto.ImageText8(x.c, byte(len(text)), d, gc, x0, y0, text)
}

func (x xgbConn) CopyArea(src, dst xproto.Drawable, gc xproto.Gcontext, srcX, srcY, dstX, dstY int16, width, height uint16) {
	xproto.CopyArea(x.c, src, dst, gc, srcX, srcY, dstX, dstY, width, height)
}

func (x xgbConn) WaitForEvent() (xgb.Event, xgb.Error) {
	return x.c.WaitForEvent()
}

// Flush waits for the server to process every request sent so far.
func (x xgbConn) Flush() {
	x.c.Sync()
}

func (x xgbConn) Close() {
	x.c.Close()
}
