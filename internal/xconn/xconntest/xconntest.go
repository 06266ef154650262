// Package xconntest provides an in-memory xconn.Conn that records requests.
package xconntest

import (
	"fmt"
	"sync"

	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Request is one recorded request.
type Request struct {
	Name   string
	Window xproto.Window
	ID     uint32
	Mask   uint32
	Values []uint32
	Rects  []xproto.Rectangle
	Text   string
	X, Y   int16
	Src    xproto.Drawable
	Dst    xproto.Drawable
}

func (r Request) String() string {
	return fmt.Sprintf("%s(%d)", r.Name, r.ID)
}

// Conn is a fake connection with a single screen.
//
// Events queued with Push are returned by WaitForEvent in order; once the
// queue is empty WaitForEvent reports a closed connection, or blocks until
// Close if Hold is set.
type Conn struct {
	mu       sync.Mutex
	setup    *xproto.SetupInfo
	nextID   uint32
	keysyms  []xproto.Keysym
	perCode  byte
	events   []any
	Requests []Request

	// Errors injected for checked requests.
	ChangeWindowAttributesErr error
	GrabKeyErr                error
	MappingErr                error
	OpenFontErr               error

	Ascent, Descent int16
	Closed          bool
	Hold            bool

	closedC chan struct{}
}

var _ xconn.Conn = (*Conn)(nil)

// Root is the root window of the fake screen.
const Root xproto.Window = 0x100

// New returns a fake whose keyboard maps keycode min+i to keysyms[i].
func New(min xproto.Keycode, keysyms ...xproto.Keysym) *Conn {
	max := min
	if len(keysyms) > 0 {
		max = min + xproto.Keycode(len(keysyms)-1)
	} else {
		keysyms = []xproto.Keysym{0}
	}

	// Two keysyms per keycode, the second column is never used for lookups.
	mapping := make([]xproto.Keysym, 0, len(keysyms)*2)
	for _, sym := range keysyms {
		mapping = append(mapping, sym, 0xdead)
	}

	return &Conn{
		setup: &xproto.SetupInfo{
			MinKeycode: min,
			MaxKeycode: max,
			Roots: []xproto.ScreenInfo{{
				Root:           Root,
				RootDepth:      24,
				WidthInPixels:  1920,
				HeightInPixels: 1080,
				WhitePixel:     0xffffff,
				BlackPixel:     0,
			}},
		},
		nextID:  0x200000,
		keysyms: mapping,
		perCode: 2,
		Ascent:  11,
		Descent: 2,
		closedC: make(chan struct{}),
	}
}

// Push queues events or xgb.Errors for WaitForEvent.
func (c *Conn) Push(evs ...any) {
	c.mu.Lock()
	c.events = append(c.events, evs...)
	c.mu.Unlock()
}

// Names returns the names of the recorded requests.
func (c *Conn) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, len(c.Requests))
	for i, r := range c.Requests {
		names[i] = r.Name
	}
	return names
}

// Find returns the recorded requests with the given name.
func (c *Conn) Find(name string) []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	var found []Request
	for _, r := range c.Requests {
		if r.Name == name {
			found = append(found, r)
		}
	}
	return found
}

// Reset forgets recorded requests.
func (c *Conn) Reset() {
	c.mu.Lock()
	c.Requests = nil
	c.mu.Unlock()
}

func (c *Conn) record(r Request) {
	c.mu.Lock()
	c.Requests = append(c.Requests, r)
	c.mu.Unlock()
}

func (c *Conn) Setup() *xproto.SetupInfo { return c.setup }

func (c *Conn) DefaultScreen() *xproto.ScreenInfo { return &c.setup.Roots[0] }

func (c *Conn) NewID() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return c.nextID, nil
}

func (c *Conn) GetKeyboardMapping(first xproto.Keycode, count byte) (*xproto.GetKeyboardMappingReply, error) {
	if c.MappingErr != nil {
		return nil, c.MappingErr
	}
	return &xproto.GetKeyboardMappingReply{
		KeysymsPerKeycode: c.perCode,
		Keysyms:           c.keysyms,
	}, nil
}

func (c *Conn) ChangeWindowAttributes(w xproto.Window, mask uint32, values []uint32) error {
	c.record(Request{Name: "ChangeWindowAttributes", Window: w, Mask: mask, Values: values})
	return c.ChangeWindowAttributesErr
}

func (c *Conn) GrabKey(mods uint16, key xproto.Keycode, w xproto.Window) error {
	c.record(Request{Name: "GrabKey", Window: w, ID: uint32(key), Mask: uint32(mods)})
	return c.GrabKeyErr
}

func (c *Conn) UngrabKey(mods uint16, key xproto.Keycode, w xproto.Window) {
	c.record(Request{Name: "UngrabKey", Window: w, ID: uint32(key), Mask: uint32(mods)})
}

func (c *Conn) MapWindow(w xproto.Window) {
	c.record(Request{Name: "MapWindow", Window: w})
}

func (c *Conn) ConfigureWindow(w xproto.Window, mask uint16, values []uint32) {
	c.record(Request{Name: "ConfigureWindow", Window: w, Mask: uint32(mask), Values: values})
}

func (c *Conn) OpenFont(fid xproto.Font, name string) error {
	c.record(Request{Name: "OpenFont", ID: uint32(fid), Text: name})
	return c.OpenFontErr
}

func (c *Conn) QueryFont(fid xproto.Font) (int16, int16, error) {
	c.record(Request{Name: "QueryFont", ID: uint32(fid)})
	return c.Ascent, c.Descent, nil
}

func (c *Conn) CloseFont(fid xproto.Font) {
	c.record(Request{Name: "CloseFont", ID: uint32(fid)})
}

func (c *Conn) CreateGlyphCursor(cid xproto.Cursor, font xproto.Font, char uint16) error {
	c.record(Request{Name: "CreateGlyphCursor", ID: uint32(cid), Values: []uint32{uint32(font), uint32(char)}})
	return nil
}

func (c *Conn) FreeCursor(cid xproto.Cursor) {
	c.record(Request{Name: "FreeCursor", ID: uint32(cid)})
}

func (c *Conn) CreatePixmap(depth byte, pid xproto.Pixmap, d xproto.Drawable, width, height uint16) {
	c.record(Request{Name: "CreatePixmap", ID: uint32(pid), Dst: d, Values: []uint32{uint32(depth), uint32(width), uint32(height)}})
}

func (c *Conn) FreePixmap(pid xproto.Pixmap) {
	c.record(Request{Name: "FreePixmap", ID: uint32(pid)})
}

func (c *Conn) CreateGC(gc xproto.Gcontext, d xproto.Drawable, mask uint32, values []uint32) {
	c.record(Request{Name: "CreateGC", ID: uint32(gc), Dst: d, Mask: mask, Values: values})
}

func (c *Conn) ChangeGC(gc xproto.Gcontext, mask uint32, values []uint32) {
	c.record(Request{Name: "ChangeGC", ID: uint32(gc), Mask: mask, Values: values})
}

func (c *Conn) FreeGC(gc xproto.Gcontext) {
	c.record(Request{Name: "FreeGC", ID: uint32(gc)})
}

func (c *Conn) PolyFillRectangle(d xproto.Drawable, gc xproto.Gcontext, rects []xproto.Rectangle) {
	c.record(Request{Name: "PolyFillRectangle", ID: uint32(gc), Dst: d, Rects: rects})
}

func (c *Conn) ImageText8(d xproto.Drawable, gc xproto.Gcontext, x, y int16, text string) {
	c.record(Request{Name: "ImageText8", ID: uint32(gc), Dst: d, X: x, Y: y, Text: text})
}

func (c *Conn) CopyArea(src, dst xproto.Drawable, gc xproto.Gcontext, srcX, srcY, dstX, dstY int16, width, height uint16) {
	c.record(Request{
		Name: "CopyArea", ID: uint32(gc), Src: src, Dst: dst, X: dstX, Y: dstY,
		Values: []uint32{uint32(srcX), uint32(srcY), uint32(width), uint32(height)},
	})
}

func (c *Conn) WaitForEvent() (xgb.Event, xgb.Error) {
	c.mu.Lock()
	if len(c.events) == 0 {
		hold := c.Hold && !c.Closed
		c.mu.Unlock()
		if hold {
			<-c.closedC
		}
		return nil, nil
	}
	defer c.mu.Unlock()
	next := c.events[0]
	c.events = c.events[1:]
	switch v := next.(type) {
	case xgb.Error:
		return nil, v
	case xgb.Event:
		return v, nil
	}
	panic(fmt.Sprintf("xconntest: cannot deliver %T", next))
}

func (c *Conn) Flush() {
	c.record(Request{Name: "Flush"})
}

func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.Closed {
		c.Closed = true
		close(c.closedC)
	}
}
