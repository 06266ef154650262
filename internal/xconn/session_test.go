package xconn_test

import (
	"errors"
	"testing"

	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/ItsNotGoodName/mwm/internal/xconn/xconntest"
	"github.com/jezek/xgb/xproto"
)

func TestNewSession(t *testing.T) {
	conn := xconntest.New(8, 'a', 'b', keysym.XK_Return)

	s, err := xconn.NewSession(conn)
	if err != nil {
		t.Fatal(err)
	}

	if s.Root() != xconntest.Root {
		t.Errorf("Root() = %d, want %d", s.Root(), xconntest.Root)
	}
	if got := s.KeycodeToKeysym(10); got != keysym.XK_Return {
		t.Errorf("KeycodeToKeysym(10) = 0x%x", got)
	}
	if code, ok := s.KeysymToKeycode('b'); !ok || code != 9 {
		t.Errorf("KeysymToKeycode('b') = %d, %v", code, ok)
	}
}

func TestNewSessionMappingError(t *testing.T) {
	conn := xconntest.New(8, 'a')
	conn.MappingErr = errors.New("boom")

	if _, err := xconn.NewSession(conn); err == nil {
		t.Fatal("expected error")
	}
}

func TestBecomeWM(t *testing.T) {
	conn := xconntest.New(8, 'a')
	s, err := xconn.NewSession(conn)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.BecomeWM(42); err != nil {
		t.Fatal(err)
	}

	reqs := conn.Find("ChangeWindowAttributes")
	if len(reqs) != 1 {
		t.Fatalf("got %d ChangeWindowAttributes, want 1", len(reqs))
	}
	req := reqs[0]
	if req.Window != xconntest.Root {
		t.Errorf("window = %d, want root", req.Window)
	}
	if req.Mask != xproto.CwEventMask|xproto.CwCursor {
		t.Errorf("mask = %b", req.Mask)
	}
	if req.Values[0] != xconn.RootEventMask || req.Values[1] != 42 {
		t.Errorf("values = %v", req.Values)
	}
}

func TestBecomeWMAccessDenied(t *testing.T) {
	conn := xconntest.New(8, 'a')
	conn.ChangeWindowAttributesErr = xproto.AccessError{}
	s, err := xconn.NewSession(conn)
	if err != nil {
		t.Fatal(err)
	}

	err = s.BecomeWM(0)
	if !errors.Is(err, xconn.ErrAccessDenied) {
		t.Errorf("err = %v, want ErrAccessDenied", err)
	}

	conn.ChangeWindowAttributesErr = xproto.WindowError{}
	err = s.BecomeWM(0)
	if err == nil || errors.Is(err, xconn.ErrAccessDenied) {
		t.Errorf("err = %v, want other error", err)
	}
}

func TestGrabKeys(t *testing.T) {
	conn := xconntest.New(8, 'a', 'p', keysym.XK_Return)
	s, err := xconn.NewSession(conn)
	if err != nil {
		t.Fatal(err)
	}

	grabs := []xconn.Grab{
		{Mods: xproto.ModMask1, Sym: keysym.XK_Return},
		{Mods: xproto.ModMask4, Sym: 'z'}, // no keycode, skipped
		{Mods: xproto.ModMaskShift, Sym: 'p'},
	}
	ignore := []uint16{0, xproto.ModMaskLock}

	if err := s.GrabKeys(grabs, ignore); err != nil {
		t.Fatal(err)
	}

	names := conn.Names()
	if names[0] != "UngrabKey" {
		t.Errorf("first request = %s, want UngrabKey", names[0])
	}
	ungrab := conn.Find("UngrabKey")[0]
	if ungrab.ID != xproto.GrabAny || ungrab.Mask != xproto.ModMaskAny {
		t.Errorf("ungrab = %+v", ungrab)
	}

	got := conn.Find("GrabKey")
	want := []struct {
		code uint32
		mods uint32
	}{
		{10, xproto.ModMask1},
		{10, xproto.ModMask1 | xproto.ModMaskLock},
		{9, xproto.ModMaskShift},
		{9, xproto.ModMaskShift | xproto.ModMaskLock},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d grabs, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].code || got[i].Mask != want[i].mods {
			t.Errorf("grab %d = (%d, %b), want (%d, %b)", i, got[i].ID, got[i].Mask, want[i].code, want[i].mods)
		}
	}
}

func TestGrabKeysFatalError(t *testing.T) {
	conn := xconntest.New(8, 'a')
	conn.GrabKeyErr = xproto.AllocError{}
	s, err := xconn.NewSession(conn)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.GrabKeys([]xconn.Grab{{Sym: 'a'}}, []uint16{0}); err == nil {
		t.Error("expected error")
	}

	conn.GrabKeyErr = xproto.AccessError{}
	if err := s.GrabKeys([]xconn.Grab{{Sym: 'a'}}, []uint16{0}); err != nil {
		t.Errorf("access error should be skipped, got %v", err)
	}
}
