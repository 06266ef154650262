package decoration

import (
	"fmt"

	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/jezek/xgb/xproto"
)

// Font is an opened core font with its metrics queried once.
type Font struct {
	conn    xconn.Conn
	id      xproto.Font
	Ascent  int16
	Descent int16
	closed  bool
}

func OpenFont(conn xconn.Conn, name string) (*Font, error) {
	id, err := conn.NewID()
	if err != nil {
		return nil, err
	}
	fid := xproto.Font(id)

	if err := conn.OpenFont(fid, name); err != nil {
		return nil, fmt.Errorf("failed to open font %q: %w", name, err)
	}

	ascent, descent, err := conn.QueryFont(fid)
	if err != nil {
		conn.CloseFont(fid)
		return nil, fmt.Errorf("failed to query font %q: %w", name, err)
	}

	return &Font{
		conn:    conn,
		id:      fid,
		Ascent:  ascent,
		Descent: descent,
	}, nil
}

func (f *Font) ID() xproto.Font {
	return f.id
}

func (f *Font) Close() {
	if f == nil || f.closed {
		return
	}
	f.closed = true
	f.conn.CloseFont(f.id)
}
