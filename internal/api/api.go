// Package api is the local HTTP control interface.
package api

import (
	"context"
	"net/http"

	"github.com/ItsNotGoodName/mwm/internal/build"
	"github.com/ItsNotGoodName/mwm/internal/bus"
	"github.com/ItsNotGoodName/mwm/internal/keysym"
	"github.com/ItsNotGoodName/mwm/internal/shortcut"
	"github.com/ItsNotGoodName/mwm/internal/xwm"
	"github.com/ItsNotGoodName/mwm/pkg/chiext"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	table    *shortcut.Table
	commands *bus.Hub[xwm.Command]
	spawn    func(argv []string) error
}

func New(table *shortcut.Table, commands *bus.Hub[xwm.Command], spawn func(argv []string) error) *Server {
	return &Server{
		table:    table,
		commands: commands,
		spawn:    spawn,
	}
}

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Use(middleware.Recoverer)

	api := humachi.New(r, huma.DefaultConfig("mwm", build.Current.Version))
	s.Register(api)

	return r
}

type Shortcut struct {
	Chord  string `json:"chord" doc:"Modifiers and key, e.g. Mod1+Return"`
	Mods   string `json:"mods"`
	Key    string `json:"key"`
	Action string `json:"action"`
}

type ShortcutsOutput struct {
	Body []Shortcut
}

type SpawnInput struct {
	Body struct {
		Argv []string `json:"argv" minItems:"1" doc:"Executable and arguments"`
	}
}

func (s *Server) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-shortcuts",
		Method:      http.MethodGet,
		Path:        "/v1/shortcuts",
		Summary:     "List shortcuts",
	}, s.listShortcuts)

	huma.Register(api, huma.Operation{
		OperationID:   "quit",
		Method:        http.MethodPost,
		Path:          "/v1/quit",
		Summary:       "Quit the window manager",
		DefaultStatus: http.StatusAccepted,
	}, s.command(xwm.CommandQuit))

	huma.Register(api, huma.Operation{
		OperationID:   "reload",
		Method:        http.MethodPost,
		Path:          "/v1/reload",
		Summary:       "Reload the script",
		DefaultStatus: http.StatusAccepted,
	}, s.command(xwm.CommandReload))

	huma.Register(api, huma.Operation{
		OperationID:   "spawn",
		Method:        http.MethodPost,
		Path:          "/v1/spawn",
		Summary:       "Spawn a detached process",
		DefaultStatus: http.StatusAccepted,
	}, s.spawnProcess)
}

func (s *Server) listShortcuts(ctx context.Context, input *struct{}) (*ShortcutsOutput, error) {
	bindings := s.table.Bindings()
	shortcuts := make([]Shortcut, 0, len(bindings))
	for _, b := range bindings {
		shortcuts = append(shortcuts, Shortcut{
			Chord:  b.Chord(),
			Mods:   b.Mods.String(),
			Key:    keysym.Name(b.Sym),
			Action: b.Action.String(),
		})
	}
	return &ShortcutsOutput{Body: shortcuts}, nil
}

func (s *Server) command(cmd xwm.Command) func(ctx context.Context, input *struct{}) (*struct{}, error) {
	return func(ctx context.Context, input *struct{}) (*struct{}, error) {
		if err := s.commands.Broadcast(ctx, cmd); err != nil {
			return nil, huma.Error503ServiceUnavailable("window manager is busy", err)
		}
		return nil, nil
	}
}

func (s *Server) spawnProcess(ctx context.Context, input *SpawnInput) (*struct{}, error) {
	if err := s.spawn(input.Body.Argv); err != nil {
		return nil, huma.Error422UnprocessableEntity("failed to spawn", err)
	}
	return nil, nil
}
