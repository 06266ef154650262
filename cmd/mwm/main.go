package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ItsNotGoodName/mwm/internal/api"
	"github.com/ItsNotGoodName/mwm/internal/build"
	"github.com/ItsNotGoodName/mwm/internal/bus"
	"github.com/ItsNotGoodName/mwm/internal/config"
	"github.com/ItsNotGoodName/mwm/internal/core"
	"github.com/ItsNotGoodName/mwm/internal/spawn"
	"github.com/ItsNotGoodName/mwm/internal/watch"
	"github.com/ItsNotGoodName/mwm/internal/xconn"
	"github.com/ItsNotGoodName/mwm/internal/xwm"
	"github.com/ItsNotGoodName/mwm/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/k0kubun/pp"
	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"
)

type Options struct {
	Debug  bool   `doc:"enable debug"`
	Config string `doc:"config file, defaults to $XDG_CONFIG_HOME/mwm/config.yaml"`
	Script string `doc:"lua script, overrides the config file"`
	Watch  bool   `doc:"reload the script when it changes"`
	Host   string `doc:"host for the control api" default:"127.0.0.1"`
	Port   int    `doc:"port for the control api, 0 disables it" default:"0"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		InitLogger(options.Debug)

		OnServe(hooks, func(ctx context.Context) error {
			return serve(ctx, options)
		})
	})

	cli.Root().Use = "mwm"
	cli.Root().Short = "Minimal X11 window manager"
	cli.Root().Version = build.Current.String()

	cli.Root().AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check the config file and script without connecting to X",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, options *Options) {
			InitLogger(options.Debug)
			if err := check(options); err != nil {
				slog.Error("Check failed", "error", err)
				os.Exit(1)
			}
		}),
	})

	cli.Run()
}

func InitLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Fatal error", "error", err)
				os.Exit(1)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}

// resolvePaths returns the config and script paths.
func resolvePaths(options *Options) (string, string, config.Config, error) {
	configPath := options.Config
	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return "", "", config.Config{}, err
		}
	}

	store, err := config.NewStore(config.NewYAML(configPath))
	if err != nil {
		return "", "", config.Config{}, err
	}

	cfg, err := store.GetConfig()
	if err != nil {
		return "", "", config.Config{}, err
	}

	scriptPath := options.Script
	if scriptPath == "" {
		scriptPath = cfg.ScriptPath(configPath)
	}

	return configPath, scriptPath, cfg, nil
}

func serve(ctx context.Context, options *Options) error {
	configPath, scriptPath, cfg, err := resolvePaths(options)
	if err != nil {
		return err
	}
	slog.Debug("Paths", "config", configPath, "script", scriptPath)

	session, err := xconn.Connect()
	if err != nil {
		return err
	}

	wm := xwm.New(session, xwm.Options{
		Config:     cfg,
		ScriptPath: scriptPath,
		Spawn:      spawn.Spawn,
	})
	defer wm.Close()

	if err := wm.Setup(); err != nil {
		return err
	}

	hub := bus.NewHub[xwm.Command]()
	commands, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	super := sutureext.NewSimple("mwm")
	if options.Watch {
		sutureext.Add(super, watch.New(scriptPath, watch.DefaultDelay, func(ctx context.Context) error {
			return hub.Broadcast(ctx, xwm.CommandReload)
		}))
	}
	if options.Port != 0 {
		router := api.NewRouter(api.New(wm.Table(), hub, spawn.Spawn))
		sutureext.Add(super, api.NewHTTPService(core.Address(options.Host, options.Port), router))
	}
	superDoneC := super.ServeBackground(ctx)

	err = wm.Run(ctx, commands)
	cancel()
	unsubscribe()
	<-superDoneC

	return err
}

func check(options *Options) error {
	configPath, scriptPath, cfg, err := resolvePaths(options)
	if err != nil {
		return err
	}

	var host checkHost
	static, staticErr := xwm.StaticBindings(cfg.Bindings, host)
	bridge, scriptErr := xwm.LoadScript(scriptPath, host)
	defer bridge.Close()

	type binding struct {
		Chord  string
		Action string
	}
	report := struct {
		Config   string
		Script   string
		Bindings []binding
	}{
		Config: configPath,
		Script: scriptPath,
	}
	for _, b := range static {
		report.Bindings = append(report.Bindings, binding{Chord: b.Chord(), Action: b.Action.String()})
	}
	if bridge != nil {
		for _, b := range bridge.Bindings() {
			report.Bindings = append(report.Bindings, binding{Chord: b.Chord(), Action: b.Action.String()})
		}
	}
	pp.Println(report)

	if staticErr != nil {
		slog.Warn("Invalid bindings in config", "error", staticErr)
	}
	if scriptErr != nil {
		return fmt.Errorf("script: %w", scriptErr)
	}
	return nil
}

// checkHost refuses everything; scripts only register bindings during check.
type checkHost struct{}

func (checkHost) Spawn(argv []string) error {
	return errors.New("spawn is disabled during check")
}

func (checkHost) Quit() {}

func (checkHost) Reload() {}
