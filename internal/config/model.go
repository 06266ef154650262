package config

var defaultConfig = Config{
	Script: "",
	Cursor: 58,
	Bar: Bar{
		X:              400,
		Y:              600,
		W:              800,
		H:              200,
		Font:           "fixed",
		Text:           "Hiy AAAAAAA",
		Background:     "white",
		Foreground:     "white",
		TextBackground: "black",
	},
	Bindings: []Binding{
		{Key: "Mod1+Return", Spawn: []string{"dmenu_run"}},
		{Key: "Mod1+Shift+q", Action: ActionQuit},
	},
}

// Default returns the configuration written when none exists.
func Default() Config {
	cfg := defaultConfig
	cfg.Bindings = append([]Binding(nil), defaultConfig.Bindings...)
	return cfg
}

type Config struct {
	// Script is the Lua configuration, relative paths are resolved against the config file.
	Script   string    `yaml:"script"`
	Cursor   uint16    `yaml:"cursor"`
	Bar      Bar       `yaml:"bar"`
	Bindings []Binding `yaml:"bindings"`
}

type Bar struct {
	Disabled       bool   `yaml:"disabled,omitempty"`
	X              int16  `yaml:"x"`
	Y              int16  `yaml:"y"`
	W              uint16 `yaml:"w"`
	H              uint16 `yaml:"h"`
	Font           string `yaml:"font"`
	Text           string `yaml:"text"`
	Background     string `yaml:"background"`      // fill color
	Foreground     string `yaml:"foreground"`      // text color
	TextBackground string `yaml:"text_background"` // color behind glyphs
}

const (
	ActionQuit   = "quit"
	ActionReload = "reload"
)

type Binding struct {
	Key    string   `yaml:"key"`
	Action string   `yaml:"action,omitempty"` // [quit, reload]
	Spawn  []string `yaml:"spawn,omitempty"`
}
