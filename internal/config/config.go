package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

// NewStore writes the default configuration through driver if none exists.
func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(Default()); err != nil {
			return Store{}, err
		}
	}

	return Store{
		driver: driver,
	}, nil
}

type Store struct {
	driver Driver
}

func (p *Store) GetConfig() (Config, error) {
	return p.driver.Read()
}

// DefaultPath is $XDG_CONFIG_HOME/mwm/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mwm", "config.yaml"), nil
}

// ScriptPath resolves the script location, relative to the directory of
// the config file at configPath. An empty script defaults to init.lua.
func (c Config) ScriptPath(configPath string) string {
	script := c.Script
	if script == "" {
		script = "init.lua"
	}
	if strings.HasPrefix(script, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, script[2:])
		}
	}
	if filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(filepath.Dir(configPath), script)
}

// Color resolves a color name to a pixel value. "white" and "black" use the
// screen's pixels, "#rrggbb" assumes a TrueColor visual.
func Color(name string, white, black uint32) (uint32, error) {
	switch strings.ToLower(name) {
	case "white":
		return white, nil
	case "black", "":
		return black, nil
	}

	if strings.HasPrefix(name, "#") && len(name) == 7 {
		n, err := strconv.ParseUint(name[1:], 16, 32)
		if err == nil {
			return uint32(n), nil
		}
	}

	return 0, fmt.Errorf("invalid color %q", name)
}
