// Package cryptcfg holds the configuration of the freesec tool.
package cryptcfg

import (
	"io/ioutil"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"

	"freesec/lib/filelogger"
	"freesec/lib/logx"
	"freesec/lib/utils/descrypt"
)

const (
	SchemeTraditional = "traditional"
	SchemeExtended    = "extended"
)

type Config struct {
	LogLevel string `toml:"log_level"`
	Color    string `toml:"color"`
	Scheme   string `toml:"scheme"`
	Rounds   uint32 `toml:"rounds"` // extended scheme only
}

var DefaultConfig = Config{
	LogLevel: "info",
	Color:    "auto",
	Scheme:   SchemeTraditional,
	Rounds:   descrypt.DefaultRounds,
}

// Parsed is a validated Config.
type Parsed struct {
	Config

	Level     logx.Level
	ColorMode filelogger.ColorMode
}

// Parse decodes cfg over DefaultConfig and validates the result.
func Parse(cfg string) (p Parsed, err error) {
	c := DefaultConfig
	md, err := toml.Decode(cfg, &c)
	if err != nil {
		err = xerrors.Errorf("failed to parse TOML: %w", err)
		return
	}
	if u := md.Undecoded(); len(u) != 0 {
		err = xerrors.Errorf("unknown config keys: %v", u)
		return
	}
	return Validate(c)
}

// Load reads and parses the file at path.
func Load(path string) (p Parsed, err error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		err = xerrors.Errorf("failed to read config %q: %w", path, err)
		return
	}
	p, err = Parse(string(b))
	if err != nil {
		err = xerrors.Errorf("config %q: %w", path, err)
	}
	return
}

// Validate checks c, for use after flags have overridden some fields.
func Validate(c Config) (p Parsed, err error) {
	p.Config = c
	p.Level, err = logx.ParseLevel(c.LogLevel)
	if err != nil {
		return
	}
	p.ColorMode, err = filelogger.ParseColorMode(c.Color)
	if err != nil {
		return
	}
	switch c.Scheme {
	case SchemeTraditional:
	case SchemeExtended:
		if c.Rounds == 0 || c.Rounds > descrypt.MaxRounds {
			err = xerrors.Errorf("rounds %d not in 1..%d: %w",
				c.Rounds, descrypt.MaxRounds, descrypt.ErrBadRounds)
			return
		}
	default:
		err = xerrors.Errorf("unknown scheme %q", c.Scheme)
		return
	}
	return
}
