package engine

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk representation of Options, loaded once at startup by a command's
// -config flag. Durations are given in milliseconds since TOML has no native duration type.
type Config struct {
	Nodes      uint64 `toml:"nodes"`
	TimeMillis int64  `toml:"time_millis"`
	ArenaBytes int    `toml:"arena_bytes"`
}

// LoadConfig reads a TOML config file into Options. A missing or empty path yields the zero
// Options (unbounded search, governed entirely by explicit driver commands).
func LoadConfig(path string) (Options, error) {
	if path == "" {
		return Options{}, nil
	}

	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Options{}, err
	}

	return Options{
		Nodes:     c.Nodes,
		Time:      time.Duration(c.TimeMillis) * time.Millisecond,
		ArenaSize: c.ArenaBytes,
	}, nil
}
