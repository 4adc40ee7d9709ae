package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind          string
	port          int
	clientDir     string
	dbPath        string
	tickRate      int
	respawnDelay  time.Duration
	maxConns      int
	maxConnsPerIP int
	seedSnakes    int
	seedSpiders   int
	verbose       bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.tickRate < 1 || c.tickRate > 240 {
		return fmt.Errorf("invalid tick rate (must be between 1-240 inclusive): %d", c.tickRate)
	}
	if c.respawnDelay <= 0 {
		return errors.New("respawn delay must be positive")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "sprite-arena",
		Short:         "A real-time multiplayer canvas toy, plus a rock-paper-scissors matchmaker.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return Serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: ARENA_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: ARENA_PORT)")
	fs.StringVar(&cfg.clientDir, "client", "../client", "path to client directory (env: ARENA_CLIENT)")
	fs.StringVar(&cfg.dbPath, "db", "arena.db", "path to the SQLite database, empty for in-memory (env: ARENA_DB)")
	fs.IntVar(&cfg.tickRate, "tick-rate", DefaultTickRate, "simulation ticks per second (env: ARENA_TICK_RATE)")
	fs.DurationVar(&cfg.respawnDelay, "respawn-delay", DefaultRespawnDelay, "delay before defeated creatures return (env: ARENA_RESPAWN_DELAY)")
	fs.IntVar(&cfg.maxConns, "max-conns", 1000, "total connection limit (env: ARENA_MAX_CONNS)")
	fs.IntVar(&cfg.maxConnsPerIP, "max-conns-per-ip", 5, "per-IP connection limit (env: ARENA_MAX_CONNS_PER_IP)")
	fs.IntVar(&cfg.seedSnakes, "snakes", 2, "snakes spawned at startup (env: ARENA_SNAKES)")
	fs.IntVar(&cfg.seedSpiders, "spiders", 2, "spiders spawned at startup (env: ARENA_SPIDERS)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: ARENA_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("sprite-arena v{{.Version}}\n")

	return cmd
}
