package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/vshn/sitefs/cfg"
	"github.com/vshn/sitefs/cmd"
)

// Strings are populated by Goreleaser
var (
	version = "snapshot"
	commit  = "unknown"
	date    = "unknown"
)

const (
	appName   = "fsattrs"
	envPrefix = "FSATTRS_"
)

func main() {
	err := app().Run(os.Args)
	if err != nil {
		log.Fatalf("unable to run %s: %v", appName, err)
	}
}

func app() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("version=%s revision=%s date=%s\n", c.App.Version, commit, date)
	}

	return &cli.App{
		Name:                 appName,
		Usage:                "Save and restore file attributes in a directory tree",
		Version:              version,
		EnableBashCompletion: true,
		Before:               before,
		Flags: []cli.Flag{
			cmd.DebugFlag(envPrefix),
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory tree whose attributes are saved",
				DefaultText: "'.' for the full profile, 'content' for the timestamps profile",
			},
			&cli.StringFlag{
				Name:        "snapshot-file",
				Aliases:     []string{"f"},
				Usage:       "file the attributes are saved to and restored from",
				DefaultText: cfg.DefaultSnapshotFile,
			},
			&cli.StringFlag{
				Name:        "profile",
				Usage:       fmt.Sprintf("set of attributes to save [ %s | %s ]", cfg.ProfileFull, cfg.ProfileTimestamps),
				DefaultText: cfg.ProfileFull,
			},
			&cli.StringFlag{
				Name:  "metrics-textfile",
				Usage: "write run statistics in the Prometheus text format to this file",
			},
		},
		Commands: []*cli.Command{
			saveCommand,
			restoreCommand,
		},
	}
}

func before(c *cli.Context) error {
	cmd.SetAppLogger(c, cmd.NewLogger(appName, c.Bool("debug")))
	cmd.Logger(c, "setup").V(1).Info("starting",
		"version", version,
		"date", date,
		"commit", commit,
		"go_os", runtime.GOOS,
		"go_arch", runtime.GOARCH,
		"go_version", runtime.Version(),
	)
	return loadConfig(c)
}

// loadConfig combines the defaults, the environment and the flags, in ascending order of precedence.
func loadConfig(c *cli.Context) error {
	cfg.Config = cfg.NewDefaultConfig()
	if err := cfg.LoadEnvironment(cfg.Config, envPrefix); err != nil {
		return err
	}

	for flag, dest := range map[string]*string{
		"root":             &cfg.Config.Root,
		"snapshot-file":    &cfg.Config.SnapshotFile,
		"profile":          &cfg.Config.Profile,
		"metrics-textfile": &cfg.Config.MetricsTextfile,
	} {
		if c.IsSet(flag) {
			*dest = c.String(flag)
		}
	}

	if err := cfg.Config.Validate(); err != nil {
		return fmt.Errorf("settings invalid: %w", err)
	}
	return cfg.Config.ApplyProfileDefaults()
}
