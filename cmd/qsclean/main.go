package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/vshn/sitefs/cfg"
	"github.com/vshn/sitefs/cmd"
	"github.com/vshn/sitefs/metrics"
	"github.com/vshn/sitefs/querystring"
)

// Strings are populated by Goreleaser
var (
	version = "snapshot"
	commit  = "unknown"
	date    = "unknown"
)

const (
	appName   = "qsclean"
	envPrefix = "QSCLEAN_"
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
		Name:        appName,
		Usage:       "Strip query strings from the names of downloaded files",
		Description: "After mirroring a site with `wget -p -k`, static resources carry query strings like 'fontawesome-webfont.woff?v=4.2'. This removes them so the site can be served statically.",
		Version:     version,
		Before:      cmd.BeforeAction(appName),
		Action:      cleanAction,
		Flags: []cli.Flag{
			cmd.DebugFlag(envPrefix),
			&cli.StringFlag{
				Name:        "root",
				Usage:       "directory tree to clean",
				DefaultText: ".",
			},
			&cli.StringFlag{
				Name:  "metrics-textfile",
				Usage: "write run statistics in the Prometheus text format to this file",
			},
		},
	}
}

func loadConfig(c *cli.Context) error {
	cfg.Config = cfg.NewDefaultConfig()
	if err := cfg.LoadEnvironment(cfg.Config, envPrefix); err != nil {
		return err
	}
	if c.IsSet("root") {
		cfg.Config.Root = c.String("root")
	}
	if c.IsSet("metrics-textfile") {
		cfg.Config.MetricsTextfile = c.String("metrics-textfile")
	}
	if cfg.Config.Root == "" {
		cfg.Config.Root = "."
	}
	return nil
}

func cleanAction(c *cli.Context) error {
	if err := loadConfig(c); err != nil {
		return err
	}

	result, err := querystring.NewCleaner(cmd.Logger(c, "clean")).Clean(cfg.Config.Root)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	recorder.ObserveClean(result)
	recorder.Finished("clean")
	if err := recorder.WriteTextfile(cfg.Config.MetricsTextfile); err != nil {
		return fmt.Errorf("cannot write metrics: %w", err)
	}
	return nil
}
