package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vshn/sitefs/attrs"
	"github.com/vshn/sitefs/cfg"
	"github.com/vshn/sitefs/cmd"
	"github.com/vshn/sitefs/metrics"
)

var saveCommand = &cli.Command{
	Name:   "save",
	Usage:  "Save the attributes of files in the directory tree",
	Action: saveAction,
}

func saveAction(c *cli.Context) error {
	saveLog := cmd.Logger(c, "save")

	profile, err := attrs.ParseProfile(cfg.Config.Profile)
	if err != nil {
		return err
	}

	saveLog.V(1).Info("collecting attributes", "root", cfg.Config.Root, "profile", profile)
	snap, err := attrs.Collect(cfg.Config.Root, profile, cfg.Config.SnapshotFile)
	if err != nil {
		return err
	}
	if err := attrs.Save(cfg.Config.SnapshotFile, snap); err != nil {
		return fmt.Errorf("cannot save attributes: %w", err)
	}
	saveLog.Info("attributes saved", "file", cfg.Config.SnapshotFile, "paths", len(snap))

	recorder := metrics.NewRecorder()
	recorder.ObserveSnapshot(snap)
	return writeMetrics(c, recorder, "save")
}

func writeMetrics(c *cli.Context, recorder *metrics.Recorder, command string) error {
	recorder.Finished(command)
	if err := recorder.WriteTextfile(cfg.Config.MetricsTextfile); err != nil {
		return fmt.Errorf("cannot write metrics: %w", err)
	}
	if cfg.Config.MetricsTextfile != "" {
		cmd.Logger(c, "metrics").V(1).Info("metrics written", "file", cfg.Config.MetricsTextfile)
	}
	return nil
}
