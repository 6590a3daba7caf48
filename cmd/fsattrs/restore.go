package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/vshn/sitefs/attrs"
	"github.com/vshn/sitefs/cfg"
	"github.com/vshn/sitefs/cmd"
	"github.com/vshn/sitefs/metrics"
)

var restoreCommand = &cli.Command{
	Name:   "restore",
	Usage:  "Restore saved file attributes",
	Action: restoreAction,
}

func restoreAction(c *cli.Context) error {
	restoreLog := cmd.Logger(c, "restore")

	snap, err := attrs.Load(cfg.Config.SnapshotFile)
	if errors.Is(err, attrs.ErrSnapshotNotFound) {
		return cli.Exit(fmt.Sprintf("Saved attributes file '%s' not found", cfg.Config.SnapshotFile), 1)
	}
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder()
	summary, err := attrs.NewRestorer(restoreLog).Restore(snap)
	recorder.ObserveRestore(summary)
	if err != nil {
		return fmt.Errorf("cannot restore attributes: %w", err)
	}
	restoreLog.Info("attributes restored", "paths", summary.Paths, "updated", summary.Changed(), "skipped", summary.Skipped)

	return writeMetrics(c, recorder, "restore")
}
