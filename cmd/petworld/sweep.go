package main

import (
	"fmt"

	"petworld/internal/app/sweep"

	"github.com/spf13/cobra"
)

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Apply update_state to every pet in the contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			w, err := e.writer()
			if err != nil {
				return err
			}
			signer, err := e.signer()
			if err != nil {
				return err
			}
			report, err := sweep.UseCase{
				Reader:               w.Reader,
				Updater:              w,
				Signer:               signer,
				Source:               pick(source, e.cfg.Ledger.Source),
				MaxConsecutiveMisses: e.cfg.Sweep.MaxConsecutiveMisses,
				MaxScan:              e.cfg.Sweep.MaxScan,
				ScanDelay:            e.cfg.Sweep.ScanDelay,
				UpdateDelay:          e.cfg.Sweep.UpdateDelay,
				Logger:               e.log.Named("sweep"),
			}.Execute(cmd.Context())
			if printErr := printJSON(cmd.OutOrStdout(), report); printErr != nil && err == nil {
				err = printErr
			}
			if err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("sweep %s: %d of %d pets failed to update", report.RunID, len(report.Failures), len(report.Found))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "account that signs update_state (default ledger.source)")
	return cmd
}
