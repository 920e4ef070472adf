package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "petworld",
		Short:         "Pet contract reader, media pipeline and proxy server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (env PETWORLD_* overrides it)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newPetCmd(opts),
		newVideosCmd(opts),
		newSweepCmd(opts),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
