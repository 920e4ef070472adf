package main

import (
	"bytes"
	"fmt"
	"path"

	"petworld/internal/domain/pet"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newVideosCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "videos <image-url>",
		Short: "Generate the emotion videos for an avatar and wait for them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts)
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			objects, err := e.objects()
			if err != nil {
				return err
			}
			videos, _, err := e.videos()
			if err != nil {
				return err
			}

			img, err := objects.FetchURL(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("download image: %w", err)
			}
			jobID, err := videos.StartJob(cmd.Context(), bytes.NewReader(img.Body), path.Base(args[0]))
			if err != nil {
				return err
			}
			e.log.Info("video job started", zap.String("job_id", jobID))

			poller := e.poller()
			poller.Fetch = videos
			out := cmd.ErrOrStderr()
			media, err := poller.Poll(cmd.Context(), jobID, func(job pet.GenerationJob) {
				switch {
				case job.CurrentEmotion != "":
					fmt.Fprintf(out, "[%s] generating %s animation\n", job.Status, job.CurrentEmotion)
				case job.Progress != "":
					fmt.Fprintf(out, "[%s] %s\n", job.Status, job.Progress)
				}
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"job_id":  jobID,
				"videos":  media,
				"missing": media.Missing(),
			})
		},
	}
}
