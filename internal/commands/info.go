package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newInfoCommand lists the tracks a link offers so users can pick one
// with --track instead of taking the default.
func newInfoCommand(r *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "info <link>",
		Short: "List the tracks a link offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			media, err := r.client.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", media.Title, media.OID)
			if media.Duration != "" {
				fmt.Fprintf(out, "duration: %s\n", media.Duration)
			}
			if len(media.Tracks) > 0 {
				fmt.Fprintln(out, "video tracks:")
				for _, track := range media.Tracks {
					line := "  " + track.Name
					if track.Width > 0 && track.Height > 0 {
						line += fmt.Sprintf("  %dx%d", track.Width, track.Height)
					}
					if track.Format != "" {
						line += "  " + track.Format
					}
					if track.HLS() {
						line += "  (hls)"
					}
					fmt.Fprintln(out, line)
				}
			}
			if len(media.AudioTracks) > 0 {
				fmt.Fprintln(out, "audio tracks:")
				for i, track := range media.AudioTracks {
					line := fmt.Sprintf("  %d", i)
					if track.Language != "" {
						line += "  " + track.Language
					}
					if track.Title != "" {
						line += "  " + track.Title
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}
