package download

import (
	"github.com/spf13/cobra"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/cli"
	"github.com/assisitant-dever/docgen/internal/configuration"
	"github.com/assisitant-dever/docgen/internal/download"
)

// NewCmd instantiates and returns the download command.
func NewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts struct {
		Directory string
	}
	cmd := &cobra.Command{
		Use:   "download <filename>",
		Short: "Download a generated document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := config.DownloadDirectory
			if opts.Directory != "" {
				directory = opts.Directory
			}
			agent := download.NewAgent(client, directory)
			path, err := agent.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cli.FileInfo("saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Directory, "directory", "o", "", "Directory to save into (defaults to the configured one)")
	return cmd
}
