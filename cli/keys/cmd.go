package keys

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/cli"
)

// NewCmd instantiates and returns the keys command.
func NewCmd(client *api.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage model provider API keys",
	}
	cmd.AddCommand(newListCmd(client))
	cmd.AddCommand(newAddCmd(client))
	cmd.AddCommand(newUpdateCmd(client))
	cmd.AddCommand(newDeleteCmd(client))
	return cmd
}

func newListCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured keys",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := client.ListKeys(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cli.Notification("No keys configured\n")
				return nil
			}
			for _, record := range records {
				fmt.Printf("%-8d %-12s %-24s %s\n", record.ID, record.Platform, record.Model, mask(record.APIKey))
			}
			return nil
		},
	}
}

func newAddCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Platform string
		Model    string
		APIKey   string
	}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a provider key",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := &api.KeyRecord{
				Platform: opts.Platform,
				Model:    opts.Model,
				APIKey:   opts.APIKey,
			}
			created, err := client.CreateKey(cmd.Context(), record)
			if err != nil {
				return err
			}
			cli.Notification("Added key #%d for %s/%s\n", created.ID, created.Platform, created.Model)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "Provider platform (e.g. openai, deepseek)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Model name")
	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", "Provider API key")
	cmd.MarkFlagRequired("platform")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("api-key")
	return cmd
}

func newUpdateCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Platform string
		Model    string
		APIKey   string
	}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a provider key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			record := &api.KeyRecord{
				Platform: opts.Platform,
				Model:    opts.Model,
				APIKey:   opts.APIKey,
			}
			updated, err := client.UpdateKey(cmd.Context(), id, record)
			if err != nil {
				return err
			}
			cli.Notification("Updated key #%d\n", updated.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "Provider platform")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Model name")
	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", "Provider API key")
	return cmd
}

func newDeleteCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Force bool
	}
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a provider key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !opts.Force && !cli.QueryUser(fmt.Sprintf("Delete key #%d?", id)) {
				return nil
			}
			if err := client.DeleteKey(cmd.Context(), id); err != nil {
				return err
			}
			cli.Notification("Deleted key #%d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing key id %q", arg)
	}
	return id, nil
}

// mask hides all but the last four characters of a key.
func mask(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
