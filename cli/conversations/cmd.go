package conversations

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/cache"
	"github.com/assisitant-dever/docgen/internal/cli"
	"github.com/assisitant-dever/docgen/internal/configuration"
	"github.com/assisitant-dever/docgen/internal/state"
)

// NewCmd instantiates and returns the conversations command.
func NewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "Manage conversations",
	}
	cmd.AddCommand(newListCmd(config, client))
	cmd.AddCommand(newShowCmd(client))
	cmd.AddCommand(newCreateCmd(config, client))
	cmd.AddCommand(newRenameCmd(client))
	cmd.AddCommand(newDeleteCmd(config, client))
	return cmd
}

func newListCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts struct {
		Offline bool
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations, newest last",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := state.New()
			snapshots, err := cache.New(config.CacheFile)
			cobra.CheckErr(err)
			defer snapshots.Close()

			if opts.Offline {
				conversations, err := snapshots.List()
				if err != nil {
					return err
				}
				store.ReplaceAll(conversations)
			} else {
				conversations, err := client.ListConversations(cmd.Context())
				if err != nil {
					return err
				}
				store.ReplaceAll(conversations)
				if err := snapshots.Replace(conversations); err != nil {
					return errors.Wrap(err, "updating conversation snapshot")
				}
			}

			conversations := store.Conversations()
			if len(conversations) == 0 {
				cli.Notification("No conversations\n")
				return nil
			}
			for _, conversation := range conversations {
				fmt.Printf("%-8d %-40s %s\n", conversation.ID, truncate(conversation.Title, 40), conversation.CreatedAt)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Read the local snapshot instead of the server")
	return cmd
}

func newShowCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			conversation, err := client.GetConversation(cmd.Context(), id)
			if err != nil {
				return err
			}
			cli.Title("%s (#%d)", conversation.Title, conversation.ID)
			for _, message := range conversation.Messages {
				switch message.Role {
				case api.RoleUser:
					cli.UserInput("> %s\n", message.Content)
				case api.RoleAssistant:
					cli.AssistantOutput(message.Content + "\n")
					if message.DocxFile != "" {
						cli.FileInfo("document: %s\n", message.DocxFile)
					}
				}
			}
			return nil
		},
	}
}

func newCreateCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts struct {
		Title string
	}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty conversation",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			conversation, err := client.CreateConversation(cmd.Context(), opts.Title)
			if err != nil {
				return err
			}
			snapshots, err := cache.New(config.CacheFile)
			cobra.CheckErr(err)
			defer snapshots.Close()
			if err := snapshots.Upsert(conversation); err != nil {
				return errors.Wrap(err, "updating conversation snapshot")
			}
			cli.Notification("Created conversation #%d (%s)\n", conversation.ID, conversation.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "Title for the conversation (defaults to the server placeholder)")
	return cmd
}

func newRenameCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			conversation, err := client.RenameConversation(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			cli.Notification("Renamed conversation #%d to %s\n", conversation.ID, conversation.Title)
			return nil
		},
	}
}

func newDeleteCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts struct {
		Force bool
	}
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a conversation and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !opts.Force && !cli.QueryUser(fmt.Sprintf("Delete conversation #%d?", id)) {
				return nil
			}
			if err := client.DeleteConversation(cmd.Context(), id); err != nil {
				return err
			}
			snapshots, err := cache.New(config.CacheFile)
			cobra.CheckErr(err)
			defer snapshots.Close()
			if err := snapshots.Delete(id); err != nil {
				return errors.Wrap(err, "updating conversation snapshot")
			}
			cli.Notification("Deleted conversation #%d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing conversation id %q", arg)
	}
	return id, nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
