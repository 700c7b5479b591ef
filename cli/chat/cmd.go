package chat

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/assisitant-dever/docgen/cli/chat/session"
	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/cache"
	"github.com/assisitant-dever/docgen/internal/cli"
	"github.com/assisitant-dever/docgen/internal/configuration"
	"github.com/assisitant-dever/docgen/internal/debug"
	"github.com/assisitant-dever/docgen/internal/download"
	"github.com/assisitant-dever/docgen/internal/generate"
	"github.com/assisitant-dever/docgen/internal/state"
	"github.com/assisitant-dever/docgen/internal/template"
)

var log = debug.GetLogger()

// NewCmd instantiates and returns the chat command.
func NewCmd(config *configuration.Config, client *api.Client) *cobra.Command {
	var opts struct {
		ConversationID int64
		DocType        string
		TemplateID     int64
		Plain          bool
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Generate documents in a back and forth conversation",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if opts.DocType == "" {
				opts.DocType = config.DefaultDocType
			}

			store := state.New()
			snapshots, err := cache.New(config.CacheFile)
			cobra.CheckErr(err)
			defer snapshots.Close()

			// Load the conversation list, falling back to the local
			// snapshot when the server is unreachable.
			conversations, err := client.ListConversations(ctx)
			switch {
			case err == nil:
				store.ReplaceAll(conversations)
				if err := snapshots.Replace(conversations); err != nil {
					log.Warn("updating conversation snapshot", "error", err)
				}
			case api.IsNetwork(err):
				cached, cacheErr := snapshots.List()
				if cacheErr != nil || len(cached) == 0 {
					return err
				}
				store.ReplaceAll(cached)
				cli.Notification("Server unreachable, showing local snapshot\n")
			default:
				return err
			}

			if opts.ConversationID != 0 {
				conversation, err := client.GetConversation(ctx, opts.ConversationID)
				cobra.CheckErr(err)
				store.Upsert(conversation)
				store.SetCurrent(conversation.ID)
			}

			orchestrator := generate.New(client, store)

			// Keep the snapshot in sync with every store mutation.
			store.Subscribe(func() {
				if err := snapshots.Replace(store.Conversations()); err != nil {
					log.Warn("updating conversation snapshot", "error", err)
				}
			})

			templateName := ""
			if opts.TemplateID != 0 {
				selector := template.NewSelector(client)
				content, err := selector.Select(ctx, opts.TemplateID)
				cobra.CheckErr(err)
				orchestrator.SetTemplateContent(content)
				templates, err := selector.List(ctx)
				cobra.CheckErr(err)
				for _, t := range templates {
					if t.ID == opts.TemplateID {
						templateName = t.OriginalName
					}
				}
			}

			agent := download.NewAgent(client, config.DownloadDirectory)

			if opts.Plain {
				return runPlain(cmd, store, orchestrator, agent, opts.DocType, templateName)
			}
			return session.Run(ctx, store, orchestrator, agent, opts.DocType, templateName)
		},
	}

	cmd.Flags().Int64Var(&opts.ConversationID, "id", 0, "Resume a conversation by id")
	cmd.Flags().StringVarP(&opts.DocType, "doc-type", "d", "", "Document type to generate (defaults to the configured one)")
	cmd.Flags().Int64VarP(&opts.TemplateID, "template", "t", 0, "Format the document after an uploaded template id")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Use the plain readline interface instead of the TUI")
	return cmd
}

// runPlain drives a generation loop on a plain readline prompt.
func runPlain(
	cmd *cobra.Command,
	store *state.Store,
	orchestrator *generate.Orchestrator,
	agent *download.Agent,
	docType string,
	templateName string,
) error {
	ctx := cmd.Context()

	title := "new conversation"
	if conversation := store.Current(); conversation != nil {
		title = conversation.Title
	}
	if templateName != "" {
		cli.Title("DOCGEN [%s](%s) template=%s", docType, title, templateName)
	} else {
		cli.Title("DOCGEN [%s](%s)", docType, title)
	}

	// Print history.
	if conversation := store.Current(); conversation != nil {
		for _, message := range conversation.Messages {
			printMessage(message)
		}
	}

	for {
		text, err := cli.PromptUser()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading prompt")
		}
		if text == "" {
			continue
		}
		cli.UserCommand("Generating...\n")

		result, err := orchestrator.Submit(ctx, docType, text, store.CurrentID())
		if err != nil {
			if api.IsUnauthorized(err) {
				return err
			}
			cli.Error("%v\n", err)
			continue
		}
		// The selection only applies to the first generation.
		templateName = ""

		cli.AssistantOutput(result.Response.Text + "\n")
		if result.Response.Filename != "" {
			path, err := agent.Download(ctx, result.Response.Filename)
			if err != nil {
				cli.Error("downloading document: %v\n", err)
			} else {
				cli.FileInfo("saved %s\n", path)
			}
		}
		cli.Separator()
	}
}

func printMessage(message *api.Message) {
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
