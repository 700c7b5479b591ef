package templates

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/cli"
	"github.com/assisitant-dever/docgen/internal/template"
)

// NewCmd instantiates and returns the templates command.
func NewCmd(client *api.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage formatting templates",
	}
	cmd.AddCommand(newListCmd(client))
	cmd.AddCommand(newShowCmd(client))
	cmd.AddCommand(newUploadCmd(client))
	cmd.AddCommand(newDeleteCmd(client))
	return cmd
}

func newListCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Query string
	}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded templates",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := template.NewSelector(client)
			templates, err := selector.List(cmd.Context())
			if err != nil {
				return err
			}
			templates = template.Filter(templates, opts.Query)
			if len(templates) == 0 {
				cli.Notification("No templates\n")
				return nil
			}
			for _, t := range templates {
				fmt.Printf("%-8d %-40s %s\n", t.ID, t.OriginalName, t.UploadedAt)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Filter templates by name")
	return cmd
}

func newShowCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the extracted text of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			selector := template.NewSelector(client)
			content, err := selector.Select(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Println(content)
			return nil
		},
	}
}

func newUploadCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a docx template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := template.NewSelector(client)
			uploaded, err := selector.Upload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cli.Notification("Uploaded %s as template #%d\n", uploaded.OriginalName, uploaded.ID)
			return nil
		},
	}
}

func newDeleteCmd(client *api.Client) *cobra.Command {
	var opts struct {
		Force bool
	}
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an uploaded template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !opts.Force && !cli.QueryUser(fmt.Sprintf("Delete template #%d?", id)) {
				return nil
			}
			selector := template.NewSelector(client)
			if err := selector.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cli.Notification("Deleted template #%d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing template id %q", arg)
	}
	return id, nil
}
