package main

import (
	"github.com/spf13/cobra"

	"github.com/assisitant-dever/docgen/cli/account"
	"github.com/assisitant-dever/docgen/cli/chat"
	"github.com/assisitant-dever/docgen/cli/conversations"
	"github.com/assisitant-dever/docgen/cli/download"
	"github.com/assisitant-dever/docgen/cli/keys"
	"github.com/assisitant-dever/docgen/cli/templates"
	"github.com/assisitant-dever/docgen/internal/api"
	"github.com/assisitant-dever/docgen/internal/auth"
	"github.com/assisitant-dever/docgen/internal/cli"
	"github.com/assisitant-dever/docgen/internal/configuration"
)

const configFilepath = "~/.config/docgen/config.json"

var rootCmd = &cobra.Command{
	Use:     "docgen",
	Short:   "A CLI for AI document generation",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	credentials := auth.NewFileStore(config.SessionFile)
	client := api.New(config, credentials, func() {
		cli.Error("Session expired, run `docgen account login`\n")
	})

	rootCmd.AddCommand(account.NewCmd(client, credentials))
	rootCmd.AddCommand(chat.NewCmd(config, client))
	rootCmd.AddCommand(conversations.NewCmd(config, client))
	rootCmd.AddCommand(templates.NewCmd(client))
	rootCmd.AddCommand(keys.NewCmd(client))
	rootCmd.AddCommand(download.NewCmd(config, client))
	rootCmd.Execute()
}
