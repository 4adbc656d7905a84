package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <link-or-id>",
	Short: "Check whether a secret can still be opened",
	Long: `Checks a secret's state without opening or consuming it. The server
answers the same way for expired, viewed, burned and never-created
secrets, so "gone" never says which.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		status, err := client.Status(context.Background(), args[0])
		if err != nil {
			return err
		}

		switch {
		case status.Exists && status.RequiresPin:
			fmt.Println(color.GreenString("✓") + " Secret is live (PIN required to open)")
		case status.Exists:
			fmt.Println(color.GreenString("✓") + " Secret is live")
		default:
			fmt.Println(color.RedString("✗") + " Secret is gone: expired, viewed, burned or never existed")
		}
		return nil
	},
}
