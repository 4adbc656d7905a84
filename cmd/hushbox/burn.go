package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var burnCmd = &cobra.Command{
	Use:   "burn <link-or-id>",
	Short: "Destroy a secret before anyone opens it",
	Long: `Deletes a secret from the server immediately. Burning succeeds whether
or not the secret still exists, so the result reveals nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Burn(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println(color.GreenString("✓") + " Secret burned")
		return nil
	},
}
