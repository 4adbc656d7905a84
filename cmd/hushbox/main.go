package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "hushbox",
	Short: "Share self-destructing secrets the server can never read",
	Long: `Hushbox shares text and files through a zero-knowledge drop server.

Secrets are encrypted on this machine with AES-256-CBC before upload; the
decryption key travels only in the share link's URL fragment, which HTTP
clients never send to the server. Secrets self-destruct after their expiry
and, by default, after the first view.

Set HUSHBOX_SERVER or pass --server to choose the drop server.`,
	SilenceUsage: true,
}

func init() {
	// A .env in the working directory is convenient in development;
	// absence is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("HUSHBOX_SERVER"), "base URL of the hushbox server")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(burnCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
