package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	atomic_file "github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/hushbox/hushbox"
)

var openOutputDir string

func init() {
	openCmd.Flags().StringVarP(&openOutputDir, "output", "o", ".", "directory for decrypted attachments")
}

const maxPinAttempts = 3

var openCmd = &cobra.Command{
	Use:   "open <link>",
	Short: "Fetch a shared secret and decrypt it locally",
	Long: `Fetches a secret's ciphertext and decrypts it with the key from the
link's fragment. Opening a one-time secret destroys it on the server.

Secret text goes to stdout so it can be piped; everything else goes to
stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		link := args[0]
		client, err := newClient()
		if err != nil {
			return err
		}
		ctx := context.Background()

		opened, err := client.Open(ctx, link, "")
		for attempts := 0; errors.Is(err, hushbox.ErrPinRequired) || errors.Is(err, hushbox.ErrPinMismatch); attempts++ {
			if attempts == maxPinAttempts {
				return err
			}
			if errors.Is(err, hushbox.ErrPinMismatch) {
				fmt.Fprintln(os.Stderr, color.RedString("✗")+" Wrong PIN, try again")
			}
			var pin string
			pin, err = readPin("This secret is PIN-protected. Enter PIN: ")
			if err != nil {
				return err
			}
			opened, err = client.Open(ctx, link, pin)
		}
		if errors.Is(err, hushbox.ErrSecretGone) {
			return fmt.Errorf("secret is gone: it expired, was already viewed, was burned or never existed")
		}
		if err != nil {
			return err
		}

		if opened.Text != "" {
			fmt.Println(opened.Text)
		}

		if len(opened.Files) > 0 {
			if err := os.MkdirAll(openOutputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			for _, f := range opened.Files {
				// Base strips any path the sender smuggled into the name.
				dest := filepath.Join(openOutputDir, filepath.Base(f.Name))
				if err := atomic_file.WriteFile(dest, bytes.NewReader(f.Data)); err != nil {
					return fmt.Errorf("write %s: %w", dest, err)
				}
				fmt.Fprintln(os.Stderr, color.GreenString("✓")+" Wrote "+dest+" ("+humanize.IBytes(uint64(len(f.Data)))+")")
			}
		}

		if opened.OneTimeView {
			fmt.Fprintln(os.Stderr, color.YellowString("→")+" This was a one-time secret; the link is now dead.")
		}
		return nil
	},
}
