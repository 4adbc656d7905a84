package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hushbox/hushbox"
)

var (
	createText   string
	createFiles  []string
	createExpiry string
	createPin    bool
	createMulti  bool
)

func init() {
	createCmd.Flags().StringVarP(&createText, "text", "t", "", "secret text (read from stdin when omitted)")
	createCmd.Flags().StringArrayVarP(&createFiles, "file", "f", nil, "attach a file (repeatable; 5 files, 10 MiB total)")
	createCmd.Flags().StringVarP(&createExpiry, "expiry", "e", "1h", "lifetime: 10m, 1h, 6h or 24h")
	createCmd.Flags().BoolVarP(&createPin, "pin", "p", false, "protect the secret with a PIN (prompted, never echoed)")
	createCmd.Flags().BoolVar(&createMulti, "multi", false, "allow the secret to be viewed more than once")
}

var expiryNames = map[string]hushbox.Expiry{
	"10m": hushbox.Expiry10Minutes,
	"1h":  hushbox.Expiry1Hour,
	"6h":  hushbox.Expiry6Hours,
	"24h": hushbox.Expiry1Day,
	"1d":  hushbox.Expiry1Day,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Encrypt a secret locally and upload it",
	Long: `Encrypts text and files on this machine and uploads only ciphertext.

The printed link carries the decryption key in its URL fragment. Anyone
holding the link can open the secret, so pass it over a channel you trust.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		expiry, ok := expiryNames[strings.ToLower(createExpiry)]
		if !ok {
			return fmt.Errorf("invalid --expiry %q: choose 10m, 1h, 6h or 24h", createExpiry)
		}

		secret := &hushbox.Secret{Text: createText}
		if secret.Text == "" && len(createFiles) == 0 {
			if term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("nothing to share: pass --text, --file or pipe text on stdin")
			}
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read secret from stdin: %w", err)
			}
			secret.Text = strings.TrimSuffix(string(data), "\n")
		}

		var totalBytes uint64
		for _, path := range createFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read attachment: %w", err)
			}
			secret.Files = append(secret.Files, hushbox.File{
				Name: filepath.Base(path),
				Type: mime.TypeByExtension(filepath.Ext(path)),
				Data: data,
			})
			totalBytes += uint64(len(data))
		}

		opts := []hushbox.ShareOption{
			hushbox.WithExpiry(expiry),
			hushbox.WithOneTimeView(!createMulti),
		}
		if createPin {
			pin, err := readPin("Enter PIN: ")
			if err != nil {
				return err
			}
			if pin == "" {
				return fmt.Errorf("PIN must not be empty")
			}
			confirm, err := readPin("Confirm PIN: ")
			if err != nil {
				return err
			}
			if pin != confirm {
				return fmt.Errorf("PIN entries do not match")
			}
			opts = append(opts, hushbox.WithPin(pin))
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		s, cleanup := startSpinner("Encrypting and uploading...")
		defer cleanup()

		result, err := client.Share(context.Background(), secret, opts...)
		if err != nil {
			return err
		}

		summary := fmt.Sprintf("expires in %s", durafmt.Parse(expiry.Duration()))
		if len(secret.Files) > 0 {
			summary += fmt.Sprintf(", %d file(s), %s", len(secret.Files), humanize.IBytes(totalBytes))
		}
		if createMulti {
			summary += ", multi-view"
		} else {
			summary += ", destroyed after first view"
		}

		s.FinalMSG = color.GreenString("✓") + " Secret sealed (" + summary + ")\n" +
			color.CyanString("→") + " Share link (the key lives in the fragment; the server never sees it):\n" +
			"  " + color.YellowString(result.Link)
		return nil
	},
}
