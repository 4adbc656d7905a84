package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"

	"github.com/hushbox/hushbox"
)

func newClient() (*hushbox.Client, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("no server configured: pass --server or set HUSHBOX_SERVER")
	}
	return hushbox.New(serverURL)
}

// startSpinner shows a progress spinner unless verbose output is on. The
// returned cleanup stops the spinner and prints its FinalMSG.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	_ = s.Color("cyan")

	if !verbose {
		s.Start()
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if !verbose {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ensureNewline(s.FinalMSG)
			// Clear FinalMSG so Stop does not print it a second time.
			s.FinalMSG = ""
		}
		if !verbose {
			s.Stop()
		}
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}
	return s, cleanup
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// readPin prompts on stderr and reads a PIN without echoing it.
func readPin(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for PIN: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	pin, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read PIN: %w", err)
	}
	return string(pin), nil
}
