package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hushbox/hushbox/server"
)

var serveConfigFile string

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "path to a YAML config file")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a hushbox drop server",
	Long: `Runs the hushbox HTTP server. Settings come from defaults, the optional
--config file and HUSHBOX_-prefixed environment variables, in that order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := server.NewConfig(serveConfigFile)
		if err != nil {
			return err
		}
		if verbose {
			config.LogLevel, _ = server.GetLogLevel("debug")
		}

		srv, err := server.New(config)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			fmt.Println(color.YellowString("→") + " Caught " + sig.String() + ", shutting down")
			return srv.Stop()
		}
	},
}
