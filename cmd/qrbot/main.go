package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/bot"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/buildinfo"
	corecmd "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/cmd"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and its liveness endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}

	root := &cobra.Command{
		Use:           "qrbot",
		Short:         "Telegram bot that generates and scans QR codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default $CONFIG_PATH or "+bot.DefaultConfigPath+")")

	root.AddCommand(serve, newRenderCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "qrbot", buildinfo.String())
		},
	})
	return root
}

func runServe(configPath string) error {
	return corecmd.Run(corecmd.Options{
		ConfigPath:        configPath,
		DefaultConfigPath: bot.DefaultConfigPath,
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: bot.Bootstrap,
	})
}
