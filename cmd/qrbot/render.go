package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/qr"
)

func newRenderCmd() *cobra.Command {
	var (
		color    string
		out      string
		terminal bool
	)
	cmd := &cobra.Command{
		Use:   "render <text>",
		Short: "Render a QR code locally with the bot's encoder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if !qr.KnownColor(color) {
				return fmt.Errorf("unknown color %q", color)
			}
			if terminal {
				qrterminal.GenerateHalfBlock(text, qrterminal.H, cmd.OutOrStdout())
			}
			if out == "" {
				if !terminal {
					return fmt.Errorf("nothing to do: pass --out or --terminal")
				}
				return nil
			}

			png, err := qr.NewEncoder().Render(text, qr.LookupColor(color))
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(png))
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", qr.DefaultColor.Name, "fill color: black, blue, red, green or purple")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the PNG to this file")
	cmd.Flags().BoolVar(&terminal, "terminal", false, "print the code to the terminal")
	return cmd
}
