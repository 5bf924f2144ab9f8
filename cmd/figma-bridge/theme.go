package main

import (
	"fmt"
	"io"
	"os"

	figmabridge "github.com/kataras/figma-bridge"
	"github.com/kataras/figma-bridge/pkg/formatter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newThemeCmd() *cobra.Command {
	var (
		figmaURL string
		fileKey  string
		input    string
		format   string
		output   string
		store    bool
	)

	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Build a Tailwind theme from design variables",
		Long: `Build a Tailwind theme from design variables, either fetched from a Figma file
(--url or --file-key) or read from a JSON payload (--input, "-" for stdin).`,
		Example: `  figma-bridge theme -u "https://www.figma.com/design/ABC123/App"
  figma-bridge theme -i variables.json -f css -o theme.css`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" && figmaURL == "" && fileKey == "" {
				return fmt.Errorf("one of --input, --url or --file-key is required")
			}
			if !formatter.ValidFormat(format) {
				return fmt.Errorf("unsupported format %q (must be js, json or css)", format)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, st, err := newService(cfg, store, input == "")
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			opts := figmabridge.ThemeOptions{
				Target: figmabridge.Target{FileURL: figmaURL, FileKey: fileKey},
				Format: format,
				Store:  store,
			}
			if input != "" {
				data, err := readInput(cmd.InOrStdin(), input)
				if err != nil {
					return err
				}
				if opts.Variables, err = figmabridge.ParseVariables(data); err != nil {
					return err
				}
			}

			res, err := svc.Theme(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if output == "" {
				output = figmabridge.ConfigFileName(format)
			}
			if output == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), res.Config)
				return err
			}
			if err := os.WriteFile(output, []byte(res.Config), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			color.New(color.FgGreen).Printf("✓ Mapped %d variable(s) into %d section(s), wrote %s\n", res.Variables, len(res.Theme), output)
			if res.Asset != nil {
				fmt.Printf("  URL: %s\n", res.Asset.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL")
	cmd.Flags().StringVarP(&fileKey, "file-key", "k", "", "Figma file key (instead of --url)")
	cmd.Flags().StringVarP(&input, "input", "i", "", `Variables JSON file, "-" for stdin`)
	cmd.Flags().StringVarP(&format, "format", "f", formatter.FormatJS, "Output format: js, json or css")
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file, "-" for stdout (default: tailwind.config.<format> or theme.css)`)
	cmd.Flags().BoolVar(&store, "store", false, "Also keep the config in local storage and print its public URL")

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
