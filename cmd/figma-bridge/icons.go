package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	figmabridge "github.com/kataras/figma-bridge"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newIconsCmd() *cobra.Command {
	var (
		figmaURL string
		fileKey  string
		nodeIDs  string
		outDir   string
		store    bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Detect icons below nodes and optionally export them as SVG",
		Example: `  figma-bridge icons -u "https://www.figma.com/design/ABC123/App?node-id=10-20"
  figma-bridge icons -k ABC123 -n 10:20,10:30 --out-dir ./icons`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, st, err := newService(cfg, store, true)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
			}

			res, err := svc.Icons(cmd.Context(), figmabridge.IconOptions{
				Target:   figmabridge.Target{FileURL: figmaURL, FileKey: fileKey, NodeIDs: figmabridge.ParseNodeIDs(nodeIDs)},
				Download: outDir != "",
				Store:    store,
			})
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				written := make(map[string]bool)
				for _, icon := range res.Icons {
					if icon.FileName == "" || written[icon.FileName] {
						continue
					}
					if err := os.WriteFile(filepath.Join(outDir, icon.FileName), icon.Data, 0644); err != nil {
						return fmt.Errorf("failed to write %s: %w", icon.FileName, err)
					}
					written[icon.FileName] = true
				}
				color.New(color.FgGreen).Fprintf(os.Stderr, "✓ Wrote %d SVG file(s) to %s\n", len(written), outDir)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			if len(res.Icons) == 0 {
				fmt.Println("No icons found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tPARENT\tFILE")
			for _, icon := range res.Icons {
				file := icon.FileName
				if icon.Asset != nil {
					file = icon.Asset.URL
				}
				if file == "" {
					file = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", icon.ID, icon.Name, icon.Kind, icon.ParentID, file)
			}
			w.Flush()

			for _, e := range res.Errors {
				color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma URL; node-id values in it select the nodes")
	cmd.Flags().StringVarP(&fileKey, "file-key", "k", "", "Figma file key (instead of --url)")
	cmd.Flags().StringVarP(&nodeIDs, "nodes", "n", "", "Comma-separated node IDs to scan")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Download every icon as SVG into this directory")
	cmd.Flags().BoolVar(&store, "store", false, "Keep the SVGs in local storage and print their public URLs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON instead of a table")

	return cmd
}
