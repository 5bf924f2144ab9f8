package main

import (
	"fmt"
	"os"

	figmabridge "github.com/kataras/figma-bridge"
	"github.com/kataras/figma-bridge/pkg/imager"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newScreenshotCmd() *cobra.Command {
	var (
		figmaURL string
		fileKey  string
		nodeID   string
		scale    float64
		maxWidth int
		format   string
		quality  int
		output   string
		store    bool
	)

	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Render a node and save an optimized image",
		Example: `  figma-bridge screenshot -u "https://www.figma.com/design/ABC123/App?node-id=1-2" --max-width 1280
  figma-bridge screenshot -k ABC123 -n 1:2 -f jpeg -o hero.jpg`,
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

			if !cmd.Flags().Changed("max-width") {
				maxWidth = cfg.Image.MaxWidth
			}
			if format == "" {
				format = cfg.Image.Format
			}
			if quality == 0 {
				quality = cfg.Image.Quality
			}

			var nodeIDs []string
			if nodeID != "" {
				nodeIDs = []string{nodeID}
			}

			res, err := svc.Screenshot(cmd.Context(), figmabridge.ScreenshotOptions{
				Target:   figmabridge.Target{FileURL: figmaURL, FileKey: fileKey, NodeIDs: nodeIDs},
				Scale:    scale,
				MaxWidth: maxWidth,
				Format:   format,
				Quality:  quality,
				Store:    store,
			})
			if err != nil {
				return err
			}

			if output == "" {
				output = imager.FileName(res.NodeName, res.NodeID, res.Format)
			}
			if err := os.WriteFile(output, res.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			green := color.New(color.FgGreen)
			green.Printf("✓ Saved %s (%dx%d, %d bytes)\n", output, res.Width, res.Height, res.Size)
			if res.Asset != nil {
				fmt.Printf("  URL: %s\n", res.Asset.URL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&figmaURL, "url", "u", "", "Figma URL; a node-id in it selects the node")
	cmd.Flags().StringVarP(&fileKey, "file-key", "k", "", "Figma file key (instead of --url)")
	cmd.Flags().StringVarP(&nodeID, "node", "n", "", "Node ID to render (default: node in the URL, else the first page)")
	cmd.Flags().Float64Var(&scale, "scale", 1, "Render scale between 0.01 and 4")
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "Downscale to at most this width, 0 keeps the rendered width (default from image.max_width)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: png or jpeg (default from image.format)")
	cmd.Flags().IntVar(&quality, "quality", 0, "JPEG quality 1-100 (default from image.quality)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: derived from the node)")
	cmd.Flags().BoolVar(&store, "store", false, "Also keep the image in local storage and print its public URL")

	return cmd
}
