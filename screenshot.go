package figmabridge

import (
	"context"
	"fmt"

	"github.com/kataras/figma-bridge/pkg/figma"
	"github.com/kataras/figma-bridge/pkg/imager"
	"github.com/kataras/figma-bridge/pkg/storage"
)

// ScreenshotOptions configures Screenshot.
type ScreenshotOptions struct {
	Target
	Scale    float64 `json:"scale,omitempty"`    // render scale, 0.01 to 4; default 1
	MaxWidth int     `json:"maxWidth,omitempty"` // 0 keeps the rendered width
	Format   string  `json:"format,omitempty"`   // png (default) or jpeg
	Quality  int     `json:"quality,omitempty"`  // jpeg quality
	Store    bool    `json:"store,omitempty"`    // persist and return a public URL
}

// ScreenshotResult is an optimized render of a single node.
type ScreenshotResult struct {
	FileKey     string         `json:"fileKey"`
	NodeID      string         `json:"nodeId"`
	NodeName    string         `json:"nodeName,omitempty"`
	Format      string         `json:"format"`
	ContentType string         `json:"contentType"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Size        int            `json:"size"`
	Base64      string         `json:"base64"`
	Asset       *storage.Asset `json:"asset,omitempty"`
	Data        []byte         `json:"-"`
}

// Screenshot renders a node (the first node of the target, or the first page when
// none is given), downloads it, scales it down to MaxWidth and re-encodes it.
func (s *Service) Screenshot(ctx context.Context, opts ScreenshotOptions) (*ScreenshotResult, error) {
	fileKey, nodeIDs, err := opts.Resolve()
	if err != nil {
		return nil, err
	}

	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.Scale < 0.01 || opts.Scale > 4 {
		return nil, fmt.Errorf("%w: scale must be between 0.01 and 4, got %g", ErrInvalidInput, opts.Scale)
	}
	if opts.MaxWidth < 0 {
		return nil, fmt.Errorf("%w: maxWidth must not be negative", ErrInvalidInput)
	}
	format, err := imager.ParseFormat(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if opts.Store && s.Storage == nil {
		return nil, fmt.Errorf("%w: storage is not configured", ErrInvalidInput)
	}

	var nodeID, nodeName string
	if len(nodeIDs) > 0 {
		nodeID = nodeIDs[0]
	} else {
		s.logInfo("No node ID given, fetching file to locate the first page...")
		file, err := s.API.GetFile(ctx, fileKey)
		if err != nil {
			return nil, fmt.Errorf("fetch file: %w", err)
		}
		page := firstPage(&file.Document)
		if page == nil {
			return nil, fmt.Errorf("%w: file %s has no pages", ErrNotFound, fileKey)
		}
		nodeID, nodeName = page.ID, page.Name
	}

	s.logInfo("Rendering node %s at scale %g...", nodeID, opts.Scale)
	imgResp, err := s.API.GetImages(ctx, fileKey, []string{nodeID}, "png", opts.Scale)
	if err != nil {
		return nil, fmt.Errorf("render node: %w", err)
	}
	imageURL := imgResp.Images[nodeID]
	if imageURL == "" {
		return nil, fmt.Errorf("%w: no image returned for node %s", ErrNotFound, nodeID)
	}

	s.logInfo("Downloading render...")
	raw, err := imager.Download(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("download render: %w", err)
	}

	optimized, err := imager.Optimize(raw, imager.OptimizeOptions{
		MaxWidth: opts.MaxWidth,
		Format:   format,
		Quality:  opts.Quality,
	})
	if err != nil {
		return nil, fmt.Errorf("optimize render: %w", err)
	}
	s.logInfo("Optimized %d bytes to %d bytes (%dx%d %s)", len(raw), len(optimized.Data), optimized.Width, optimized.Height, optimized.Format)

	result := &ScreenshotResult{
		FileKey:     fileKey,
		NodeID:      nodeID,
		NodeName:    nodeName,
		Format:      optimized.Format,
		ContentType: optimized.ContentType,
		Width:       optimized.Width,
		Height:      optimized.Height,
		Size:        len(optimized.Data),
		Base64:      optimized.Base64(),
		Data:        optimized.Data,
	}

	if opts.Store {
		asset, err := s.Storage.Save(ctx, storage.Asset{
			Kind:        storage.KindScreenshot,
			FileKey:     fileKey,
			NodeID:      nodeID,
			NodeName:    nodeName,
			FileName:    imager.FileName(nodeName, "screenshot-"+nodeID, optimized.Format),
			ContentType: optimized.ContentType,
		}, optimized.Data)
		if err != nil {
			return nil, fmt.Errorf("store screenshot: %w", err)
		}
		result.Asset = asset
		s.logInfo("Stored screenshot at %s", asset.URL)
	}

	return result, nil
}

// firstPage returns the first canvas of a document, or the document's first child.
func firstPage(doc *figma.Node) *figma.Node {
	for i := range doc.Children {
		if doc.Children[i].Type == figma.NodeTypeCanvas {
			return &doc.Children[i]
		}
	}
	if len(doc.Children) > 0 {
		return &doc.Children[0]
	}
	return nil
}
