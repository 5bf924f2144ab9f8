package imager

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kataras/figma-bridge/pkg/figma"
)

// Renderer asks Figma to render nodes. *figma.Client implements it.
type Renderer interface {
	GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*figma.ImagesResponse, error)
}

// ExportConfig holds configuration for image export.
type ExportConfig struct {
	Format string  // "png", "svg", "jpg", "pdf"
	Scale  float64 // raster only; ignored for svg/pdf
}

// ExportedAsset represents a single downloaded render.
type ExportedAsset struct {
	NodeID   string
	NodeName string
	FileName string
	Format   string
	Scale    float64
	Data     []byte
}

// ExportResult holds the results of an image export operation.
type ExportResult struct {
	Assets []ExportedAsset
	Errors []error // non-fatal per-image download failures
}

const maxParallelDownloads = 5

// MaxDownloadSize caps a single downloaded render.
const MaxDownloadSize = 50 << 20

var downloadClient = &http.Client{Timeout: 2 * time.Minute}

// ExportImages renders the given nodes (nodeID -> nodeName) through the render API
// in batches and downloads the results concurrently. Per-node failures are collected in
// ExportResult.Errors; only a failing render call aborts the export. Assets are returned
// sorted by node ID.
func ExportImages(ctx context.Context, r Renderer, fileKey string, nodes map[string]string, config ExportConfig) (*ExportResult, error) {
	result := &ExportResult{}
	usedNames := make(map[string]int) // track filename collisions

	nodeIDs := make([]string, 0, len(nodes))
	for id := range nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	scale := config.Scale
	if config.Format == "svg" || config.Format == "pdf" || scale <= 0 {
		scale = 1
	}

	for i := 0; i < len(nodeIDs); i += figma.MaxNodesPerRequest {
		end := min(i+figma.MaxNodesPerRequest, len(nodeIDs))
		batch := nodeIDs[i:end]

		imgResp, err := r.GetImages(ctx, fileKey, batch, config.Format, scale)
		if err != nil {
			return nil, fmt.Errorf("failed to get images from Figma API: %w", err)
		}

		var wg sync.WaitGroup
		sem := make(chan struct{}, maxParallelDownloads)
		var mu sync.Mutex

		for _, nodeID := range batch {
			imageURL := imgResp.Images[nodeID]
			if imageURL == "" {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Errorf("no image URL returned for node %s", nodeID))
				mu.Unlock()
				continue
			}

			nodeName := nodes[nodeID]
			fileName := uniqueName(usedNames, buildFileName(nodeName, nodeID, config.Format, scale))

			wg.Add(1)
			go func(nID, nName, fName, url string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				data, err := Download(ctx, url)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					result.Errors = append(result.Errors, fmt.Errorf("failed to download %s: %w", nName, err))
					return
				}
				result.Assets = append(result.Assets, ExportedAsset{
					NodeID:   nID,
					NodeName: nName,
					FileName: fName,
					Format:   config.Format,
					Scale:    scale,
					Data:     data,
				})
			}(nodeID, nodeName, fileName, imageURL)
		}

		wg.Wait()
	}

	sort.Slice(result.Assets, func(i, j int) bool {
		return result.Assets[i].NodeID < result.Assets[j].NodeID
	})

	return result, nil
}

// Download performs an HTTP GET and returns the body, refusing bodies over MaxDownloadSize.
func Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading image", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) > MaxDownloadSize {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxDownloadSize)
	}

	return data, nil
}

// uniqueName appends -2, -3, ... to names that were already handed out.
func uniqueName(used map[string]int, fileName string) string {
	count, exists := used[fileName]
	used[fileName] = count + 1
	if !exists {
		return fileName
	}

	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	return uniqueName(used, fmt.Sprintf("%s-%d%s", base, count+1, ext))
}

// FileName returns the kebab-case file name for a node, e.g. "Arrow Left" -> "arrow-left.svg".
func FileName(nodeName, nodeID, format string) string {
	return buildFileName(nodeName, nodeID, format, 1)
}

// buildFileName creates a sanitized filename from a node name.
// Uses kebab-case, adds @2x/@3x suffix for raster scales > 1,
// falls back to sanitized node ID if name is empty.
func buildFileName(nodeName, nodeID, format string, scale float64) string {
	name := nodeName
	if name == "" {
		name = nodeID
	}

	name = toKebabCase(name)
	if name == "" {
		name = "asset"
	}

	scaleSuffix := ""
	if scale > 1 && format != "svg" && format != "pdf" {
		scaleSuffix = fmt.Sprintf("@%gx", scale)
	}

	return fmt.Sprintf("%s%s.%s", name, scaleSuffix, format)
}

// toKebabCase converts a string to kebab-case format (lowercase with hyphens).
func toKebabCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ":", "-")

	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
