package figmabridge

import (
	"context"
	"fmt"

	"github.com/kataras/figma-bridge/pkg/icons"
	"github.com/kataras/figma-bridge/pkg/imager"
	"github.com/kataras/figma-bridge/pkg/storage"
)

// IconOptions configures Icons.
type IconOptions struct {
	Target
	Download   bool `json:"download,omitempty"`   // render and download every candidate as SVG
	IncludeSVG bool `json:"includeSvg,omitempty"` // return the SVG markup inline (implies Download)
	Store      bool `json:"store,omitempty"`      // persist the SVGs (implies Download)
}

// Icon is a detected icon and, when downloaded, its SVG export.
type Icon struct {
	icons.Candidate
	ParentID string         `json:"parentId"`
	FileName string         `json:"fileName,omitempty"`
	SVG      string         `json:"svg,omitempty"`
	Asset    *storage.Asset `json:"asset,omitempty"`
	Data     []byte         `json:"-"`
}

// IconsResult lists the icons found below the requested nodes.
type IconsResult struct {
	FileKey string   `json:"fileKey"`
	NodeIDs []string `json:"nodeIds"`
	Icons   []Icon   `json:"icons"`
	Errors  []string `json:"errors,omitempty"` // non-fatal per-icon failures
}

// Icons fetches the subtrees of the target nodes and classifies every node below them.
// Candidates are reported in pre-order per requested node. With Download, each distinct
// candidate is rendered once as SVG.
func (s *Service) Icons(ctx context.Context, opts IconOptions) (*IconsResult, error) {
	fileKey, nodeIDs, err := opts.Resolve()
	if err != nil {
		return nil, err
	}
	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one node ID is required", ErrInvalidInput)
	}
	if opts.Store && s.Storage == nil {
		return nil, fmt.Errorf("%w: storage is not configured", ErrInvalidInput)
	}

	s.logInfo("Fetching %d node(s) from file %s...", len(nodeIDs), fileKey)
	nodesResp, err := s.API.GetFileNodes(ctx, fileKey, nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch nodes: %w", err)
	}

	result := &IconsResult{FileKey: fileKey, NodeIDs: nodeIDs, Icons: []Icon{}}
	found := 0
	for _, id := range nodeIDs {
		data := nodesResp.Nodes[id]
		if data == nil {
			s.logWarn("Node %s not found in file %s", id, fileKey)
			continue
		}
		found++
		for _, c := range icons.Classify(&data.Document) {
			result.Icons = append(result.Icons, Icon{Candidate: c, ParentID: id})
		}
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: none of the nodes %v exist in file %s", ErrNotFound, nodeIDs, fileKey)
	}
	s.logInfo("Found %d icon candidate(s)", len(result.Icons))

	if !(opts.Download || opts.IncludeSVG || opts.Store) || len(result.Icons) == 0 {
		return result, nil
	}

	toExport := make(map[string]string, len(result.Icons))
	for _, icon := range result.Icons {
		if _, ok := toExport[icon.ID]; !ok {
			toExport[icon.ID] = icon.Name
		}
	}

	s.logInfo("Exporting %d icon(s) as SVG...", len(toExport))
	exported, err := imager.ExportImages(ctx, s.API, fileKey, toExport, imager.ExportConfig{Format: "svg"})
	if err != nil {
		return nil, fmt.Errorf("export icons: %w", err)
	}
	for _, e := range exported.Errors {
		s.logWarn("%v", e)
		result.Errors = append(result.Errors, e.Error())
	}

	byID := make(map[string]*Icon, len(exported.Assets))
	for _, a := range exported.Assets {
		icon := &Icon{FileName: a.FileName, Data: a.Data}
		if opts.IncludeSVG {
			icon.SVG = string(a.Data)
		}
		if opts.Store {
			asset, err := s.Storage.Save(ctx, storage.Asset{
				Kind:        storage.KindIcon,
				FileKey:     fileKey,
				NodeID:      a.NodeID,
				NodeName:    a.NodeName,
				FileName:    a.FileName,
				ContentType: "image/svg+xml",
			}, a.Data)
			if err != nil {
				s.logError("Failed to store icon %s: %v", a.NodeID, err)
				result.Errors = append(result.Errors, fmt.Sprintf("store %s: %v", a.NodeID, err))
			} else {
				icon.Asset = asset
			}
		}
		byID[a.NodeID] = icon
	}

	for i := range result.Icons {
		if e, ok := byID[result.Icons[i].ID]; ok {
			result.Icons[i].FileName = e.FileName
			result.Icons[i].SVG = e.SVG
			result.Icons[i].Asset = e.Asset
			result.Icons[i].Data = e.Data
		}
	}

	s.logInfo("Exported %d icon(s), %d failure(s)", len(exported.Assets), len(result.Errors))
	return result, nil
}
