package server

import (
	"net/http"
	"strconv"

	figmabridge "github.com/kataras/figma-bridge"
	"github.com/kataras/figma-bridge/pkg/figma"
	"github.com/kataras/figma-bridge/pkg/icons"
	"github.com/kataras/figma-bridge/pkg/storage"
	"github.com/kataras/figma-bridge/pkg/theme"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	ok(c, gin.H{
		"status":  "ok",
		"version": figma.Version,
		"storage": s.store != nil,
		"oauth":   s.oauth != nil,
	})
}

const noTokenMessage = "no Figma token: configure figma.token or send an X-Figma-Token header"

type screenshotRequest struct {
	URL      string  `json:"url"`
	FileKey  string  `json:"fileKey"`
	NodeID   string  `json:"nodeId"`
	Scale    float64 `json:"scale"`
	MaxWidth *int    `json:"maxWidth"` // nil selects image.max_width, 0 keeps the rendered width
	Format   string  `json:"format"`
	Quality  int     `json:"quality" binding:"omitempty,min=1,max=100"`
	Store    bool    `json:"store"`
	DataURI  bool    `json:"dataUri"`
}

type screenshotResponse struct {
	*figmabridge.ScreenshotResult
	DataURI string `json:"dataUri,omitempty"`
	URL     string `json:"url,omitempty"`
}

func (s *Server) screenshot(c *gin.Context) {
	var req screenshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	svc, hasAPI := s.service(c)
	if !hasAPI {
		fail(c, http.StatusUnauthorized, noTokenMessage)
		return
	}

	opts := figmabridge.ScreenshotOptions{
		Target:   target(req.URL, req.FileKey, req.NodeID, nil),
		Scale:    req.Scale,
		MaxWidth: s.cfg.Image.MaxWidth,
		Format:   req.Format,
		Quality:  req.Quality,
		Store:    req.Store,
	}
	if req.MaxWidth != nil {
		opts.MaxWidth = *req.MaxWidth
	}
	if opts.Format == "" {
		opts.Format = s.cfg.Image.Format
	}
	if opts.Quality == 0 {
		opts.Quality = s.cfg.Image.Quality
	}

	res, err := svc.Screenshot(c.Request.Context(), opts)
	if err != nil {
		failErr(c, err)
		return
	}

	resp := screenshotResponse{ScreenshotResult: res}
	if req.DataURI {
		resp.DataURI = "data:" + res.ContentType + ";base64," + res.Base64
	}
	if res.Asset != nil {
		resp.URL = res.Asset.URL
	}
	ok(c, resp)
}

type iconsRequest struct {
	URL        string   `json:"url"`
	FileKey    string   `json:"fileKey"`
	NodeID     string   `json:"nodeId"`
	NodeIDs    []string `json:"nodeIds"`
	Download   bool     `json:"download"`
	IncludeSVG bool     `json:"includeSvg"`
	Store      bool     `json:"store"`
}

type iconResponse struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     icons.Kind `json:"kind"`
	ParentID string     `json:"parentId"`
	FileName string     `json:"fileName,omitempty"`
	URL      string     `json:"url,omitempty"`
	SVG      string     `json:"svg,omitempty"`
}

func (s *Server) icons(c *gin.Context) {
	var req iconsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	svc, hasAPI := s.service(c)
	if !hasAPI {
		fail(c, http.StatusUnauthorized, noTokenMessage)
		return
	}

	res, err := svc.Icons(c.Request.Context(), figmabridge.IconOptions{
		Target:     target(req.URL, req.FileKey, req.NodeID, req.NodeIDs),
		Download:   req.Download,
		IncludeSVG: req.IncludeSVG,
		Store:      req.Store,
	})
	if err != nil {
		failErr(c, err)
		return
	}

	out := make([]iconResponse, 0, len(res.Icons))
	for _, icon := range res.Icons {
		item := iconResponse{
			ID:       icon.ID,
			Name:     icon.Name,
			Kind:     icon.Kind,
			ParentID: icon.ParentID,
			FileName: icon.FileName,
			SVG:      icon.SVG,
		}
		if icon.Asset != nil {
			item.URL = icon.Asset.URL
		}
		out = append(out, item)
	}

	ok(c, gin.H{
		"fileKey": res.FileKey,
		"nodeIds": res.NodeIDs,
		"icons":   out,
		"errors":  res.Errors,
	})
}

type themeRequest struct {
	URL       string           `json:"url"`
	FileKey   string           `json:"fileKey"`
	Variables []theme.Variable `json:"variables"`
	Format    string           `json:"format"`
	Store     bool             `json:"store"`
}

func (s *Server) theme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	svc := s.svc
	if req.Variables == nil {
		var hasAPI bool
		if svc, hasAPI = s.service(c); !hasAPI {
			fail(c, http.StatusUnauthorized, noTokenMessage)
			return
		}
	}

	res, err := svc.Theme(c.Request.Context(), figmabridge.ThemeOptions{
		Target:    target(req.URL, req.FileKey, "", nil),
		Variables: req.Variables,
		Format:    req.Format,
		Store:     req.Store,
	})
	if err != nil {
		failErr(c, err)
		return
	}

	ok(c, res)
}

func (s *Server) assets(c *gin.Context) {
	if s.store == nil {
		fail(c, http.StatusNotFound, "storage is not configured")
		return
	}

	kind := c.Query("kind")
	switch kind {
	case "", storage.KindScreenshot, storage.KindIcon, storage.KindTheme:
	default:
		fail(c, http.StatusBadRequest, "kind must be one of screenshot, icon or theme")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			fail(c, http.StatusBadRequest, "limit must be a number between 1 and 500")
			return
		}
		limit = n
	}

	list, err := s.store.List(c.Request.Context(), kind, limit)
	if err != nil {
		failErr(c, err)
		return
	}

	ok(c, gin.H{"assets": list})
}

func target(url, fileKey, nodeID string, nodeIDs []string) figmabridge.Target {
	if nodeID != "" {
		nodeIDs = append([]string{nodeID}, nodeIDs...)
	}
	return figmabridge.Target{FileURL: url, FileKey: fileKey, NodeIDs: nodeIDs}
}
