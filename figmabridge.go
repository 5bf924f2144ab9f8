package figmabridge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kataras/figma-bridge/pkg/figma"
	"github.com/kataras/figma-bridge/pkg/storage"
)

var (
	// ErrInvalidInput reports a request the pipelines cannot act on.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound reports a node or render that Figma did not return.
	ErrNotFound = errors.New("not found")
)

// API is the part of the Figma REST API the pipelines use. *figma.Client implements it.
type API interface {
	GetFile(ctx context.Context, fileKey string) (*figma.FileResponse, error)
	GetFileNodes(ctx context.Context, fileKey string, nodeIDs []string) (*figma.NodesResponse, error)
	GetImages(ctx context.Context, fileKey string, nodeIDs []string, format string, scale float64) (*figma.ImagesResponse, error)
	GetLocalVariables(ctx context.Context, fileKey string) (*figma.LocalVariablesResponse, error)
}

// Storage persists generated files. *storage.Store implements it.
type Storage interface {
	Save(ctx context.Context, meta storage.Asset, data []byte) (*storage.Asset, error)
}

// Logger receives progress messages. A nil Logger means silent operation.
// *logrus.Logger satisfies it.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Service runs the screenshot, icon and theme pipelines.
type Service struct {
	API     API
	Storage Storage // nil disables Store options
	Logger  Logger  // nil = no logging
}

// New returns a Service. storage and logger may be nil.
func New(api API, store Storage, logger Logger) *Service {
	return &Service{API: api, Storage: store, Logger: logger}
}

// WithAPI returns a shallow copy of the service that talks to Figma through api,
// e.g. a client carrying a per-request token.
func (s *Service) WithAPI(api API) *Service {
	cp := *s
	cp.API = api
	return &cp
}

func (s *Service) logInfo(f string, a ...any) {
	if s.Logger != nil {
		s.Logger.Infof(f, a...)
	}
}

func (s *Service) logWarn(f string, a ...any) {
	if s.Logger != nil {
		s.Logger.Warnf(f, a...)
	}
}

func (s *Service) logError(f string, a ...any) {
	if s.Logger != nil {
		s.Logger.Errorf(f, a...)
	}
}

// Target identifies a Figma file and, optionally, nodes inside it. Either FileURL or
// FileKey must be set; node IDs found in FileURL are used when NodeIDs is empty.
type Target struct {
	FileURL string   `json:"url,omitempty"`
	FileKey string   `json:"fileKey,omitempty"`
	NodeIDs []string `json:"nodeIds,omitempty"`
}

// Resolve returns the file key and the normalized node IDs of the target.
func (t Target) Resolve() (string, []string, error) {
	fileKey := strings.TrimSpace(t.FileKey)
	var urlNodeIDs []string

	if t.FileURL != "" {
		key, err := figma.ExtractFileKey(t.FileURL)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if fileKey == "" {
			fileKey = key
		}
		urlNodeIDs, err = figma.ExtractNodeIDs(t.FileURL)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if fileKey == "" {
		return "", nil, fmt.Errorf("%w: a Figma file URL or file key is required", ErrInvalidInput)
	}

	nodeIDs := make([]string, 0, len(t.NodeIDs))
	for _, id := range t.NodeIDs {
		if id = strings.TrimSpace(id); id != "" {
			nodeIDs = append(nodeIDs, figma.NormalizeNodeID(id))
		}
	}
	if len(nodeIDs) == 0 {
		nodeIDs = urlNodeIDs
	}

	return fileKey, nodeIDs, nil
}

// ParseNodeIDs parses a comma-separated string of node IDs and returns a slice.
func ParseNodeIDs(nodeIDsStr string) []string {
	parts := strings.Split(nodeIDsStr, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
