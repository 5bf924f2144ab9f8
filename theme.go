package figmabridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kataras/figma-bridge/pkg/figma"
	"github.com/kataras/figma-bridge/pkg/formatter"
	"github.com/kataras/figma-bridge/pkg/storage"
	"github.com/kataras/figma-bridge/pkg/theme"
)

// ThemeOptions configures Theme. Variables, when non-nil, are mapped directly and no
// Figma call is made; otherwise the local variables of the target file are fetched.
type ThemeOptions struct {
	Target
	Variables []theme.Variable `json:"variables,omitempty"`
	Format    string           `json:"format,omitempty"` // js (default), json or css
	Store     bool             `json:"store,omitempty"`
}

// ThemeResult is the mapped theme and its serialized Tailwind config.
type ThemeResult struct {
	FileKey   string         `json:"fileKey,omitempty"`
	Variables int            `json:"variables"`
	Theme     theme.Theme    `json:"theme"`
	Format    string         `json:"format"`
	Config    string         `json:"config"`
	Asset     *storage.Asset `json:"asset,omitempty"`
}

// Theme maps design variables into a Tailwind theme.
func (s *Service) Theme(ctx context.Context, opts ThemeOptions) (*ThemeResult, error) {
	format := opts.Format
	if format == "" {
		format = formatter.FormatJS
	}
	if !formatter.ValidFormat(format) {
		return nil, fmt.Errorf("%w: unsupported config format %q (must be js, json or css)", ErrInvalidInput, format)
	}
	if opts.Store && s.Storage == nil {
		return nil, fmt.Errorf("%w: storage is not configured", ErrInvalidInput)
	}

	result := &ThemeResult{Format: format}
	vars := opts.Variables

	if vars == nil {
		fileKey, _, err := opts.Resolve()
		if err != nil {
			return nil, err
		}
		result.FileKey = fileKey

		s.logInfo("Fetching local variables of file %s...", fileKey)
		resp, err := s.API.GetLocalVariables(ctx, fileKey)
		if err != nil {
			return nil, fmt.Errorf("fetch variables: %w", err)
		}
		vars = fromFigma(resp.Variables())
	}

	result.Variables = len(vars)
	result.Theme = theme.Map(vars)

	config, err := formatter.ToConfig(result.Theme, format)
	if err != nil {
		return nil, err
	}
	result.Config = config
	s.logInfo("Mapped %d variable(s) into %d theme section(s)", len(vars), len(result.Theme))

	if opts.Store {
		asset, err := s.Storage.Save(ctx, storage.Asset{
			Kind:        storage.KindTheme,
			FileKey:     result.FileKey,
			FileName:    ConfigFileName(format),
			ContentType: configContentType(format),
		}, []byte(config))
		if err != nil {
			return nil, fmt.Errorf("store theme: %w", err)
		}
		result.Asset = asset
		s.logInfo("Stored theme at %s", asset.URL)
	}

	return result, nil
}

// ConfigFileName returns the conventional file name for a config format.
func ConfigFileName(format string) string {
	switch format {
	case formatter.FormatJSON:
		return "tailwind.config.json"
	case formatter.FormatCSS:
		return "theme.css"
	default:
		return "tailwind.config.js"
	}
}

func configContentType(format string) string {
	switch format {
	case formatter.FormatJSON:
		return "application/json"
	case formatter.FormatCSS:
		return "text/css; charset=utf-8"
	default:
		return "text/javascript; charset=utf-8"
	}
}

// ParseVariables decodes a variables payload. Three shapes are accepted: a JSON array of
// {name, type, value} objects, an object carrying such an array under "variables", and
// the raw response of Figma's local variables endpoint.
func ParseVariables(data []byte) ([]theme.Variable, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty variables payload", ErrInvalidInput)
	}

	if data[0] == '[' {
		var vars []theme.Variable
		if err := json.Unmarshal(data, &vars); err != nil {
			return nil, fmt.Errorf("%w: parse variables: %v", ErrInvalidInput, err)
		}
		return vars, nil
	}

	var probe struct {
		Variables []theme.Variable `json:"variables"`
		Meta      json.RawMessage  `json:"meta"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: parse variables: %v", ErrInvalidInput, err)
	}

	switch {
	case probe.Variables != nil:
		return probe.Variables, nil
	case probe.Meta != nil:
		var resp figma.LocalVariablesResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("%w: parse local variables: %v", ErrInvalidInput, err)
		}
		return fromFigma(resp.Variables()), nil
	default:
		return nil, fmt.Errorf("%w: payload has neither \"variables\" nor \"meta\"", ErrInvalidInput)
	}
}

func fromFigma(flat []figma.FlatVariable) []theme.Variable {
	vars := make([]theme.Variable, 0, len(flat))
	for _, v := range flat {
		vars = append(vars, theme.Variable{Name: v.Name, Type: v.Type, Value: v.Value})
	}
	return vars
}
