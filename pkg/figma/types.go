package figma

import "encoding/json"

// Node types the icon detection and screenshot pipelines care about.
const (
	NodeTypeVector    = "VECTOR"
	NodeTypeFrame     = "FRAME"
	NodeTypeComponent = "COMPONENT"
	NodeTypeInstance  = "INSTANCE"
	NodeTypeGroup     = "GROUP"
	NodeTypeDocument  = "DOCUMENT"
	NodeTypeCanvas    = "CANVAS"
)

// FileResponse represents the complete response from the Figma file API endpoint.
// It contains the file metadata, document structure and schema version information.
type FileResponse struct {
	Name          string `json:"name"`
	LastModified  string `json:"lastModified"`
	ThumbnailURL  string `json:"thumbnailUrl"`
	Version       string `json:"version"`
	Document      Node   `json:"document"`
	SchemaVersion int    `json:"schemaVersion"`
}

// NodesResponse represents the response from the Figma nodes API endpoint when fetching specific nodes.
// It contains file metadata and a map of node IDs to their corresponding NodeData.
// A requested node that does not exist is reported by Figma as a null entry.
type NodesResponse struct {
	Name         string               `json:"name"`
	LastModified string               `json:"lastModified"`
	Version      string               `json:"version"`
	Nodes        map[string]*NodeData `json:"nodes"`
}

// NodeData wraps a node with its document structure and optional component information.
type NodeData struct {
	Document   Node                 `json:"document"`
	Components map[string]Component `json:"components,omitempty"`
}

// Component represents a Figma component definition with its metadata.
type Component struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Node represents a single element in the Figma document tree hierarchy.
// Only the fields used by the screenshot and icon pipelines are decoded;
// a node without a type decodes to an empty Type.
type Node struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name,omitempty"`
	Type                string     `json:"type,omitempty"`
	Visible             *bool      `json:"visible,omitempty"`
	Children            []Node     `json:"children,omitempty"`
	AbsoluteBoundingBox *Rectangle `json:"absoluteBoundingBox,omitempty"`
}

// Rectangle represents a bounding box with position (X, Y) and dimensions (Width, Height).
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Color represents an RGBA color with float values ranging from 0 to 1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// ImagesResponse is returned by the render endpoint: a map of node ID to a
// temporary download URL. A node that could not be rendered maps to an empty URL.
type ImagesResponse struct {
	Err    *string           `json:"err"`
	Images map[string]string `json:"images"`
}

// LocalVariablesResponse is the payload of GET /v1/files/:key/variables/local.
type LocalVariablesResponse struct {
	Status int                `json:"status"`
	Error  bool               `json:"error"`
	Meta   LocalVariablesMeta `json:"meta"`
}

// LocalVariablesMeta holds the variables and their collections keyed by ID.
type LocalVariablesMeta struct {
	Variables           map[string]Variable           `json:"variables"`
	VariableCollections map[string]VariableCollection `json:"variableCollections"`
}

// Variable is a single design variable as defined in Figma. ValuesByMode
// holds raw JSON because a value can be a boolean, number, string, color
// object or a variable alias.
type Variable struct {
	ID                   string                     `json:"id"`
	Name                 string                     `json:"name"`
	Key                  string                     `json:"key"`
	VariableCollectionID string                     `json:"variableCollectionId"`
	ResolvedType         string                     `json:"resolvedType"`
	ValuesByMode         map[string]json.RawMessage `json:"valuesByMode"`
	Remote               bool                       `json:"remote"`
	HiddenFromPublishing bool                       `json:"hiddenFromPublishing"`
}

// VariableCollection groups variables that share a set of modes.
type VariableCollection struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	DefaultModeID string         `json:"defaultModeId"`
	Modes         []VariableMode `json:"modes"`
}

// VariableMode is a named mode (e.g. Light, Dark) of a collection.
type VariableMode struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

// VariableAlias is the value shape Figma uses when a variable points to another one.
type VariableAlias struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}
