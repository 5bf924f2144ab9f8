// Package figmabridge wraps the Figma REST API for three jobs: optimized screenshots of
// a node, icon detection and SVG export below a node, and a Tailwind theme built from
// the file's design variables.
//
// The CLI lives in cmd/figma-bridge and the HTTP API in internal/server; both drive the
// same [Service], which can be embedded in other tools as well.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named figmabridge:
//
//	import "github.com/kataras/figma-bridge" // package figmabridge
//
// # Quick start
//
//	client := figma.NewClient(os.Getenv("FIGMA_TOKEN"))
//	svc := figmabridge.New(client, nil, nil)
//
//	shot, err := svc.Screenshot(ctx, figmabridge.ScreenshotOptions{
//	    Target:   figmabridge.Target{FileURL: "https://www.figma.com/design/ABC123/App?node-id=1-2"},
//	    MaxWidth: 1280,
//	})
//
//	found, err := svc.Icons(ctx, figmabridge.IconOptions{
//	    Target:     figmabridge.Target{FileKey: "ABC123", NodeIDs: []string{"1:2"}},
//	    IncludeSVG: true,
//	})
//
//	th, err := svc.Theme(ctx, figmabridge.ThemeOptions{
//	    Target: figmabridge.Target{FileKey: "ABC123"},
//	    Format: "json",
//	})
//	os.WriteFile("tailwind.config.json", []byte(th.Config), 0644)
//
// # Logging
//
// Pass a [Logger] implementation to receive progress messages. A nil Logger
// silences all output. A *logrus.Logger can be passed as is.
//
// # Storage
//
// With a [Storage] attached, the Store option of each pipeline writes the produced
// files to disk and returns their public URL. Without one, Store is rejected with
// [ErrInvalidInput].
package figmabridge
