package imager

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Output formats supported by Optimize.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// DefaultQuality is used for JPEG output when none is given.
const DefaultQuality = 85

// OptimizeOptions controls resizing and re-encoding.
type OptimizeOptions struct {
	MaxWidth int    // 0 keeps the original width
	Format   string // "png" (default) or "jpeg"/"jpg"
	Quality  int    // JPEG quality 1-100
}

// Optimized is the re-encoded image.
type Optimized struct {
	Data        []byte
	Format      string
	ContentType string
	Width       int
	Height      int
}

// Base64 returns the image bytes as standard Base64.
func (o *Optimized) Base64() string {
	return base64.StdEncoding.EncodeToString(o.Data)
}

// DataURI returns the image as a data: URI usable in an <img> tag.
func (o *Optimized) DataURI() string {
	return "data:" + o.ContentType + ";base64," + o.Base64()
}

// Optimize decodes data (PNG, JPEG, GIF or WebP), scales it down to MaxWidth keeping the
// aspect ratio, and encodes it as PNG or JPEG. Images narrower than MaxWidth are not enlarged.
func Optimize(data []byte, opts OptimizeOptions) (*Optimized, error) {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img := Resize(src, opts.MaxWidth)
	bounds := img.Bounds()

	var buf bytes.Buffer
	out := &Optimized{Format: format, Width: bounds.Dx(), Height: bounds.Dy()}

	switch format {
	case FormatJPEG:
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = DefaultQuality
		}
		if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		out.ContentType = "image/jpeg"
	default:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		out.ContentType = "image/png"
	}

	out.Data = buf.Bytes()
	return out, nil
}

// Resize scales img down so that its width is at most maxWidth.
func Resize(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	height := max(1, int(float64(b.Dy())*float64(maxWidth)/float64(b.Dx())+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// flatten draws img over white; JPEG has no alpha channel.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// ParseFormat maps a requested output format to FormatPNG or FormatJPEG.
func ParseFormat(format string) (string, error) {
	switch format {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatJPEG, "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (must be png or jpeg)", format)
	}
}
