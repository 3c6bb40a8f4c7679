// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// File upload constants
const (
	// MaxImageFileSize is the maximum size of a single uploaded image (10MB)
	MaxImageFileSize = 10 << 20

	// MaxUploadSize is the maximum size of a multipart upload request (100MB)
	MaxUploadSize = 100 << 20

	// SniffLength is the number of leading bytes used to detect a file's content type
	SniffLength = 512
)

// Crop constants
const (
	// MinCropPixels is the smallest crop edge, in native pixels, that is applied.
	// Smaller selections are treated as accidental clicks.
	MinCropPixels = 10

	// PreviewMaxEdge is the longest edge of the image shown in the crop editor
	PreviewMaxEdge = 1024
)

// Label fitting constants
const (
	// LabelStartRatio is the starting font size as a share of the label height
	LabelStartRatio = 0.8

	// LabelFontStep is how much the font size shrinks per attempt, in pixels
	LabelFontStep = 2

	// LabelMinFontSize is the floor font size, used even when the text overflows
	LabelMinFontSize = 20

	// LabelFillRatio is the share of the available box text may occupy
	LabelFillRatio = 0.95

	// LabelLineHeight approximates line height as a multiple of font size
	LabelLineHeight = 1.2
)

// Rendering constants
const (
	// DefaultRenderConcurrency is the number of cards rendered in parallel for batch operations
	DefaultRenderConcurrency = 4

	// PrintDPI is the raster density of cards embedded in PDF sheets
	PrintDPI = 300

	// LowResDPIThreshold is the effective DPI below which a printed image is reported as low resolution
	LowResDPIThreshold = 200

	// DuplicateHashDistance is the largest difference hash distance at which two card images are reported as duplicates
	DuplicateHashDistance = 5

	// PrintDelayMillis is how long a print document waits after load before opening the print dialog
	PrintDelayMillis = 500
)

// Style defaults
const (
	// DefaultBorderColor is the card border colour
	DefaultBorderColor = "#2D5A27"

	// DefaultFontFamily is the label font family
	DefaultFontFamily = "Comic Sans MS"
)
