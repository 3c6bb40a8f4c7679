package cards

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kozaktomas/card-generator/internal/constants"
)

var (
	// ErrTooLarge is returned for uploads over constants.MaxImageFileSize.
	ErrTooLarge = errors.New("image is larger than 10MB")
	// ErrNotImage is returned when the uploaded bytes are not an image.
	ErrNotImage = errors.New("file is not an image")
)

// ValidateUpload rejects files that are too large or not images. The content
// type is sniffed from the data, not trusted from the client.
func ValidateUpload(name string, data []byte) error {
	if len(data) > constants.MaxImageFileSize {
		return fmt.Errorf("%s: %w", name, ErrTooLarge)
	}
	head := data
	if len(head) > constants.SniffLength {
		head = head[:constants.SniffLength]
	}
	if ct := http.DetectContentType(head); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%s (%s): %w", name, ct, ErrNotImage)
	}
	return nil
}
