package validation

import (
	"errors"
	"regexp"
	"strings"
)

var dataURLRe = regexp.MustCompile(`^data:image/(jpeg|jpg|png|webp);base64,`)

var (
	ErrImageFormat = errors.New("invalid image format, only JPEG, PNG and WebP are allowed")
	ErrImageSize   = errors.New("image too large")
)

// ValidateImageDataURL checks a base64 data URL against the allowed
// formats and the configured size cap (decoded bytes).
func ValidateImageDataURL(data string, maxBytes int64) error {
	if !dataURLRe.MatchString(data) {
		return ErrImageFormat
	}
	payload := data
	if i := strings.IndexByte(data, ','); i >= 0 {
		payload = data[i+1:]
	}
	if int64(len(payload))*3/4 > maxBytes {
		return ErrImageSize
	}
	return nil
}
