package wizard

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"template_builder/internal/types"
)

// DefaultMaxLogoBytes is the upload ceiling used when none is configured.
const DefaultMaxLogoBytes = 5 * 1024 * 1024

var allowedLogoTypes = []string{"image/png", "image/jpeg", "image/gif", "image/svg+xml", "image/webp"}

// TooLargeLogo is the rejection for a file over maxBytes.
func TooLargeLogo(filename string, maxBytes int64) *LogoError {
	return &LogoError{
		Filename: filename,
		Message:  fmt.Sprintf("File is too large. Please upload an image smaller than %s", humanize.IBytes(uint64(maxBytes))),
		Err:      ErrLogoTooLarge,
	}
}

// ReadLogo reads at most maxBytes+1 bytes from r and decodes them as a logo.
func ReadLogo(filename string, r io.Reader, maxBytes int64) (*types.Logo, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxLogoBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, &LogoError{Filename: filename, Message: "Could not read the uploaded file", Err: err}
	}
	return DecodeLogo(filename, data, maxBytes)
}

// DecodeLogo checks size and image type and builds the data URI preview.
func DecodeLogo(filename string, data []byte, maxBytes int64) (*types.Logo, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxLogoBytes
	}
	if len(data) == 0 {
		return nil, &LogoError{Filename: filename, Message: "Please upload an image file", Err: ErrLogoEmpty}
	}
	if int64(len(data)) > maxBytes {
		return nil, TooLargeLogo(filename, maxBytes)
	}

	mtype := mimetype.Detect(data)
	var mimeType string
	for _, allowed := range allowedLogoTypes {
		if mtype.Is(allowed) {
			mimeType = allowed
			break
		}
	}
	if mimeType == "" {
		return nil, &LogoError{
			Filename: filename,
			Message:  "Please upload a PNG, JPEG, GIF, SVG or WebP image",
			Err:      fmt.Errorf("%w: detected %s", ErrLogoType, mtype.String()),
		}
	}

	return &types.Logo{
		Filename: filename,
		MIMEType: mimeType,
		Size:     len(data),
		Data:     data,
		Preview:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
