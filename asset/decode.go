package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrEmptyAsset = errors.New("asset: empty")

// Decode turns raw image bytes or a data URI into an image. The returned
// string is the format name registered with the image package.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyAsset
	}
	if IsDataURI(data) {
		_, payload, err := ParseDataURI(data)
		if err != nil {
			return nil, "", err
		}
		data = payload
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("asset: decode: %w", err)
	}
	return img, format, nil
}
