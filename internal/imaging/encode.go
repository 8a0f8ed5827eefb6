package imaging

import (
	"bytes"

	"github.com/cristalhq/base64"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/ironsheep/aquavision/internal/enhance"
)

// PNGMimeType is the MIME type of every encoded result.
const PNGMimeType = "image/png"

// EncodePNG encodes an RGB buffer as PNG. PNG is lossless, so enhancement
// output is not degraded by compression artifacts.
func EncodePNG(img *enhance.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, ToNRGBA(img), imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "failed to encode enhanced image")
	}
	return buf.Bytes(), nil
}

// Base64 returns the standard base64 encoding of data.
func Base64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DataURI wraps data as "data:<mimeType>;base64,<payload>".
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + Base64(data)
}

// SaveFile writes img to path. The format is chosen from the file
// extension (.png, .jpg, .jpeg, ...).
func SaveFile(path string, img *enhance.Image) error {
	if err := imaging.Save(ToNRGBA(img), path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	return nil
}
