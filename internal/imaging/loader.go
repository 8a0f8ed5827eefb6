package imaging

import (
	"bytes"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"mime"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/ironsheep/aquavision/internal/enhance"
)

// DefaultMaxUploadBytes is the upload ceiling used when none is configured.
const DefaultMaxUploadBytes = 10 * 1024 * 1024

var (
	// ErrUnsupportedFormat is returned for content other than JPEG or PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrFileTooLarge is returned for uploads above the size ceiling.
	ErrFileTooLarge = errors.New("file exceeds upload size limit")
)

// contentTypes maps accepted upload MIME types to the decoder format name.
var contentTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/jpg":  "jpeg",
	"image/png":  "png",
}

// DecodeError reports that upload bytes could not be turned into a
// well-formed RGB buffer.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "failed to decode image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidateUpload checks an upload's declared content type and size before
// any decoding happens.
//
// Parameters:
//   - contentType: The MIME type sent by the client. Parameters such as
//     "; charset=..." are ignored.
//   - size: Upload size in bytes.
//   - limit: Maximum accepted size in bytes. Zero or negative disables the check.
//
// # Errors
//
//   - ErrUnsupportedFormat if the type is not image/jpeg, image/jpg or image/png
//   - ErrFileTooLarge if size exceeds limit
func ValidateUpload(contentType string, size, limit int64) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}
	if _, ok := contentTypes[strings.ToLower(mediaType)]; !ok {
		return errors.Wrapf(ErrUnsupportedFormat, "content type %q", contentType)
	}
	if limit > 0 && size > limit {
		return errors.Wrapf(ErrFileTooLarge, "%d bytes exceeds %d", size, limit)
	}
	return nil
}

// Decode turns JPEG or PNG bytes into an RGB buffer for the engine.
//
// Parameters:
//   - data: Raw file contents.
//   - maxPixels: Upper bound on width*height, checked from the header before
//     the pixel data is decoded. Zero or negative disables the check.
//
// Returns:
//   - *enhance.Image: The decoded image with EXIF orientation applied.
//   - string: The detected format, "jpeg" or "png".
//   - error: A *DecodeError on any failure.
func Decode(data []byte, maxPixels int) (*enhance.Image, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	if format != "jpeg" && format != "png" {
		return nil, "", &DecodeError{Err: errors.Wrapf(ErrUnsupportedFormat, "detected %s", format)}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", &DecodeError{Err: errors.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height)}
	}
	if maxPixels > 0 && cfg.Width*cfg.Height > maxPixels {
		return nil, "", &DecodeError{Err: errors.Errorf("image has %d pixels, limit is %d", cfg.Width*cfg.Height, maxPixels)}
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}

	return FromImage(src), format, nil
}

// LoadFile reads and decodes an image file. See Decode.
func LoadFile(path string, maxPixels int) (*enhance.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read image")
	}
	return Decode(data, maxPixels)
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels, before EXIF orientation.
	Width int `json:"width"`

	// Height is the image height in pixels, before EXIF orientation.
	Height int `json:"height"`

	// Format is the detected format: "png" or "jpeg".
	Format string `json:"format"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads only the image header and returns its metadata.
//
// Unlike LoadFile this does not decode pixel data, so it is cheap even for
// very large files. Formats other than JPEG and PNG are rejected.
func LoadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open image")
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if format != "jpeg" && format != "png" {
		return nil, &DecodeError{Err: errors.Wrapf(ErrUnsupportedFormat, "detected %s", format)}
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
