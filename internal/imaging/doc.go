// Package imaging sits between raw upload bytes and the enhancement engine.
//
// It validates uploads, decodes JPEG and PNG data into enhance.Image
// buffers, encodes results back to PNG, wraps them as data URIs, reports
// per-channel statistics, and caches encoded results by content hash.
//
// # Pixel Layout
//
// Decoded images are always 3-channel 8-bit RGB with the origin at the
// top-left corner. Alpha is discarded on decode; encoded output is fully
// opaque. EXIF orientation is applied while decoding so the engine always
// sees the image the way a viewer would display it.
//
// # Error Handling
//
// Functions return errors for:
//   - Content types other than JPEG and PNG (ErrUnsupportedFormat)
//   - Uploads above the configured size ceiling (ErrFileTooLarge)
//   - Bytes that cannot be decoded, or decode to too many pixels (*DecodeError)
//   - File I/O and encoding failures
//
// Use errors.Is and errors.As to branch on these.
//
// # Thread Safety
//
// ResultCache is safe for concurrent use. All other functions are stateless.
package imaging
