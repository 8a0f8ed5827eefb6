// Package enhance implements the underwater image enhancement engine.
//
// The engine is a pure, two-stage transformation from an 8-bit RGB image to
// an 8-bit RGB image of the same dimensions:
//
//  1. Local contrast: the image is converted to CIE L*a*b* and the lightness
//     channel is equalized with CLAHE (Contrast Limited Adaptive Histogram
//     Equalization). The a* and b* channels pass through untouched.
//  2. Color balance: each RGB channel is scaled so that its mean matches the
//     mean of all three channels (gray-world assumption).
//
// # Color Conversion
//
// RGB is interpreted as sRGB (IEC 61966-2-1 companding) and converted to
// CIE L*a*b* relative to the D65 white point (0.95047, 1.0, 1.08883) using
// github.com/lucasb-eyer/go-colorful. Lightness is carried in [0,1] (L*/100).
// Conversions back to RGB are clamped to the sRGB gamut and rounded to the
// nearest 8-bit value.
//
// # Rounding
//
// Every float-to-8-bit conversion in this package rounds half away from
// zero. A scale factor of exactly 1 is therefore an identity.
//
// # Thread Safety
//
// An Engine holds only its immutable Options. Enhance may be called from any
// number of goroutines on distinct images. Within one call, rows are
// processed in parallel; all reductions use exact integer arithmetic so the
// output does not depend on scheduling.
package enhance
