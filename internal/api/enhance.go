package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ironsheep/aquavision/internal/enhance"
	"github.com/ironsheep/aquavision/internal/imaging"
)

// multipartSlack is allowed on top of the upload ceiling for multipart
// framing and other form fields.
const multipartSlack = 1 << 20

// EnhanceResponse is the body of a successful enhancement.
type EnhanceResponse struct {
	Success        bool    `json:"success"`
	EnhancedImage  string  `json:"enhanced_image"`
	ProcessingTime string  `json:"processing_time"`
	Confidence     float64 `json:"confidence"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type engineResult struct {
	img *enhance.Image
	err error
}

func (s *Server) enhanceImageHandler(c *gin.Context) {
	start := time.Now()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+multipartSlack)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.handleError(c, errors.Wrap(imaging.ErrFileTooLarge, "reading multipart body"))
			return
		}
		zap.S().Debugf("Missing upload: %s", err)
		enhanceRequests.WithLabelValues(outcomeRejected).Inc()
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "Field 'file' is required."})
		return
	}

	if err := imaging.ValidateUpload(header.Header.Get("Content-Type"), header.Size, s.cfg.MaxUploadBytes); err != nil {
		s.handleError(c, err)
		return
	}

	data, err := readUpload(header)
	if err != nil {
		s.handleError(c, err)
		return
	}

	encoded, err := s.process(c.Request.Context(), data)
	if err != nil {
		s.handleError(c, err)
		return
	}

	enhanceRequests.WithLabelValues(outcomeOK).Inc()
	c.JSON(http.StatusOK, EnhanceResponse{
		Success:        true,
		EnhancedImage:  imaging.DataURI(imaging.PNGMimeType, encoded),
		ProcessingTime: fmt.Sprintf("%.2fs", time.Since(start).Seconds()),
		Confidence:     s.cfg.Confidence,
	})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, errors.Wrap(err, "opening upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrap(err, "reading upload")
	}
	return data, nil
}

// process turns upload bytes into the encoded PNG of the enhanced image.
// Identical uploads are served from the result cache. The engine runs on a
// semaphore slot under the configured timeout; a request that times out
// stops waiting, but the slot is held until the engine returns.
func (s *Server) process(ctx context.Context, data []byte) ([]byte, error) {
	if encoded, ok := s.cache.Get(data); ok {
		cacheHits.Inc()
		return encoded, nil
	}

	img, format, err := imaging.Decode(data, s.cfg.MaxImagePixels)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("Decoded %s upload: %dx%d", format, img.Width, img.Height)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.EnhanceTimeout)
	defer cancel()

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "waiting for an enhancement slot")
	}

	done := make(chan engineResult, 1)
	go func() {
		defer s.slots.Release(1)
		began := time.Now()
		out, err := s.engine.Enhance(img)
		engineSeconds.Observe(time.Since(began).Seconds())
		done <- engineResult{img: out, err: err}
	}()

	var res engineResult
	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "enhancing image")
	case res = <-done:
	}
	if res.err != nil {
		return nil, errors.Wrap(res.err, "enhancing image")
	}

	encoded, err := imaging.EncodePNG(res.img)
	if err != nil {
		return nil, err
	}
	s.cache.Add(data, encoded)
	return encoded, nil
}

// statusClientClosedRequest is the nginx convention for a request whose
// client disconnected before a response was written.
const statusClientClosedRequest = 499

// handleError maps a failure to its status code and client-facing detail.
func (s *Server) handleError(c *gin.Context, err error) {
	var decodeErr *imaging.DecodeError

	switch {
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		s.reject(c, http.StatusBadRequest, outcomeRejected, err,
			"Invalid image format. Only JPEG and PNG are supported.")
	case errors.Is(err, imaging.ErrFileTooLarge):
		s.reject(c, http.StatusBadRequest, outcomeRejected, err,
			fmt.Sprintf("File size exceeds the %s limit.", formatLimit(s.cfg.MaxUploadBytes)))
	case errors.As(err, &decodeErr):
		s.reject(c, http.StatusBadRequest, outcomeRejected, err,
			"Invalid or corrupted image file.")
	case errors.Is(err, context.DeadlineExceeded):
		s.reject(c, http.StatusGatewayTimeout, outcomeTimeout, err,
			"Image processing timed out.")
	case errors.Is(err, context.Canceled):
		zap.S().Debugw("Client went away before enhancement finished", "error", err)
		enhanceRequests.WithLabelValues(outcomeCanceled).Inc()
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		zap.S().Errorw("Enhancement error", "error", err)
		enhanceRequests.WithLabelValues(outcomeError).Inc()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error during image processing."})
	}
}

func (s *Server) reject(c *gin.Context, status int, outcome string, err error, detail string) {
	zap.S().Warnw("Enhancement request rejected", "status", status, "error", err)
	enhanceRequests.WithLabelValues(outcome).Inc()
	c.JSON(status, ErrorResponse{Detail: detail})
}

// formatLimit renders a byte ceiling the way clients are told about it.
func formatLimit(limit int64) string {
	if limit >= 1<<20 && limit%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", limit>>20)
	}
	return fmt.Sprintf("%d byte", limit)
}
