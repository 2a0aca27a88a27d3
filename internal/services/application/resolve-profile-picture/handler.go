// internal/services/application/resolve-profile-picture/handler.go
package resolveprofilepicture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"hr-intake/internal/common/config"
	apperrors "hr-intake/internal/common/errors"
	"hr-intake/internal/common/logger"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	Operation = "resolve-profile-picture"
)

var (
	ErrNotConfigured  = errors.New("MEDIA_NOT_CONFIGURED")
	ErrInvalidPayload = errors.New("INVALID_IMAGE_PAYLOAD")
	ErrUploadFailed   = errors.New("UPLOAD_FAILED")

	dataURIPattern = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)
	whitespace     = regexp.MustCompile(`\s+`)
)

type Handler struct {
	config   *Config
	uploader Uploader
	logger   logger.Logger
	now      func() time.Time
}

// NewCloudinaryUploader builds the SDK client, or returns ErrNotConfigured
// when any credential is missing.
func NewCloudinaryUploader(cfg config.MediaConfig) (Uploader, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &cld.Upload, nil
}

// NewHandler accepts a nil uploader; every resolution then fails softly.
func NewHandler(config *Config, up Uploader, log logger.Logger) *Handler {
	if config == nil {
		config = &Config{}
	}
	if config.Timeout <= 0 {
		config.Timeout = 20 * time.Second
	}
	return &Handler{
		config:   config,
		uploader: up,
		logger:   log.WithFields(map[string]interface{}{"operation": Operation}),
		now:      time.Now,
	}
}

// Resolve uploads the payload and returns its hosted URL. Every failure is
// logged as UPSTREAM_MEDIA_FAILURE and yields nil; it never fails the caller.
func (h *Handler) Resolve(ctx context.Context, payload, fullName string) *string {
	out, err := h.Execute(ctx, &Input{Payload: payload, FullName: fullName})
	if err != nil {
		stdErr := apperrors.Normalize(err)
		h.logger.Warn("profile picture not stored, continuing without it", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		return nil
	}
	return &out.URL
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.uploader == nil {
		return nil, apperrors.NewUpstreamMediaFailureError(ErrNotConfigured)
	}
	if err := checkDataURI(input.Payload); err != nil {
		return nil, apperrors.NewUpstreamMediaFailureError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	publicID := PublicID(h.now(), input.FullName)
	res, err := h.uploader.Upload(ctx, input.Payload, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         h.config.Folder,
		ResourceType:   "image",
		Transformation: h.config.Transformation,
	})
	if err != nil {
		return nil, apperrors.NewUpstreamMediaFailureError(fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}
	if res == nil || res.Error.Message != "" || res.SecureURL == "" {
		msg := "empty response"
		if res != nil && res.Error.Message != "" {
			msg = res.Error.Message
		}
		return nil, apperrors.NewUpstreamMediaFailureError(fmt.Errorf("%w: %s", ErrUploadFailed, msg))
	}

	h.logger.Info("profile picture uploaded", map[string]interface{}{
		"publicId": res.PublicID,
	})
	return &Output{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// PublicID is profile_<unix millis>_<full name with whitespace runs as underscores>.
func PublicID(now time.Time, fullName string) string {
	return fmt.Sprintf("profile_%d_%s", now.UnixMilli(), whitespace.ReplaceAllString(strings.TrimSpace(fullName), "_"))
}

func checkDataURI(payload string) error {
	loc := dataURIPattern.FindStringIndex(payload)
	if loc == nil {
		return fmt.Errorf("%w: not an image data URI", ErrInvalidPayload)
	}
	data := payload[loc[1]:]
	if data == "" {
		return fmt.Errorf("%w: empty image data", ErrInvalidPayload)
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
