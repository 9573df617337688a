// Package media uploads user-supplied images to object storage.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/config"
)

// ErrUploadsDisabled is returned when no storage backend is configured.
var ErrUploadsDisabled = errors.New("media uploads are not configured")

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error)
}

// CloudinaryUploader uploads images to Cloudinary.
type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

// NewUploader returns a Cloudinary uploader, or a disabled one when CLOUDINARY_URL is empty.
func NewUploader(cfg config.CloudinaryConfig, logger *zap.Logger) (Uploader, error) {
	if cfg.URL == "" {
		logger.Info("cloudinary not configured; student ID uploads disabled")
		return Disabled{}, nil
	}
	cloud, err := cld.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cloud}, nil
}

func (u *CloudinaryUploader) UploadBytes(ctx context.Context, folder, filename string, b []byte) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(b), uploader.UploadParams{
		Folder:       folder,
		PublicID:     filename,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}

// Disabled rejects every upload.
type Disabled struct{}

func (Disabled) UploadBytes(context.Context, string, string, []byte) (string, error) {
	return "", ErrUploadsDisabled
}
