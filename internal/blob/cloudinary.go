// Package blob stores report evidence in Cloudinary.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/Vovarama1992/wa-report-bridge/internal/config"
)

// ErrNotConfigured is returned by New when no Cloudinary credentials are set.
var ErrNotConfigured = errors.New("cloudinary is not configured")

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Cloudinary uploads evidence bytes and returns the secure URL of the stored asset.
type Cloudinary struct {
	api    uploadAPI
	folder string
}

// New builds the uploader from CLOUDINARY_URL when set, otherwise from the
// cloud name, key and secret.
func New(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &Cloudinary{api: &cld.Upload, folder: cfg.Folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, data []byte, resourceType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("cloudinary: empty upload")
	}
	if resourceType == "" {
		resourceType = "auto"
	}

	res, err := c.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		ResourceType: resourceType,
		Folder:       c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return "", errors.New("cloudinary upload: empty response")
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary upload: no secure url in response")
	}
	return res.SecureURL, nil
}
