// Package storage handles media uploads (deposit receipts, avatars, covers)
// through Cloudinary, guarded by a circuit breaker.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/google/uuid"
	"github.com/zarena/platform/internal/domain"
	"github.com/zarena/platform/internal/guard"
)

// Folders by upload purpose. Receipts are reviewed by staff and never served
// publicly; avatars and covers are.
const (
	FolderReceipts = "zarena/receipts"
	FolderAvatars  = "zarena/avatars"
	FolderCovers   = "zarena/covers"
)

const circuitKey = "cloudinary"

// Eager transformation applied at upload time so the CDN serves an already
// optimized rendition.
const imageEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsyncFalse = false

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (string, error)
}

// CloudinaryUploader implements Uploader against the Cloudinary upload API.
type CloudinaryUploader struct {
	cloudName string
	uploader  *uploader.API
	breaker   *guard.CircuitBreaker
}

// NewCloudinaryUploader builds an uploader from API credentials.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string, breaker *guard.CircuitBreaker) (*CloudinaryUploader, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, fmt.Errorf("cloudinary uploader: %w", err)
	}
	return &CloudinaryUploader{cloudName: cloudName, uploader: up, breaker: breaker}, nil
}

// UploadImage uploads one image and returns the secure URL. When Cloudinary
// has been failing, the breaker rejects immediately instead of stacking
// requests against a dead upstream.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	if res := u.breaker.Check(ctx, circuitKey); !res.Allowed {
		return "", domain.ErrInternal("media upload unavailable: "+res.Reason, nil)
	}

	publicID := "img_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	result, err := u.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		u.breaker.RecordFailure(circuitKey)
		return "", domain.ErrInternal("media upload failed", err)
	}

	u.breaker.RecordSuccess(circuitKey)
	return result.SecureURL, nil
}
