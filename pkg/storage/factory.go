package storage

import (
	"context"
	"fmt"

	"github.com/liftmate/liftmate/pkg/config"
)

// New builds the configured selfies bucket
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch Provider(cfg.Provider) {
	case ProviderS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			BaseURL:   cfg.BaseURL,
		})
	case ProviderCloudinary:
		return NewCloudinaryStorage(cfg.CloudinaryURL)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}
