package config

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Salehmangrio/postbase/internal/schema/common"
)

type BlobStorageProvider string

const (
	BlobStorageProviderS3         BlobStorageProvider = "s3"
	BlobStorageProviderMemory     BlobStorageProvider = "memory"
	BlobStorageProviderFilesystem BlobStorageProvider = "filesystem"
)

// BlobStorageImpl is the interface implemented by concrete blob storage configurations.
type BlobStorageImpl interface {
	GetProvider() BlobStorageProvider
	Validate(vc *common.ValidationContext) error
}

// BlobStorage is the holder for a BlobStorageImpl instance.
type BlobStorage struct {
	InnerVal BlobStorageImpl `json:"-" yaml:"-"`
}

func (b *BlobStorage) GetProvider() BlobStorageProvider {
	if b == nil || b.InnerVal == nil {
		return ""
	}
	return b.InnerVal.GetProvider()
}

func (b *BlobStorage) Validate(vc *common.ValidationContext) error {
	if b == nil || b.InnerVal == nil {
		return nil
	}
	return b.InnerVal.Validate(vc)
}

type BlobStorageMemory struct {
	Provider BlobStorageProvider `json:"provider" yaml:"provider"`
}

func (b *BlobStorageMemory) GetProvider() BlobStorageProvider {
	return BlobStorageProviderMemory
}

func (b *BlobStorageMemory) Validate(_ *common.ValidationContext) error {
	return nil
}

// BlobStorageFilesystem keeps blobs as files below Path.
type BlobStorageFilesystem struct {
	Provider BlobStorageProvider `json:"provider" yaml:"provider"`
	Path     string              `json:"path" yaml:"path"`
}

func (b *BlobStorageFilesystem) GetProvider() BlobStorageProvider {
	return BlobStorageProviderFilesystem
}

func (b *BlobStorageFilesystem) Validate(vc *common.ValidationContext) error {
	if b.Path == "" {
		return vc.NewErrorForField("path", "path must be specified")
	}
	return nil
}

type BlobStorageS3 struct {
	Provider       BlobStorageProvider `json:"provider" yaml:"provider"`
	Endpoint       string              `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Region         string              `json:"region,omitempty" yaml:"region,omitempty"`
	Bucket         string              `json:"bucket" yaml:"bucket"`
	Credentials    *AwsCredentials     `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	ForcePathStyle bool                `json:"force_path_style,omitempty" yaml:"force_path_style,omitempty"`
	Prefix         string              `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	PresignTTL     *HumanDuration      `json:"presign_ttl,omitempty" yaml:"presign_ttl,omitempty"`
}

func (b *BlobStorageS3) GetProvider() BlobStorageProvider {
	return BlobStorageProviderS3
}

// GetPresignTTL is how long preview URLs handed out for this store stay valid.
func (b *BlobStorageS3) GetPresignTTL() time.Duration {
	return b.PresignTTL.OrDefault(15 * time.Minute)
}

func (b *BlobStorageS3) GetAwsConfigLoadOptions(ctx context.Context) ([]func(*awsconfig.LoadOptions) error, error) {
	opts, err := b.Credentials.GetAwsConfigLoadOptions(ctx)
	if err != nil {
		return nil, err
	}

	if b.Region != "" {
		opts = append(opts, awsconfig.WithRegion(b.Region))
	}

	return opts, nil
}

func (b *BlobStorageS3) GetS3Options() []func(*s3.Options) {
	s3Opts := make([]func(*s3.Options), 0)

	if b.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(b.Endpoint)
		})
	}

	if b.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return s3Opts
}

func (b *BlobStorageS3) Validate(vc *common.ValidationContext) error {
	if b.Bucket == "" {
		return vc.NewErrorForField("bucket", "bucket must be specified")
	}
	return nil
}

var _ BlobStorageImpl = (*BlobStorage)(nil)
var _ BlobStorageImpl = (*BlobStorageMemory)(nil)
var _ BlobStorageImpl = (*BlobStorageFilesystem)(nil)
var _ BlobStorageImpl = (*BlobStorageS3)(nil)
