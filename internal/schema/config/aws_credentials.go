package config

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/pkg/errors"
)

type AwsCredentialsType string

const (
	AwsCredentialsTypeAccessKey AwsCredentialsType = "access_key"
	AwsCredentialsTypeImplicit  AwsCredentialsType = "implicit"
)

type AwsCredentialsImpl interface {
	GetCredentialsType() AwsCredentialsType
	GetAwsConfigLoadOptions(ctx context.Context) ([]func(*awsconfig.LoadOptions) error, error)
}

// AwsCredentials is the holder for a AwsCredentialsImpl instance.
type AwsCredentials struct {
	InnerVal AwsCredentialsImpl `json:"-" yaml:"-"`
}

func (c *AwsCredentials) GetCredentialsType() AwsCredentialsType {
	if c == nil || c.InnerVal == nil {
		return ""
	}
	return c.InnerVal.GetCredentialsType()
}

func (c *AwsCredentials) GetAwsConfigLoadOptions(ctx context.Context) ([]func(*awsconfig.LoadOptions) error, error) {
	if c == nil || c.InnerVal == nil {
		return nil, nil
	}

	return c.InnerVal.GetAwsConfigLoadOptions(ctx)
}

// AwsCredentialsAccessKey provides a static access key pair.
type AwsCredentialsAccessKey struct {
	Type            AwsCredentialsType `json:"type" yaml:"type"`
	AccessKeyID     *StringValue       `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey *StringValue       `json:"secret_access_key" yaml:"secret_access_key"`
}

func (c *AwsCredentialsAccessKey) GetCredentialsType() AwsCredentialsType {
	return AwsCredentialsTypeAccessKey
}

func (c *AwsCredentialsAccessKey) GetAwsConfigLoadOptions(ctx context.Context) ([]func(*awsconfig.LoadOptions) error, error) {
	if c.AccessKeyID == nil || c.SecretAccessKey == nil {
		return nil, errors.New("access key credentials require access_key_id and secret_access_key")
	}

	accessKey, err := c.AccessKeyID.GetValue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve blob storage access key ID")
	}
	secretKey, err := c.SecretAccessKey.GetValue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve blob storage secret access key")
	}

	return []func(*awsconfig.LoadOptions) error{
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	}, nil
}

// AwsCredentialsImplicit defers to the default AWS credential chain (environment, shared files, instance roles).
type AwsCredentialsImplicit struct {
	Type AwsCredentialsType `json:"type" yaml:"type"`
}

func (c *AwsCredentialsImplicit) GetCredentialsType() AwsCredentialsType {
	return AwsCredentialsTypeImplicit
}

func (c *AwsCredentialsImplicit) GetAwsConfigLoadOptions(_ context.Context) ([]func(*awsconfig.LoadOptions) error, error) {
	return nil, nil
}

var _ AwsCredentialsImpl = (*AwsCredentials)(nil)
var _ AwsCredentialsImpl = (*AwsCredentialsAccessKey)(nil)
var _ AwsCredentialsImpl = (*AwsCredentialsImplicit)(nil)
