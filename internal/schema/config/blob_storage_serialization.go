package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

func newBlobStorageImpl(provider string) (BlobStorageImpl, error) {
	switch BlobStorageProvider(provider) {
	case BlobStorageProviderMemory:
		return &BlobStorageMemory{Provider: BlobStorageProviderMemory}, nil
	case BlobStorageProviderFilesystem:
		return &BlobStorageFilesystem{Provider: BlobStorageProviderFilesystem}, nil
	case BlobStorageProviderS3, "":
		// S3 when no provider is given
		return &BlobStorageS3{Provider: BlobStorageProviderS3}, nil
	default:
		return nil, fmt.Errorf("unknown blob storage provider %v", provider)
	}
}

func (b *BlobStorage) MarshalYAML() (interface{}, error) {
	if b.InnerVal == nil {
		return nil, nil
	}
	return b.InnerVal, nil
}

// UnmarshalYAML handles unmarshalling from YAML while allowing us to make decisions
// about how the data is unmarshalled based on the concrete type being represented
func (b *BlobStorage) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("blob storage expected a mapping node, got %s", KindToString(value.Kind))
	}

	provider := ""
	for i := 0; i < len(value.Content); i += 2 {
		if value.Content[i].Value == "provider" {
			provider = value.Content[i+1].Value
			break
		}
	}

	bs, err := newBlobStorageImpl(provider)
	if err != nil {
		return err
	}

	if err := value.Decode(bs); err != nil {
		return err
	}

	b.InnerVal = bs
	return nil
}

func (b *BlobStorage) MarshalJSON() ([]byte, error) {
	if b == nil || b.InnerVal == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(b.InnerVal)
}

func (b *BlobStorage) UnmarshalJSON(data []byte) error {
	var probe struct {
		Provider string `json:"provider"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to unmarshal blob storage: %v", err)
	}

	bs, err := newBlobStorageImpl(probe.Provider)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, bs); err != nil {
		return err
	}

	b.InnerVal = bs
	return nil
}
