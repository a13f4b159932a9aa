package storage

import (
	"fmt"

	"github.com/gravadigital/atelier-api/internal/config"
	"github.com/gravadigital/atelier-api/internal/storage/redis"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypeRedis represents Redis storage
	StorageTypeRedis StorageType = "redis"
)

// Factory provides a factory pattern for creating storage containers
type Factory struct {
	storageType StorageType
}

// NewFactory creates a new storage factory
func NewFactory(storageType StorageType) *Factory {
	return &Factory{
		storageType: storageType,
	}
}

// CreateContainer creates a storage container based on the configured type
func (f *Factory) CreateContainer(cfg *config.Config) (*redis.Container, error) {
	switch f.storageType {
	case StorageTypeRedis:
		return redis.NewContainer(redis.New(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.storageType)
	}
}

// GetSupportedTypes returns a list of supported storage types
func GetSupportedTypes() []StorageType {
	return []StorageType{
		StorageTypeRedis,
	}
}

// DefaultFactory returns a factory configured with the default storage type
func DefaultFactory() *Factory {
	return NewFactory(StorageTypeRedis)
}
