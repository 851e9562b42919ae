package config

import (
	"fmt"

	"github.com/ygrebnov/distributor"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDistributor(); err != nil {
		return err
	}
	if err := c.validateIterator(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDistributor() error {
	d := c.Distributor
	switch {
	case d.QueueSize <= 0:
		return fmt.Errorf("%w: distributor.queue_size must be > 0", distributor.ErrInvalidConfig)
	case d.MaxWait < 0:
		return fmt.Errorf("%w: distributor.max_wait must be >= 0", distributor.ErrInvalidConfig)
	case d.Consumers < 0:
		return fmt.Errorf("%w: distributor.consumers must be >= 0", distributor.ErrInvalidConfig)
	case d.Rate < 0:
		return fmt.Errorf("%w: distributor.rate must be >= 0", distributor.ErrInvalidConfig)
	case d.Rate > 0 && d.Burst <= 0:
		return fmt.Errorf("%w: distributor.burst must be > 0 when rate is set", distributor.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) validateIterator() error {
	it := c.Iterator
	switch it.Type {
	case "slice":
		return nil
	case "filelist":
		if it.Path == "" {
			return fmt.Errorf("%w: iterator.path is required for filelist", distributor.ErrInvalidConfig)
		}
	case "filesystem":
		if it.BasePath == "" {
			return fmt.Errorf("%w: iterator.base_path is required for filesystem", distributor.ErrInvalidConfig)
		}
	case "sqlite":
		if it.Database == "" || it.Query == "" || it.FetchKeyColumn == "" {
			return fmt.Errorf("%w: iterator.database, iterator.query and iterator.fetch_key_column are required for sqlite", distributor.ErrInvalidConfig)
		}
	case "":
		return fmt.Errorf("%w: iterator.type is required", distributor.ErrInvalidConfig)
	default:
		return fmt.Errorf("%w: unknown iterator.type %q", distributor.ErrInvalidConfig, it.Type)
	}
	return nil
}
