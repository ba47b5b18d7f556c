package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cloudstore/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Only keys present
// in the file override defaults.
type FileConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	Token              *string         `json:"token" yaml:"token"`
	RequestTimeout     *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DatabaseDSN        *string         `json:"database_dsn" yaml:"database_dsn"`
	MaxMessageSize     *int            `json:"max_message_size" yaml:"max_message_size"`
}

func loadFile(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.ServerEndpointAddr != nil {
		c.ServerEndpointAddr = *fc.ServerEndpointAddr
	}
	if fc.Token != nil {
		c.Token = *fc.Token
	}
	if fc.RequestTimeout != nil {
		c.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.DatabaseDSN != nil {
		c.DatabaseDSN = *fc.DatabaseDSN
	}
	if fc.MaxMessageSize != nil {
		if *fc.MaxMessageSize <= 0 {
			return fmt.Errorf("parse config %s: max_message_size must be positive", path)
		}
		c.MaxMessageSize = *fc.MaxMessageSize
	}
	return nil
}
