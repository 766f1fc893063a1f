package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/retail-ai-inc/storagebridge/pkg/logger"
	"gopkg.in/yaml.v2"
)

const (
	DefaultStorageKey      = "storage"
	DefaultChannelPrefix   = "storagebridge:"
	DefaultMonitorInterval = time.Second * 60

	DefaultSavePort         = "save_to_localstorage"
	DefaultLoadRequestPort  = "load_from_localstorage"
	DefaultLoadResponsePort = "loaded_from_localstorage"
)

// StorageConfig selects and configures the storage medium.
type StorageConfig struct {
	Type       string `yaml:"type"`
	Connection string `yaml:"connection"`
	Key        string `yaml:"key"`

	// file
	Path string `yaml:"path,omitempty"`
	// mongodb
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	// mysql, mariadb, postgresql
	Table  string `yaml:"table,omitempty"`
	Driver string `yaml:"driver,omitempty"`
}

type PortConfig struct {
	Enable bool   `yaml:"enable"`
	Name   string `yaml:"name"`
}

// PortsConfig lists the ports the application exposes. A disabled port is
// treated as absent.
type PortsConfig struct {
	Save         PortConfig `yaml:"save"`
	LoadRequest  PortConfig `yaml:"load_request"`
	LoadResponse PortConfig `yaml:"load_response"`
}

type TransportConfig struct {
	Type          string `yaml:"type"`
	Connection    string `yaml:"connection"`
	ChannelPrefix string `yaml:"channel_prefix"`
}

type Config struct {
	LogLevel                 string          `yaml:"log_level"`
	Storage                  StorageConfig   `yaml:"storage"`
	Ports                    *PortsConfig    `yaml:"ports"`
	Transport                TransportConfig `yaml:"transport"`
	EnableDocumentMonitoring bool            `yaml:"enable_document_monitoring"`
	MonitorInterval          time.Duration   `yaml:"monitor_interval"`
}

// NewConfig loads the configuration named by CONFIG_PATH, or
// configs/config.yaml under the working directory, and exits on failure.
func NewConfig() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		logger.Log.Fatalf("Failed to get working directory: %v", err)
	}
	logger.Log.Infof("Current working directory: %s", cwd)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join(cwd, "configs/config.yaml")
	}

	cfg, err := Load(configPath)
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Key == "" {
		c.Storage.Key = DefaultStorageKey
	}
	if c.Transport.ChannelPrefix == "" {
		c.Transport.ChannelPrefix = DefaultChannelPrefix
	}
	if c.MonitorInterval <= 0 {
		c.MonitorInterval = DefaultMonitorInterval
	}
	// No ports section means the application exposes all three.
	if c.Ports == nil {
		c.Ports = &PortsConfig{
			Save:         PortConfig{Enable: true},
			LoadRequest:  PortConfig{Enable: true},
			LoadResponse: PortConfig{Enable: true},
		}
	}
	if c.Ports.Save.Name == "" {
		c.Ports.Save.Name = DefaultSavePort
	}
	if c.Ports.LoadRequest.Name == "" {
		c.Ports.LoadRequest.Name = DefaultLoadRequestPort
	}
	if c.Ports.LoadResponse.Name == "" {
		c.Ports.LoadResponse.Name = DefaultLoadResponsePort
	}
}

// PortNames returns the name of each enabled port, and "" for disabled ones.
func (c *Config) PortNames() (save, loadRequest, loadResponse string) {
	if c.Ports == nil {
		return "", "", ""
	}
	if c.Ports.Save.Enable {
		save = c.Ports.Save.Name
	}
	if c.Ports.LoadRequest.Enable {
		loadRequest = c.Ports.LoadRequest.Name
	}
	if c.Ports.LoadResponse.Enable {
		loadResponse = c.Ports.LoadResponse.Name
	}
	return save, loadRequest, loadResponse
}
