// Copyright 2019 The Loopix-Messaging Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
	Package config implements the configuration of a store-and-forward provider.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultNymDirectory       = ".nym"
	defaultProvidersDirectory = "sfw-providers"
	defaultConfigDirectory    = "config"
	defaultDataDirectory      = "data"
	defaultConfigFileName     = "config.toml"

	defaultLogLevel = "info"

	defaultPrivateKeyFileName = "private_key.pem"
	defaultPublicKeyFileName  = "public_key.pem"
	defaultInboxDatabaseName  = "inboxes.db"

	defaultListeningAddress = "0.0.0.0"
	defaultPort             = 1789
	// anything larger than a pull request by orders of magnitude is just garbage
	defaultMaxRequestSize = 1024

	defaultConnectionTimeoutMs = 5000
	defaultMaxMessagesPerPull  = 100
	defaultRequestBurst        = 10
)

//nolint: gochecknoglobals
var (
	defaultHomeDirectory  = os.ExpandEnv(filepath.Join("$HOME", defaultNymDirectory, defaultProvidersDirectory))
	defaultPrivateKeyPath = filepath.Join(defaultConfigDirectory, defaultPrivateKeyFileName)
	defaultPublicKeyPath  = filepath.Join(defaultConfigDirectory, defaultPublicKeyFileName)
	defaultInboxDatabase  = filepath.Join(defaultDataDirectory, defaultInboxDatabaseName)
)

// DefaultConfigPath returns absolute path to the default configuration file of the particular provider.
// The returned path should be $HOME/.nym/sfw-providers/providerID/config/config.toml
func DefaultConfigPath(providerID string) (string, error) {
	if len(providerID) == 0 {
		return "", errors.New("invalid providerID provided")
	}
	return filepath.Join(
		defaultHomeDirectory,
		providerID,
		defaultConfigDirectory,
		defaultConfigFileName,
	), nil
}

// Provider is the store-and-forward provider configuration.
type Provider struct {
	// HomeDirectory specifies absolute path to the home directory of all providers.
	// It is expected to use default value and hence .toml file should not redefine this field.
	HomeDirectory string `toml:"home_directory"`

	// ID specifies the human readable ID of this particular provider.
	ID string `toml:"id"`

	// ListeningAddress specifies the host the provider binds to.
	ListeningAddress string `toml:"listening_address"`

	// Port specifies the port the provider listens on for client requests.
	Port int `toml:"port"`

	// PrivateKey specifies path to file containing private key.
	PrivateKey string `toml:"priv_key_file"`

	// PublicKey specifies path to file containing public key.
	PublicKey string `toml:"pub_key_file"`

	// InboxDatabase specifies path to the sqlite database holding client inboxes.
	InboxDatabase string `toml:"inbox_database"`

	// MaxRequestSize is the maximum number of bytes read from a client connection.
	MaxRequestSize int `toml:"max_request_size"`
}

// DefaultProviderConfig returns default Provider config for provided providerID.
func DefaultProviderConfig(providerID string) (*Provider, error) {
	if len(providerID) == 0 {
		return nil, errors.New("invalid providerID provided")
	}
	return &Provider{
		HomeDirectory:    defaultHomeDirectory,
		ID:               providerID,
		ListeningAddress: defaultListeningAddress,
		Port:             defaultPort,
		PrivateKey:       defaultPrivateKeyPath,
		PublicKey:        defaultPublicKeyPath,
		InboxDatabase:    defaultInboxDatabase,
		MaxRequestSize:   defaultMaxRequestSize,
	}, nil
}

// Home returns the directory of this particular provider.
func (cfg *Provider) Home() string {
	return filepath.Join(cfg.HomeDirectory, cfg.ID)
}

// PrivateKeyFile returns the full path to the private key file.
func (cfg *Provider) PrivateKeyFile() string {
	return rootify(cfg.PrivateKey, cfg.Home())
}

// PublicKeyFile returns the full path to the public key file.
func (cfg *Provider) PublicKeyFile() string {
	return rootify(cfg.PublicKey, cfg.Home())
}

// InboxDatabaseFile returns the full path to the inbox database.
func (cfg *Provider) InboxDatabaseFile() string {
	return rootify(cfg.InboxDatabase, cfg.Home())
}

// Address returns host:port the provider should bind to.
func (cfg *Provider) Address() string {
	return cfg.ListeningAddress + ":" + strconv.Itoa(cfg.Port)
}

func (cfg *Provider) validateAndApplyDefaults() error {
	// if custom home directory is specified it must have an absolute path
	if len(cfg.HomeDirectory) > 0 {
		if !filepath.IsAbs(cfg.HomeDirectory) {
			return errors.New("config: specified home directory is not an absolute path")
		}
	} else {
		cfg.HomeDirectory = defaultHomeDirectory
	}

	if len(cfg.ID) == 0 {
		return errors.New("config: provider ID was not specified")
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}

	if cfg.MaxRequestSize < 0 {
		return fmt.Errorf("config: invalid max request size %d", cfg.MaxRequestSize)
	}
	if cfg.MaxRequestSize == 0 {
		cfg.MaxRequestSize = defaultMaxRequestSize
	}

	if len(cfg.ListeningAddress) == 0 {
		cfg.ListeningAddress = defaultListeningAddress
	}
	if len(cfg.PrivateKey) == 0 {
		cfg.PrivateKey = defaultPrivateKeyPath
	}
	if len(cfg.PublicKey) == 0 {
		cfg.PublicKey = defaultPublicKeyPath
	}
	if len(cfg.InboxDatabase) == 0 {
		cfg.InboxDatabase = defaultInboxDatabase
	}

	return nil
}

// Logging is the provider logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool `toml:"disable"`

	// File specifies the log file, if omitted stdout will be used.
	File string `toml:"file"`

	// Level specifies the log level.
	Level string `toml:"level"`
}

func (cfg *Logging) validate() error {
	_, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("config: invalid logging level: %s (%v)", cfg.Level, err)
	}
	return nil
}

// DefaultLoggingConfig returns default logging configuration.
func DefaultLoggingConfig() *Logging {
	return &Logging{
		Disable: false,
		File:    "",
		Level:   defaultLogLevel,
	}
}

// Debug is the provider debug configuration.
type Debug struct {
	// ConnectionTimeoutMs is the time, in milliseconds, a client has to send its request and read the response.
	ConnectionTimeoutMs int `toml:"connection_timeout_ms"`

	// MaxMessagesPerPull limits number of messages returned in response to a single pull request.
	// If set to a negative value, all stored messages are returned at once.
	MaxMessagesPerPull int `toml:"max_messages_per_pull"`

	// RequestsPerSecond limits the rate at which client requests are served.
	// Zero or a negative value disables the limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// RequestBurst is the number of requests that can be served at once above RequestsPerSecond.
	RequestBurst int `toml:"request_burst"`
}

func (dCfg *Debug) applyDefaults() {
	if dCfg.ConnectionTimeoutMs <= 0 {
		dCfg.ConnectionTimeoutMs = defaultConnectionTimeoutMs
	}
	if dCfg.MaxMessagesPerPull == 0 {
		dCfg.MaxMessagesPerPull = defaultMaxMessagesPerPull
	}
	if dCfg.RequestBurst <= 0 {
		dCfg.RequestBurst = defaultRequestBurst
	}
}

// ConnectionTimeout returns ConnectionTimeoutMs as a time.Duration.
func (dCfg *Debug) ConnectionTimeout() time.Duration {
	return time.Duration(dCfg.ConnectionTimeoutMs) * time.Millisecond
}

// DefaultDebugConfig returns default debug configuration.
func DefaultDebugConfig() *Debug {
	return &Debug{
		ConnectionTimeoutMs: defaultConnectionTimeoutMs,
		MaxMessagesPerPull:  defaultMaxMessagesPerPull,
		RequestBurst:        defaultRequestBurst,
	}
}

// Config is the top level provider configuration.
type Config struct {
	Provider *Provider `toml:"provider"`
	Logging  *Logging  `toml:"logging"`
	Debug    *Debug    `toml:"debug"`
}

// DefaultConfig returns full default config for given providerID
func DefaultConfig(providerID string) (*Config, error) {
	if len(providerID) == 0 {
		return nil, errors.New("invalid providerID provided")
	}
	defaultProviderConfig, _ := DefaultProviderConfig(providerID)
	return &Config{
		Provider: defaultProviderConfig,
		Logging:  DefaultLoggingConfig(),
		Debug:    DefaultDebugConfig(),
	}, nil
}

func (cfg *Config) validateAndApplyDefaults() error {
	if cfg.Provider == nil {
		return errors.New("config: No Provider block was present")
	}

	if err := cfg.Provider.validateAndApplyDefaults(); err != nil {
		return err
	}

	if cfg.Debug == nil {
		cfg.Debug = &Debug{}
	}
	cfg.Debug.applyDefaults()

	if cfg.Logging == nil {
		cfg.Logging = DefaultLoggingConfig()
	}

	return cfg.Logging.validate()
}
