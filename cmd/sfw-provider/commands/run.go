// Copyright 2019 The Nym Mixnet Authors
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

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nymtech/nym-sfw-provider/config"
	"github.com/nymtech/nym-sfw-provider/daemon"
	"github.com/nymtech/nym-sfw-provider/helpers"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/nymtech/nym-sfw-provider/logger"
	"github.com/nymtech/nym-sfw-provider/server/provider"
	"github.com/nymtech/nym-sfw-provider/storage"
)

//nolint: lll
func RunCmd(args []string, usage string) {
	opts := newOpts("run [OPTIONS]", usage)
	id := opts.Flags("--id").Label("ID").String("Id of the sfw-provider we want to run", defaultID)
	customConfigPath := opts.Flags("--customCfg").Label("CUSTOMCFG").String("Path to custom configuration file of the provider", "")

	params := opts.Parse(args)
	if len(params) != 0 {
		opts.PrintUsage()
		os.Exit(1)
	}

	var configPath string
	var err error
	if len(*customConfigPath) > 0 {
		configPath = *customConfigPath
	} else {
		configPath, err = config.DefaultConfigPath(*id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not determine the config path: %v\n", err)
			os.Exit(1)
		}
	}

	cfgExists, err := helpers.DirExists(configPath)
	if !cfgExists || err != nil {
		fmt.Fprintf(os.Stderr, "The configuration file at %v does not seem to exist\n", configPath)
		os.Exit(1)
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load the config file: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run provider instance: %v\n", err)
		os.Exit(-1)
	}
}

func run(cfg *config.Config) error {
	baseLogger, err := logger.New(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Disable)
	if err != nil {
		return fmt.Errorf("failed to create a logger: %w", err)
	}
	defer baseLogger.Close()

	pub, err := loadKeys(cfg.Provider)
	if err != nil {
		return err
	}

	dbPath := cfg.Provider.InboxDatabaseFile()
	dbDir, _ := filepath.Split(dbPath)
	if err := helpers.EnsureDir(dbDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	inbox, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open inbox database: %w", err)
	}
	defer inbox.Close()

	return daemon.Start(func() (daemon.Service, error) {
		p, err := provider.NewProviderServer(cfg, pub, inbox, baseLogger.GetLogger("Provider "+cfg.Provider.ID))
		if err != nil {
			return nil, err
		}
		if err := p.Start(); err != nil {
			return nil, err
		}
		return p, nil
	})
}

// loadKeys reads the provider keypair and checks that both halves belong together.
func loadKeys(cfg *config.Provider) (*identity.PublicKey, error) {
	priv := new(identity.PrivateKey)
	if err := helpers.FromPEMFile(priv, cfg.PrivateKeyFile(), identity.PrivateKeyPEMType); err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	pub := new(identity.PublicKey)
	if err := helpers.FromPEMFile(pub, cfg.PublicKeyFile(), identity.PublicKeyPEMType); err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}

	if !identity.CompareKeys(priv.PublicKey(), pub) {
		return nil, errors.New("public key does not match the private key")
	}
	return pub, nil
}
