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
	"fmt"
	"os"
	"path/filepath"

	"github.com/nymtech/nym-sfw-provider/config"
	"github.com/nymtech/nym-sfw-provider/helpers"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/tav/golly/optparse"
)

const (
	defaultID = "Provider"
)

//nolint: lll
func InitCmd(args []string, usage string) {
	opts := newOpts("init [OPTIONS]", usage)
	id := opts.Flags("--id").Label("ID").String("Id of the sfw-provider we want to create config for", defaultID)
	host := opts.Flags("--host").Label("HOST").String("The address the sfw-provider should listen on", "")
	port := opts.Flags("--port").Label("PORT").String("The port the sfw-provider should listen on", "")

	params := opts.Parse(args)
	if len(params) != 0 {
		opts.PrintUsage()
		os.Exit(1)
	}

	cfg, err := config.DefaultConfig(*id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create config: %v\n", err)
		os.Exit(1)
	}

	if len(*host) > 0 {
		cfg.Provider.ListeningAddress = *host
	}
	if len(*port) > 0 {
		addr, err := helpers.ResolveTCPAddress(cfg.Provider.ListeningAddress, *port)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid listening address: %v\n", err)
			os.Exit(1)
		}
		cfg.Provider.Port = addr.Port
	}

	configPath, err := config.DefaultConfigPath(*id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get default config path for %v: %v\n", *id, err)
		os.Exit(1)
	}

	configDir, _ := filepath.Split(configPath)
	if err := helpers.EnsureDir(configDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create provider directory: %v\n", err)
		os.Exit(1)
	}

	priv, pub, err := identity.GenerateKeyPair()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate keypair: %v\n", err)
		os.Exit(1)
	}

	if err := helpers.ToPEMFile(priv, cfg.Provider.PrivateKeyFile(), identity.PrivateKeyPEMType); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save private key: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Saved generated private key to %v\n", cfg.Provider.PrivateKeyFile())

	if err := helpers.ToPEMFile(pub, cfg.Provider.PublicKeyFile(), identity.PublicKeyPEMType); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save public key: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Saved generated public key to %v\n", cfg.Provider.PublicKeyFile())

	if err := config.WriteConfigFile(configPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write config to a file: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Saved generated config to %v\n", configPath)
}

func newOpts(command string, usage string) *optparse.Parser {
	return optparse.New("Usage: sfw-provider " + command + "\n\n  " + usage + "\n")
}
