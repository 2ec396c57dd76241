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

	"github.com/nymtech/nym-sfw-provider/helpers"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/tav/golly/optparse"
)

const (
	privateKeyFileName = "private_key.pem"
	publicKeyFileName  = "public_key.pem"
)

//nolint: lll
func KeygenCmd(args []string, usage string) {
	opts := newOpts("keygen [OPTIONS]", usage)
	out := opts.Flags("--out").Label("OUT").String("Directory to save the generated keypair to", ".")

	params := opts.Parse(args)
	if len(params) != 0 {
		opts.PrintUsage()
		os.Exit(1)
	}

	if err := helpers.EnsureDir(*out, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create key directory: %v\n", err)
		os.Exit(1)
	}

	priv, pub, err := identity.GenerateKeyPair()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate keypair: %v\n", err)
		os.Exit(1)
	}

	privPath := filepath.Join(*out, privateKeyFileName)
	if err := helpers.ToPEMFile(priv, privPath, identity.PrivateKeyPEMType); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save private key: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Saved generated private key to %v\n", privPath)

	pubPath := filepath.Join(*out, publicKeyFileName)
	if err := helpers.ToPEMFile(pub, pubPath, identity.PublicKeyPEMType); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save public key: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Saved generated public key to %v\n", pubPath)
	fmt.Fprintf(os.Stdout, "Inbox address: %v\n", pub)
}

func newOpts(command string, usage string) *optparse.Parser {
	return optparse.New("Usage: sfw-client " + command + "\n\n  " + usage + "\n")
}
