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
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nymtech/nym-sfw-provider/client"
	"github.com/nymtech/nym-sfw-provider/helpers"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/nymtech/nym-sfw-provider/logger"
	"github.com/nymtech/nym-sfw-provider/providerrequests"
	"github.com/sirupsen/logrus"
)

const (
	defaultProvider = "127.0.0.1:1789"
	defaultTimeout  = "10s"
)

//nolint: lll
func PullCmd(args []string, usage string) {
	opts := newOpts("pull [OPTIONS]", usage)
	providerAddress := opts.Flags("--provider").Label("PROVIDER").String("host:port of the sfw-provider to pull from", defaultProvider)
	keyFile := opts.Flags("--key").Label("KEY").String("Public key file whose inbox should be pulled", "")
	address := opts.Flags("--address").Label("ADDRESS").String("Inbox address to pull, used instead of --key", "")
	timeout := opts.Flags("--timeout").Label("TIMEOUT").String("Time to wait for the provider to respond", defaultTimeout)
	debug := opts.Flags("--debug").Label("DEBUG").Bool("Print debug logs to stdout")

	params := opts.Parse(args)
	if len(params) != 0 {
		opts.PrintUsage()
		os.Exit(1)
	}

	destination, err := destinationAddress(*keyFile, *address)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not determine the inbox address: %v\n", err)
		os.Exit(1)
	}

	c := newClient(*providerAddress, *debug)
	ctx, cancel := newContext(*timeout)
	defer cancel()

	messages, err := c.PullMessages(ctx, destination)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to pull messages: %v\n", err)
		os.Exit(1)
	}

	for _, msg := range messages {
		fmt.Fprintf(os.Stdout, "Received: %s\n", msg)
	}
	fmt.Fprintf(os.Stderr, "Pulled %d messages\n", len(messages))
}

func destinationAddress(keyFile, address string) (providerrequests.DestinationAddressBytes, error) {
	switch {
	case len(keyFile) > 0 && len(address) > 0:
		return providerrequests.DestinationAddressBytes{}, errors.New("only one of --key and --address can be used")
	case len(address) > 0:
		return identity.AddressFromString(address)
	case len(keyFile) > 0:
		pub := new(identity.PublicKey)
		if err := helpers.FromPEMFile(pub, keyFile, identity.PublicKeyPEMType); err != nil {
			return providerrequests.DestinationAddressBytes{}, err
		}
		return pub.DestinationAddress(), nil
	default:
		return providerrequests.DestinationAddressBytes{}, errors.New("either --key or --address is required")
	}
}

func newClient(providerAddress string, debug bool) *client.ProviderClient {
	level := logrus.InfoLevel.String()
	if debug {
		level = logrus.DebugLevel.String()
	}
	baseLogger, err := logger.New("", level, !debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create a logger: %v\n", err)
		os.Exit(1)
	}

	c, err := client.NewProviderClient(providerAddress, baseLogger.GetLogger("Client"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create client: %v\n", err)
		os.Exit(1)
	}
	return c
}

func newContext(timeout string) (context.Context, context.CancelFunc) {
	d, err := time.ParseDuration(timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid timeout %q: %v\n", timeout, err)
		os.Exit(1)
	}
	return context.WithTimeout(context.Background(), d)
}
