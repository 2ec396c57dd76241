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
)

//nolint: lll
func RegisterCmd(args []string, usage string) {
	opts := newOpts("register [OPTIONS]", usage)
	providerAddress := opts.Flags("--provider").Label("PROVIDER").String("host:port of the sfw-provider to register with", defaultProvider)
	timeout := opts.Flags("--timeout").Label("TIMEOUT").String("Time to wait for the provider to respond", defaultTimeout)
	debug := opts.Flags("--debug").Label("DEBUG").Bool("Print debug logs to stdout")

	params := opts.Parse(args)
	if len(params) != 0 {
		opts.PrintUsage()
		os.Exit(1)
	}

	c := newClient(*providerAddress, *debug)
	ctx, cancel := newContext(*timeout)
	defer cancel()

	if err := c.Register(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register with %v: %v\n", c.Address(), err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Registered with %v\n", c.Address())
}
