// Copyright 2018-2019 The Loopix-Messaging Authors
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
	Package client implements a client of the store-and-forward provider.
*/
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"time"

	"github.com/nymtech/nym-sfw-provider/config"
	"github.com/nymtech/nym-sfw-provider/providerrequests"
	"github.com/sirupsen/logrus"
)

const (
	// MaxResponseSize bounds the response read back from the provider.
	MaxResponseSize = 16 << 20
)

var (
	// ErrProviderError is returned when the provider rejected the request.
	ErrProviderError = errors.New("client: provider returned an error")
	// ErrResponseTooLarge is returned when the provider response exceeds MaxResponseSize.
	ErrResponseTooLarge = errors.New("client: response too large")
)

// ProviderClient sends requests to a single provider.
type ProviderClient struct {
	address string
	dialer  net.Dialer
	log     *logrus.Logger
}

// Address returns the address of the provider the client talks to.
func (c *ProviderClient) Address() string {
	return c.address
}

// PullMessages retrieves the messages the provider holds for the given address.
// Retrieved messages are removed from the provider's inbox.
func (c *ProviderClient) PullMessages(ctx context.Context,
	address providerrequests.DestinationAddressBytes,
) ([][]byte, error) {
	c.log.Debugf("Pulling messages for %x from %s", address[:8], c.address)

	messages, err := c.sendRequest(ctx, providerrequests.NewPullRequest(address))
	if err != nil {
		return nil, err
	}
	c.log.Debugf("Received %d messages", len(messages))
	return messages, nil
}

// Register asks the provider to register the client.
func (c *ProviderClient) Register(ctx context.Context) error {
	c.log.Debugf("Sending request to provider to register")
	_, err := c.sendRequest(ctx, providerrequests.NewRegisterRequest())
	return err
}

func (c *ProviderClient) sendRequest(ctx context.Context, req providerrequests.ProviderRequest) ([][]byte, error) {
	reqBytes, err := providerrequests.Encode(req)
	if err != nil {
		c.log.Errorf("Failed to encode %v: %v", req.Type(), err)
		return nil, err
	}

	resp, err := c.send(ctx, reqBytes)
	if err != nil {
		c.log.Errorf("Failed to send %v to %s: %v", req.Type(), c.address, err)
		return nil, err
	}

	if resp.GetError() != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderError, resp.GetError())
	}
	return resp.GetMessages(), nil
}

// send opens a connection to the provider, writes the packet, signals the end of the request
// by closing the write side of the connection and reads back the response.
func (c *ProviderClient) send(ctx context.Context, packet []byte) (*config.ProviderResponse, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if _, err := conn.Write(packet); err != nil {
		return nil, wrapContextError(ctx, err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.CloseWrite(); err != nil {
			return nil, wrapContextError(ctx, err)
		}
	}

	buff, err := ioutil.ReadAll(io.LimitReader(conn, MaxResponseSize+1))
	if err != nil {
		return nil, wrapContextError(ctx, err)
	}
	if len(buff) > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}

	return config.UnmarshalProviderResponse(buff)
}

// wrapContextError reports the context error if the connection failed because the context ended.
func wrapContextError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	// the connection deadline may fire just before the context notices it
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

// NewProviderClient creates a client for the provider listening on address (host:port).
func NewProviderClient(address string, log *logrus.Logger) (*ProviderClient, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		return nil, fmt.Errorf("client: invalid provider address %q: %w", address, err)
	}
	return &ProviderClient{
		address: address,
		log:     log,
	}, nil
}
