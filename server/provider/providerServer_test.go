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

package provider

import (
	"errors"
	"io/ioutil"
	"net"
	"strings"
	"testing"

	"github.com/nymtech/nym-sfw-provider/config"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/nymtech/nym-sfw-provider/logger"
	"github.com/nymtech/nym-sfw-provider/providerrequests"
	"github.com/nymtech/nym-sfw-provider/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *ProviderServer {
	return newTestProviderWithConfig(t, func(*config.Config) {})
}

func newTestProviderWithConfig(t *testing.T, adjust func(cfg *config.Config)) *ProviderServer {
	cfg, err := config.DefaultConfig("TestProvider")
	require.Nil(t, err)
	cfg.Provider.ListeningAddress = "127.0.0.1"
	cfg.Provider.Port = 0
	cfg.Debug.MaxMessagesPerPull = 2
	adjust(cfg)

	_, pub, err := identity.GenerateKeyPair()
	require.Nil(t, err)

	inbox, err := storage.Open(storage.InMemory)
	require.Nil(t, err)

	p, err := NewProviderServer(cfg, pub, inbox, logger.NewDisabled())
	require.Nil(t, err)
	require.Nil(t, p.Start())

	t.Cleanup(func() {
		p.Shutdown()
		p.Wait()
		inbox.Close()
	})
	return p
}

// sendRaw writes b to the provider as a single request and returns the decoded response.
func sendRaw(t *testing.T, p *ProviderServer, b []byte) *config.ProviderResponse {
	conn, err := net.Dial("tcp", p.Addr().String())
	require.Nil(t, err)
	defer conn.Close()

	_, err = conn.Write(b)
	require.Nil(t, err)
	require.Nil(t, conn.(*net.TCPConn).CloseWrite())

	respBytes, err := ioutil.ReadAll(conn)
	require.Nil(t, err)

	resp, err := config.UnmarshalProviderResponse(respBytes)
	require.Nil(t, err)
	return resp
}

func TestNewProviderServer_IncompleteConfig(t *testing.T) {
	_, err := NewProviderServer(&config.Config{}, nil, nil, logger.NewDisabled())
	assert.Error(t, err)
}

func TestProviderServer_PullRequest(t *testing.T) {
	p := newTestProvider(t)
	address := providerrequests.DestinationAddressBytes{1, 2, 3}
	other := providerrequests.DestinationAddressBytes{4, 5, 6}

	for _, msg := range []string{"first", "second", "third"} {
		require.Nil(t, p.StoreMessage(address, []byte(msg)))
	}
	require.Nil(t, p.StoreMessage(other, []byte("not yours")))

	pull := providerrequests.NewPullRequest(address).Bytes()

	resp := sendRaw(t, p, pull)
	assert.Empty(t, resp.Error)
	assert.Equal(t, [][]byte{[]byte("first"), []byte("second")}, resp.Messages, "pull should respect the limit")

	resp = sendRaw(t, p, pull)
	assert.Empty(t, resp.Error)
	assert.Equal(t, [][]byte{[]byte("third")}, resp.Messages)

	resp = sendRaw(t, p, pull)
	assert.Empty(t, resp.Error)
	assert.Empty(t, resp.Messages)
}

func TestProviderServer_InvalidRequests(t *testing.T) {
	p := newTestProvider(t)

	tests := []struct {
		name     string
		input    []byte
		expected error
	}{
		{name: "single byte", input: []byte{1}, expected: providerrequests.ErrUnmarshal},
		{name: "unknown prefix", input: []byte{9, 9}, expected: providerrequests.ErrUnmarshalIncorrectPrefix},
		{name: "short pull", input: append([]byte{1, 0}, make([]byte, 31)...), expected: providerrequests.ErrUnmarshal},
		{name: "register", input: []byte{0, 1}, expected: providerrequests.ErrUnimplementedRequest},
		{name: "too large", input: make([]byte, 2048), expected: ErrRequestTooLarge},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := sendRaw(t, p, test.input)
			assert.Empty(t, resp.Messages)
			assert.True(t, strings.HasPrefix(resp.Error, test.expected.Error()),
				"expected error starting with %q, got %q", test.expected, resp.Error)
		})
	}
}

func TestProviderServer_RateLimit(t *testing.T) {
	p := newTestProviderWithConfig(t, func(cfg *config.Config) {
		cfg.Debug.RequestsPerSecond = 0.001
		cfg.Debug.RequestBurst = 1
	})
	address := providerrequests.DestinationAddressBytes{7}
	require.Nil(t, p.StoreMessage(address, []byte("foo")))
	pull := providerrequests.NewPullRequest(address).Bytes()

	resp := sendRaw(t, p, pull)
	assert.Empty(t, resp.Error)
	assert.Equal(t, [][]byte{[]byte("foo")}, resp.Messages)

	resp = sendRaw(t, p, pull)
	assert.Empty(t, resp.Messages)
	assert.Equal(t, ErrTooManyRequests.Error(), resp.Error)
}

func TestNewRequestLimiter_Disabled(t *testing.T) {
	limiter := newRequestLimiter(config.DefaultDebugConfig())
	for i := 0; i < 1000; i++ {
		assert.True(t, limiter.Allow())
	}
}

func TestProviderServer_ProcessRequest(t *testing.T) {
	p := newTestProvider(t)
	address := providerrequests.DestinationAddressBytes{42}
	require.Nil(t, p.StoreMessage(address, []byte("hello")))

	messages, err := p.processRequest(providerrequests.NewPullRequest(address).Bytes())
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("hello")}, messages)

	_, err = p.processRequest([]byte{9, 9})
	assert.True(t, errors.Is(err, providerrequests.ErrUnmarshalIncorrectPrefix))
}

func TestProviderServer_HandleRegisterRequest(t *testing.T) {
	p := newTestProvider(t)
	err := p.handleRegisterRequest(providerrequests.NewRegisterRequest())
	assert.True(t, errors.Is(err, ErrUnsupportedRequest))
}

func TestProviderServer_StoreEmptyMessage(t *testing.T) {
	p := newTestProvider(t)
	assert.Equal(t, storage.ErrEmptyMessage, p.StoreMessage(providerrequests.DestinationAddressBytes{}, nil))
}

func TestProviderServer_Shutdown(t *testing.T) {
	p := newTestProvider(t)
	addr := p.Addr().String()

	p.Shutdown()
	p.Wait()
	// calling it again must not panic
	p.Shutdown()

	_, err := net.Dial("tcp", addr)
	assert.Error(t, err)
}
