// Copyright 2018 The Loopix-Messaging Authors
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

// Package provider implements the store-and-forward provider.
package provider

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"sync"
	"time"

	"github.com/nymtech/nym-sfw-provider/config"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/nymtech/nym-sfw-provider/providerrequests"
	"github.com/nymtech/nym-sfw-provider/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	// ErrRequestTooLarge is sent back to clients whose request exceeds the configured maximum size.
	ErrRequestTooLarge = errors.New("provider: request too large")
	// ErrUnsupportedRequest is sent back for request types the provider knows about but cannot serve.
	ErrUnsupportedRequest = errors.New("provider: unsupported request")
	// ErrTooManyRequests is sent back when the provider is serving requests faster than it is allowed to.
	ErrTooManyRequests = errors.New("provider: too many requests")
)

// ProviderServer accepts requests of clients and serves messages stored in their inboxes.
type ProviderServer struct {
	id       string
	cfg      *config.Config
	pubKey   *identity.PublicKey
	listener net.Listener
	inbox    *storage.InboxStore
	limiter  *rate.Limiter
	haltedCh chan struct{}
	haltOnce sync.Once
	conns    sync.WaitGroup
	log      *logrus.Logger
}

// Wait waits till the provider is terminated for any reason.
func (p *ProviderServer) Wait() {
	<-p.haltedCh
}

// Shutdown cleanly shuts down a given provider instance.
func (p *ProviderServer) Shutdown() {
	p.haltOnce.Do(func() { p.halt() })
}

// calls any required cleanup code
func (p *ProviderServer) halt() {
	p.log.Info("Starting graceful shutdown")
	if err := p.listener.Close(); err != nil {
		p.log.Warnf("Failed to close the listener: %v", err)
	}
	p.conns.Wait()

	close(p.haltedCh)
}

// Start starts accepting client connections in the background.
func (p *ProviderServer) Start() error {
	p.log.Infof("Listening on %s", p.listener.Addr())
	p.log.Infof("Our public key is: %v", p.pubKey)

	p.conns.Add(1)
	go func() {
		defer p.conns.Done()
		p.listenForIncomingConnections()
	}()
	return nil
}

// Addr returns the address the provider is listening on.
func (p *ProviderServer) Addr() net.Addr {
	return p.listener.Addr()
}

// StoreMessage saves the given message in the inbox of the given address.
func (p *ProviderServer) StoreMessage(address providerrequests.DestinationAddressBytes, message []byte) error {
	if err := p.inbox.Store(address, message); err != nil {
		return err
	}
	p.log.Debugf("Stored message for %x", address[:8])
	return nil
}

// The providers listener accepts incoming connections and passes them to the connection handler.
// If the connection could not be accepted an error is logged, but the function is not stopped
// unless the provider is shutting down.
func (p *ProviderServer) listenForIncomingConnections() {
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			select {
			case <-p.haltedCh:
				return
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Temporary() { //nolint: staticcheck
				p.log.Errorf("Error when listening for incoming connection: %v", err)
				continue
			}
			p.log.Debugf("Listener stopped: %v", err)
			return
		}

		p.log.Debugf("%s: Received new connection from %s", p.id, conn.RemoteAddr())
		p.conns.Add(1)
		go func() {
			defer p.conns.Done()
			if err := p.handleConnection(conn); err != nil {
				p.log.Errorf("Error when handling connection from %s: %v", conn.RemoteAddr(), err)
			}
		}()
	}
}

// handleConnection reads a single request, which ends when the client closes its side of the connection,
// and writes back the response.
func (p *ProviderServer) handleConnection(conn net.Conn) error {
	defer conn.Close()

	timeout := p.cfg.Debug.ConnectionTimeout()
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}

	maxSize := int64(p.cfg.Provider.MaxRequestSize)
	reqBytes, err := ioutil.ReadAll(io.LimitReader(conn, maxSize+1))
	if err != nil {
		return err
	}

	var respBytes []byte
	switch {
	case int64(len(reqBytes)) > maxSize:
		p.log.Warnf("Received request of more than %d bytes from %s", maxSize, conn.RemoteAddr())
		// drain the rest so that closing the connection does not reset it before the client reads the response
		if _, err := io.Copy(ioutil.Discard, conn); err != nil {
			return err
		}
		respBytes, err = config.MarshalProviderResponse(nil, ErrRequestTooLarge)
	case !p.limiter.Allow():
		p.log.Warnf("Rejecting request from %s: request rate exceeded", conn.RemoteAddr())
		respBytes, err = config.MarshalProviderResponse(nil, ErrTooManyRequests)
	default:
		respBytes, err = config.MarshalProviderResponse(p.processRequest(reqBytes))
	}
	if err != nil {
		return err
	}

	_, err = conn.Write(respBytes)
	return err
}

// processRequest decodes the raw request and routes it to the handler of its type.
func (p *ProviderServer) processRequest(reqBytes []byte) ([][]byte, error) {
	req, err := providerrequests.Decode(reqBytes)
	if err != nil {
		p.log.Warnf("Failed to decode request: %v", err)
		return nil, err
	}

	switch r := req.(type) {
	case *providerrequests.PullRequest:
		return p.handlePullRequest(r)
	case *providerrequests.RegisterRequest:
		return nil, p.handleRegisterRequest(r)
	default:
		p.log.Warnf("Received request of type %v that has no handler", req.Type())
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRequest, req.Type())
	}
}

// handlePullRequest removes messages from the inbox of the requested address
// so that they can be sent back to the client.
func (p *ProviderServer) handlePullRequest(req *providerrequests.PullRequest) ([][]byte, error) {
	address := req.DestinationAddress
	messages, err := p.inbox.Fetch(address, p.cfg.Debug.MaxMessagesPerPull)
	if err != nil {
		p.log.Errorf("Failed to fetch messages for %x: %v", address[:8], err)
		return nil, err
	}

	if len(messages) == 0 {
		p.log.Debugf("Inbox of %x is empty", address[:8])
	} else {
		p.log.Infof("Sending %d messages to %x", len(messages), address[:8])
	}
	return messages, nil
}

// Register requests cannot be decoded off the wire yet, so client traffic never gets here.
func (p *ProviderServer) handleRegisterRequest(req *providerrequests.RegisterRequest) error {
	p.log.Warn("Received register request, registration is not supported yet")
	return fmt.Errorf("%w: %v", ErrUnsupportedRequest, req.Type())
}

func newRequestLimiter(dCfg *config.Debug) *rate.Limiter {
	if dCfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(dCfg.RequestsPerSecond), dCfg.RequestBurst)
}

// NewProviderServer constructs a new provider object listening on the configured address.
func NewProviderServer(cfg *config.Config,
	pubKey *identity.PublicKey,
	inbox *storage.InboxStore,
	log *logrus.Logger,
) (*ProviderServer, error) {
	if cfg == nil || cfg.Provider == nil || cfg.Debug == nil {
		return nil, errors.New("provider: incomplete configuration")
	}

	listener, err := net.Listen("tcp", cfg.Provider.Address())
	if err != nil {
		return nil, err
	}

	return &ProviderServer{
		id:       cfg.Provider.ID,
		cfg:      cfg,
		pubKey:   pubKey,
		listener: listener,
		inbox:    inbox,
		limiter:  newRequestLimiter(cfg.Debug),
		haltedCh: make(chan struct{}),
		log:      log,
	}, nil
}
