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

package providerrequests

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// RequestFactory returns a fresh, empty request of a single type, ready to be decoded into.
type RequestFactory func() ProviderRequest

//nolint: gochecknoglobals
var defaultRegistry = mustNewDefaultRegistry()

// Registry maps request type tags onto the request types that own them.
// It is the single place where tags are assigned, hence no two types can ever share one.
type Registry struct {
	mu        sync.RWMutex
	factories map[RequestType]RequestFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[RequestType]RequestFactory),
	}
}

// DefaultRegistry returns a new registry holding all the request types known to the provider.
// Adding a new request type means adding a single entry here.
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, factory := range []RequestFactory{
		func() ProviderRequest { return new(PullRequest) },
		func() ProviderRequest { return new(RegisterRequest) },
	} {
		if err := r.Register(factory); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func mustNewDefaultRegistry() *Registry {
	r, err := DefaultRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds the request type produced by factory. The tag is taken from the request itself.
func (r *Registry) Register(factory RequestFactory) error {
	if factory == nil {
		return errors.New("providerrequests: nil request factory")
	}
	rt := factory().Type()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[rt]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateRequestType, rt)
	}
	r.factories[rt] = factory
	return nil
}

// Types returns all registered request types in ascending order.
func (r *Registry) Types() []RequestType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]RequestType, 0, len(r.factories))
	for rt := range r.factories {
		types = append(types, rt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Decode reads the type tag of b and hands the entire buffer, tag included,
// to the matching request type, which validates the tag once more.
func (r *Registry) Decode(b []byte) (ProviderRequest, error) {
	rt, err := RequestTypeFromBytes(b)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	factory, ok := r.factories[rt]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown request type %v", ErrUnmarshalIncorrectPrefix, rt)
	}

	req := factory()
	if err := req.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return req, nil
}
