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

/*
	Package providerrequests defines the wire format of requests sent by clients to their
	store-and-forward provider, i.e. pulling queued messages or registering with the provider.
	Every request starts with a 2 byte type tag followed by a type specific payload.
*/

package providerrequests

import (
	"encoding"
	"encoding/binary"
	"fmt"
)

const (
	// RequestTypeLength is the number of leading bytes identifying the request type.
	RequestTypeLength = 2
	// DestinationAddressLength is the length of the address a client pulls its messages for.
	DestinationAddressLength = 32
)

// RequestType is the tag put in front of every encoded request. On the wire it is written big-endian,
// so PullRequestType becomes {1, 0} and RegisterRequestType becomes {0, 1}.
// Note: there is no version byte in front of the tag. If one is ever needed it has to become
// a new request type rather than a change to the existing layout.
type RequestType uint16

const (
	// PullRequestType denotes a request to obtain all messages stored for a destination address.
	PullRequestType RequestType = 0x0100
	// RegisterRequestType denotes a request to get registered at a particular provider.
	RegisterRequestType RequestType = 0x0001
)

// Bytes returns the wire representation of the request type.
func (rt RequestType) Bytes() []byte {
	b := make([]byte, RequestTypeLength)
	binary.BigEndian.PutUint16(b, uint16(rt))
	return b
}

func (rt RequestType) String() string {
	switch rt {
	case PullRequestType:
		return "PullRequest"
	case RegisterRequestType:
		return "RegisterRequest"
	default:
		return fmt.Sprintf("RequestType(%#04x)", uint16(rt))
	}
}

// RequestTypeFromBytes reads the type tag at the beginning of b.
// It fails with ErrUnmarshal if b is too short to hold one.
func RequestTypeFromBytes(b []byte) (RequestType, error) {
	if len(b) < RequestTypeLength {
		return 0, fmt.Errorf("%w: need at least %d bytes for request type, got %d",
			ErrUnmarshal,
			RequestTypeLength,
			len(b),
		)
	}
	return RequestType(binary.BigEndian.Uint16(b[:RequestTypeLength])), nil
}

// DestinationAddressBytes is an opaque identifier of the recipient whose messages are kept by the provider.
type DestinationAddressBytes [DestinationAddressLength]byte

// ProviderRequest is implemented by every request type that can be sent to a provider.
// MarshalBinary output always starts with Type().Bytes() and UnmarshalBinary
// expects the same, prefix included.
type ProviderRequest interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	Type() RequestType
}

// Encode returns the wire representation of req. The output is exactly what the
// request itself produces, no additional framing is added.
func Encode(req ProviderRequest) ([]byte, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrMarshal)
	}
	return req.MarshalBinary()
}

// Decode recovers a request from b using the default set of request types.
func Decode(b []byte) (ProviderRequest, error) {
	return defaultRegistry.Decode(b)
}

// checkPrefix verifies that b starts with the tag of rt.
func checkPrefix(b []byte, rt RequestType) error {
	received, err := RequestTypeFromBytes(b)
	if err != nil {
		return err
	}
	if received != rt {
		return fmt.Errorf("%w: expected %v, got %v", ErrUnmarshalIncorrectPrefix, rt, received)
	}
	return nil
}
