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
	Package identity implements the Curve25519 keys of clients and providers
	and the destination addresses derived from them.
*/
package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/nymtech/nym-sfw-provider/providerrequests"
	"golang.org/x/crypto/curve25519"
)

const (
	KeySize = 32

	PrivateKeyPEMType = "CURVE25519 PRIVATE KEY"
	PublicKeyPEMType  = "CURVE25519 PUBLIC KEY"
)

type PrivateKey struct {
	bytes [KeySize]byte
}

type PublicKey struct {
	bytes [KeySize]byte
}

func (pk *PrivateKey) Bytes() []byte {
	return pk.bytes[:]
}

// PublicKey derives the public part of the key.
func (pk *PrivateKey) PublicKey() *PublicKey {
	pub := new(PublicKey)
	curve25519.ScalarBaseMult(&pub.bytes, &pk.bytes)
	return pub
}

func (pk *PrivateKey) MarshalBinary() ([]byte, error) {
	return append([]byte{}, pk.bytes[:]...), nil
}

func (pk *PrivateKey) UnmarshalBinary(b []byte) error {
	if len(b) != KeySize {
		return fmt.Errorf("identity: invalid private key length %d", len(b))
	}
	copy(pk.bytes[:], b)
	return nil
}

func (pub *PublicKey) Bytes() []byte {
	return pub.bytes[:]
}

func (pub *PublicKey) MarshalBinary() ([]byte, error) {
	return append([]byte{}, pub.bytes[:]...), nil
}

func (pub *PublicKey) UnmarshalBinary(b []byte) error {
	if len(b) != KeySize {
		return fmt.Errorf("identity: invalid public key length %d", len(b))
	}
	copy(pub.bytes[:], b)
	return nil
}

// DestinationAddress returns the address under which the provider keeps messages for the key owner.
// For now it is simply the public key itself.
func (pub *PublicKey) DestinationAddress() providerrequests.DestinationAddressBytes {
	var address providerrequests.DestinationAddressBytes
	copy(address[:], pub.bytes[:])
	return address
}

func (pub *PublicKey) String() string {
	return base64.URLEncoding.EncodeToString(pub.bytes[:])
}

// GenerateKeyPair returns a fresh Curve25519 keypair, or an error.
func GenerateKeyPair() (*PrivateKey, *PublicKey, error) {
	return generateKeyPair(rand.Reader)
}

func generateKeyPair(r io.Reader) (*PrivateKey, *PublicKey, error) {
	priv := new(PrivateKey)
	if _, err := io.ReadFull(r, priv.bytes[:]); err != nil {
		return nil, nil, err
	}
	return priv, priv.PublicKey(), nil
}

func CompareKeys(p1, p2 *PublicKey) bool {
	return subtle.ConstantTimeCompare(p1.Bytes(), p2.Bytes()) == 1
}

// AddressFromString decodes the base64 representation of a public key, as produced by PublicKey.String,
// into a destination address.
func AddressFromString(s string) (providerrequests.DestinationAddressBytes, error) {
	var address providerrequests.DestinationAddressBytes
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return address, err
	}
	if len(b) != providerrequests.DestinationAddressLength {
		return address, fmt.Errorf("identity: invalid address length %d", len(b))
	}
	copy(address[:], b)
	return address, nil
}
