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

package identity

import (
	"bytes"
	"testing"

	"github.com/nymtech/nym-sfw-provider/providerrequests"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/curve25519"
)

func TestGenerateKeyPair(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	assert.Nil(t, err)

	assert.Len(t, priv.Bytes(), KeySize)
	assert.Len(t, pub.Bytes(), KeySize)
	assert.NotZero(t, priv.Bytes())
	assert.NotZero(t, pub.Bytes())

	var pkBytes [KeySize]byte
	var pubBytes [KeySize]byte
	copy(pkBytes[:], priv.Bytes())

	curve25519.ScalarBaseMult(&pubBytes, &pkBytes)
	assert.True(t, CompareKeys(pub, &PublicKey{bytes: pubBytes}))
}

func TestGenerateKeyPair_ShortReader(t *testing.T) {
	_, _, err := generateKeyPair(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestKeys_BinaryRoundTrip(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	assert.Nil(t, err)

	privBytes, err := priv.MarshalBinary()
	assert.Nil(t, err)
	recoveredPriv := new(PrivateKey)
	assert.Nil(t, recoveredPriv.UnmarshalBinary(privBytes))
	assert.Equal(t, priv, recoveredPriv)
	assert.True(t, CompareKeys(pub, recoveredPriv.PublicKey()))

	assert.Error(t, new(PublicKey).UnmarshalBinary([]byte{1, 2}))
	assert.Error(t, new(PrivateKey).UnmarshalBinary(nil))
}

func TestDestinationAddress(t *testing.T) {
	_, pub, err := GenerateKeyPair()
	assert.Nil(t, err)

	address := pub.DestinationAddress()
	assert.Equal(t, pub.Bytes(), address[:])

	recovered, err := AddressFromString(pub.String())
	assert.Nil(t, err)
	assert.Equal(t, address, recovered)

	// the address can be used directly in a pull request
	req := providerrequests.NewPullRequest(address)
	assert.Equal(t, pub.Bytes(), req.Bytes()[providerrequests.RequestTypeLength:])
}

func TestAddressFromString_Invalid(t *testing.T) {
	_, err := AddressFromString("not base64!")
	assert.Error(t, err)

	_, err = AddressFromString("AAAA")
	assert.Error(t, err)
}
