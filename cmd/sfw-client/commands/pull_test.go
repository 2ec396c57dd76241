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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/nymtech/nym-sfw-provider/helpers"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationAddress(t *testing.T) {
	dir, err := ioutil.TempDir("", "sfw-client")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	_, pub, err := identity.GenerateKeyPair()
	require.Nil(t, err)
	keyFile := filepath.Join(dir, publicKeyFileName)
	require.Nil(t, helpers.ToPEMFile(pub, keyFile, identity.PublicKeyPEMType))

	fromKey, err := destinationAddress(keyFile, "")
	require.Nil(t, err)
	assert.Equal(t, pub.DestinationAddress(), fromKey)

	fromString, err := destinationAddress("", pub.String())
	require.Nil(t, err)
	assert.Equal(t, pub.DestinationAddress(), fromString)

	_, err = destinationAddress(keyFile, pub.String())
	assert.Error(t, err)

	_, err = destinationAddress("", "")
	assert.Error(t, err)

	_, err = destinationAddress(filepath.Join(dir, "missing.pem"), "")
	assert.Error(t, err)
}
