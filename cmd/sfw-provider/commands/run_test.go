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

	"github.com/nymtech/nym-sfw-provider/config"
	"github.com/nymtech/nym-sfw-provider/helpers"
	"github.com/nymtech/nym-sfw-provider/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeys(t *testing.T) {
	dir, err := ioutil.TempDir("", "sfw-provider")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	cfg, err := config.DefaultConfig("KeysProvider")
	require.Nil(t, err)
	cfg.Provider.HomeDirectory = dir
	require.Nil(t, helpers.EnsureDir(filepath.Dir(cfg.Provider.PrivateKeyFile()), 0700))

	priv, pub, err := identity.GenerateKeyPair()
	require.Nil(t, err)
	require.Nil(t, helpers.ToPEMFile(priv, cfg.Provider.PrivateKeyFile(), identity.PrivateKeyPEMType))
	require.Nil(t, helpers.ToPEMFile(pub, cfg.Provider.PublicKeyFile(), identity.PublicKeyPEMType))

	loaded, err := loadKeys(cfg.Provider)
	require.Nil(t, err)
	assert.True(t, identity.CompareKeys(pub, loaded))

	_, otherPub, err := identity.GenerateKeyPair()
	require.Nil(t, err)
	require.Nil(t, helpers.ToPEMFile(otherPub, cfg.Provider.PublicKeyFile(), identity.PublicKeyPEMType))

	_, err = loadKeys(cfg.Provider)
	assert.Error(t, err)
}
