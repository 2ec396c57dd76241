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

package storage

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/nymtech/nym-sfw-provider/providerrequests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *InboxStore {
	store, err := Open(InMemory)
	require.Nil(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInboxStore_StoreAndFetch(t *testing.T) {
	store := newTestStore(t)
	alice := providerrequests.DestinationAddressBytes{1}
	bob := providerrequests.DestinationAddressBytes{2}

	for i := 0; i < 3; i++ {
		assert.Nil(t, store.Store(alice, []byte(fmt.Sprintf("alice%d", i))))
	}
	assert.Nil(t, store.Store(bob, []byte("bob0")))

	count, err := store.Count(alice)
	assert.Nil(t, err)
	assert.Equal(t, 3, count)

	messages, err := store.Fetch(alice, 0)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("alice0"), []byte("alice1"), []byte("alice2")}, messages)

	// fetched messages are removed, other inboxes are left alone
	count, err = store.Count(alice)
	assert.Nil(t, err)
	assert.Equal(t, 0, count)
	count, err = store.Count(bob)
	assert.Nil(t, err)
	assert.Equal(t, 1, count)
}

func TestInboxStore_FetchWithLimit(t *testing.T) {
	store := newTestStore(t)
	address := providerrequests.DestinationAddressBytes{42}
	for i := 0; i < 5; i++ {
		assert.Nil(t, store.Store(address, []byte{byte(i)}))
	}

	first, err := store.Fetch(address, 2)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{{0}, {1}}, first)

	rest, err := store.Fetch(address, 10)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{{2}, {3}, {4}}, rest)
}

func TestInboxStore_FetchEmpty(t *testing.T) {
	store := newTestStore(t)
	messages, err := store.Fetch(providerrequests.DestinationAddressBytes{7}, 0)
	assert.Nil(t, err)
	assert.Empty(t, messages)
}

func TestInboxStore_StoreEmptyMessage(t *testing.T) {
	store := newTestStore(t)
	assert.Equal(t, ErrEmptyMessage, store.Store(providerrequests.DestinationAddressBytes{}, nil))
}

func TestInboxStore_Closed(t *testing.T) {
	store, err := Open(InMemory)
	require.Nil(t, err)
	assert.Nil(t, store.Close())
	assert.Nil(t, store.Close())

	address := providerrequests.DestinationAddressBytes{}
	assert.Equal(t, ErrClosed, store.Store(address, []byte("foo")))
	_, err = store.Fetch(address, 0)
	assert.Equal(t, ErrClosed, err)
	_, err = store.Count(address)
	assert.Equal(t, ErrClosed, err)
}

func TestInboxStore_Persistence(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "inboxes")
	require.Nil(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "inboxes.db")
	address := providerrequests.DestinationAddressBytes{9}

	store, err := Open(dbPath)
	require.Nil(t, err)
	assert.Nil(t, store.Store(address, []byte("persisted")))
	assert.Nil(t, store.Close())

	reopened, err := Open(dbPath)
	require.Nil(t, err)
	defer reopened.Close()

	messages, err := reopened.Fetch(address, 0)
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("persisted")}, messages)
}
