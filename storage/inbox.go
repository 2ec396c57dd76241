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

/*
	Package storage implements the provider inboxes, i.e. messages kept on behalf
	of offline clients until they are pulled, represented as a SQL database.
*/

package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/nymtech/nym-sfw-provider/providerrequests"
	// Blank import so that go-sqlite3 is registered before package init
	// https://golang.org/doc/effective_go.html#blank_import
	_ "github.com/mattn/go-sqlite3"
)

const (
	dbDriver = "sqlite3"

	// InMemory can be passed to Open to get a store that is not persisted anywhere.
	InMemory = ":memory:"

	createInboxTable = `CREATE TABLE IF NOT EXISTS Inbox (
		idx INTEGER PRIMARY KEY AUTOINCREMENT,
		Address BLOB NOT NULL,
		Message BLOB NOT NULL
	)`
	createInboxIndex = "CREATE INDEX IF NOT EXISTS InboxAddress ON Inbox (Address, idx)"
)

var (
	// ErrEmptyMessage is returned when trying to store a message without any content.
	ErrEmptyMessage = errors.New("storage: cannot store an empty message")
	// ErrClosed is returned for any operation on a closed store.
	ErrClosed = errors.New("storage: inbox store is closed")
)

type inboxRow struct {
	Idx     int64  `db:"idx"`
	Message []byte `db:"Message"`
}

// InboxStore keeps messages for destination addresses until they are fetched.
type InboxStore struct {
	mu sync.Mutex
	db *sqlx.DB
}

// Open opens (creating it if needed) the inbox database at dataSourceName.
func Open(dataSourceName string) (*InboxStore, error) {
	db, err := sqlx.Connect(dbDriver, dataSourceName)
	if err != nil {
		return nil, err
	}
	// sqlite in-memory databases only live as long as their connection
	if dataSourceName == InMemory {
		db.SetMaxOpenConns(1)
	}

	for _, query := range []string{createInboxTable, createInboxIndex} {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: failed to create inbox schema: %w", err)
		}
	}

	return &InboxStore{db: db}, nil
}

// Store appends message to the inbox of address.
func (s *InboxStore) Store(address providerrequests.DestinationAddressBytes, message []byte) error {
	if len(message) == 0 {
		return ErrEmptyMessage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.Exec("INSERT INTO Inbox (Address, Message) VALUES (?, ?)", address[:], message)
	return err
}

// Fetch removes and returns up to limit of the oldest messages stored for address.
// A non-positive limit returns all of them.
func (s *InboxStore) Fetch(address providerrequests.DestinationAddressBytes, limit int) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, ErrClosed
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint: errcheck

	query := "SELECT idx, Message FROM Inbox WHERE Address = ? ORDER BY idx"
	args := []interface{}{address[:]}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []inboxRow
	if err := tx.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(rows))
	messages := make([][]byte, len(rows))
	for i, row := range rows {
		ids[i] = row.Idx
		messages[i] = row.Message
	}

	deleteQuery, deleteArgs, err := sqlx.In("DELETE FROM Inbox WHERE idx IN (?)", ids)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(tx.Rebind(deleteQuery), deleteArgs...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return messages, nil
}

// Count returns the number of messages waiting for address.
func (s *InboxStore) Count(address providerrequests.DestinationAddressBytes) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return 0, ErrClosed
	}

	var count int
	err := s.db.Get(&count, "SELECT COUNT(*) FROM Inbox WHERE Address = ?", address[:])
	return count, err
}

// Close closes the underlying database. It is safe to call it multiple times.
func (s *InboxStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
