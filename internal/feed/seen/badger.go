// FeedRank - Personalized Feed Ranking and Selection
// Copyright 2026 Driftlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/driftlab/feedrank

package seen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/driftlab/feedrank/internal/feed"
)

// seenKeyPrefix namespaces seen records in the shared BadgerDB.
const seenKeyPrefix = "seen:"

// record is the stored value for one (user, item) pair.
type record struct {
	UserID string    `json:"user_id"`
	ItemID string    `json:"item_id"`
	SeenAt time.Time `json:"seen_at"`
}

// BadgerStore implements Store on BadgerDB for durable seen state across
// restarts. Keys are "seen:<user>:<item>"; values are JSON records.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a BadgerDB-backed seen store. The caller owns
// opening the database; the store owns closing it.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func seenKey(userID, itemID string) []byte {
	return []byte(seenKeyPrefix + userID + ":" + itemID)
}

// RecordShown upserts one record per id. An existing record only moves
// forward in time; a write carrying an older instant than the stored one
// is dropped, so overlapping passes settle on the freshest timestamp.
func (s *BadgerStore) RecordShown(ctx context.Context, userID string, ids []string, at time.Time) error {
	if userID == "" || len(ids) == 0 {
		return nil
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			if id == "" {
				continue
			}
			key := seenKey(userID, id)

			if item, err := txn.Get(key); err == nil {
				var prev record
				readErr := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &prev)
				})
				if readErr == nil && at.Before(prev.SeenAt) {
					continue
				}
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("get seen record: %w", err)
			}

			data, err := json.Marshal(record{UserID: userID, ItemID: id, SeenAt: at})
			if err != nil {
				return fmt.Errorf("marshal seen record: %w", err)
			}
			if err := txn.Set(key, data); err != nil {
				return fmt.Errorf("set seen record: %w", err)
			}
		}
		return nil
	})
}

// ReadRecent returns the user's records with seen_at at or after since.
// A record whose value fails to decode is returned with a zero time so
// the item still counts as present.
func (s *BadgerStore) ReadRecent(ctx context.Context, userID string, since time.Time) (feed.SeenMap, error) {
	out := make(feed.SeenMap)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(seenKeyPrefix + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			itemID := strings.TrimPrefix(string(item.Key()), string(prefix))
			if itemID == "" {
				continue
			}

			var rec record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				out[itemID] = time.Time{}
				continue
			}
			if rec.SeenAt.Before(since) {
				continue
			}
			out[itemID] = rec.SeenAt
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("read seen records: %w", err)
	}
	return out, nil
}

// Cleanup removes records older than before across all users. Undecodable
// records are removed as well; they can never satisfy a read filter.
func (s *BadgerStore) Cleanup(ctx context.Context, before time.Time) (int, error) {
	var expired [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(seenKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			var rec record
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil || rec.SeenAt.Before(before) {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan seen records: %w", err)
	}

	deleted := 0
	for _, key := range expired {
		err := s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			continue
		}
		deleted++
	}
	return deleted, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
