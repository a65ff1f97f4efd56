package expense

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const journalBucket = "requests"

// Journal records processed requests for debugging and the history API.
type Journal interface {
	// Append stores an entry under its request id.
	Append(entry *JournalEntry) error

	// Get retrieves an entry by request id.
	Get(id string) (*JournalEntry, error)

	// List returns all entries, newest first.
	List() ([]*JournalEntry, error)

	// Close closes the journal.
	Close() error
}

// BoltJournal implements the Journal interface using BoltDB.
type BoltJournal struct {
	db *bbolt.DB
}

// NewBoltJournal opens (or creates) the journal database.
func NewBoltJournal(path string) (*BoltJournal, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(journalBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltJournal{db: db}, nil
}

// Append stores an entry under its request id.
func (b *BoltJournal) Append(entry *JournalEntry) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshaling entry: %w", err)
		}
		return bucket.Put([]byte(entry.ID), data)
	})
}

// Get retrieves an entry by request id.
func (b *BoltJournal) Get(id string) (*JournalEntry, error) {
	var entry *JournalEntry
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		data := bucket.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("entry not found: %s", id)
		}
		entry = &JournalEntry{}
		return json.Unmarshal(data, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns all entries, newest first.
func (b *BoltJournal) List() ([]*JournalEntry, error) {
	var entries []*JournalEntry
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(journalBucket))
		return bucket.ForEach(func(_, v []byte) error {
			entry := &JournalEntry{}
			if err := json.Unmarshal(v, entry); err != nil {
				return fmt.Errorf("unmarshaling entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ReceivedAt.After(entries[j].ReceivedAt)
	})
	return entries, nil
}

// Close closes the journal database.
func (b *BoltJournal) Close() error {
	return b.db.Close()
}
