// Package history persists REPL input in a bbolt database.
//
// Every entry gets a sequence number and the id of the session that wrote
// it, so the REPL can recall input across runs and tell runs apart.
package history

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketCmd     = "cmd"
	bucketSession = "cmd_session"
)

// ErrNoMatchingCmd is returned when no history entry has the requested
// sequence number.
var ErrNoMatchingCmd = errors.New("no matching command line")

// Entry is one line of history
type Entry struct {
	Seq     int
	Text    string
	Session string
}

// Store is a history database. Each Store is one session.
type Store struct {
	db      *bolt.DB
	session string
}

// Open opens or creates the history database at path and starts a new
// session.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketCmd, bucketSession} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, session: uuid.NewString()}, nil
}

// Session returns the id of the session this store writes entries for
func (s *Store) Session() string {
	return s.session
}

// Add appends text to the history and returns its sequence number
func (s *Store) Add(text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(marshalSeq(seq), []byte(text)); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketSession)).Put(marshalSeq(seq), []byte(s.session))
	})
	return int(seq), err
}

// Get returns the entry with the given sequence number
func (s *Store) Get(seq int) (Entry, error) {
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		key := marshalSeq(uint64(seq))
		v := tx.Bucket([]byte(bucketCmd)).Get(key)
		if v == nil {
			return ErrNoMatchingCmd
		}
		e = Entry{Seq: seq, Text: string(v), Session: string(tx.Bucket([]byte(bucketSession)).Get(key))}
		return nil
	})
	return e, err
}

// Delete removes the entry with the given sequence number
func (s *Store) Delete(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		key := marshalSeq(uint64(seq))
		if err := tx.Bucket([]byte(bucketCmd)).Delete(key); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketSession)).Delete(key)
	})
}

// Range returns the entries with from <= seq < upto in order
func (s *Store) Range(from, upto int) ([]Entry, error) {
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		sessions := tx.Bucket([]byte(bucketSession))
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Seek(marshalSeq(uint64(from))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			entries = append(entries, Entry{
				Seq:     int(unmarshalSeq(k)),
				Text:    string(v),
				Session: string(sessions.Get(k)),
			})
		}
		return nil
	})
	return entries, err
}

// Last returns up to n of the most recent entries, oldest first
func (s *Store) Last(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		sessions := tx.Bucket([]byte(bucketSession))
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < n; k, v = c.Prev() {
			entries = append(entries, Entry{
				Seq:     int(unmarshalSeq(k)),
				Text:    string(v),
				Session: string(sessions.Get(k)),
			})
		}
		return nil
	})
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, err
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
