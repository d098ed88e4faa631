// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package store persists suspended VM sessions and cached search results in
// a bbolt database.
//
// Snapshots are stored as zstd compressed canonical CBOR in the sessions
// bucket, keyed by a random UUID. Session metadata lives in the meta bucket
// under the same key so that listing sessions does not decode snapshots.
// Results are keyed by program fingerprint and a caller chosen key.
package store

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/db47h/intcode/vm"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when a session or result does not exist.
var ErrNotFound = errors.New("not found")

var (
	bucketSessions = []byte("sessions")
	bucketMeta     = []byte("meta")
	bucketResults  = []byte("results")
)

// Session describes a stored snapshot.
type Session struct {
	ID          string    `cbor:"1,keyasint"`
	Fingerprint string    `cbor:"2,keyasint"`
	Created     time.Time `cbor:"3,keyasint"`
	Updated     time.Time `cbor:"4,keyasint"`
	State       vm.State  `cbor:"5,keyasint"`
	PC          vm.Cell   `cbor:"6,keyasint"`
	Steps       int64     `cbor:"7,keyasint"`
	Outputs     int       `cbor:"8,keyasint"`
}

// Result is a cached search outcome.
type Result struct {
	Signal  vm.Cell   `cbor:"1,keyasint"`
	Phases  []vm.Cell `cbor:"2,keyasint"`
	Created time.Time `cbor:"3,keyasint"`
}

// Store is a handle on an open database. It is safe for concurrent use.
type Store struct {
	db  *bolt.DB
	log commonlog.Logger
	now func() time.Time
}

type options struct {
	timeout  time.Duration
	readOnly bool
	log      commonlog.Logger
}

// Option configures Open.
type Option func(*options)

// Timeout sets how long Open waits for the database file lock. The default
// is one second.
func Timeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// ReadOnly opens the database in read-only mode.
func ReadOnly(o *options) { o.readOnly = true }

// Logger sets the logger. The default is the "intcode.store" logger.
func Logger(l commonlog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open opens or creates the database at path. The parent directory is
// created if needed.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{timeout: time.Second, log: commonlog.GetLogger("intcode.store")}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.readOnly {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: o.timeout, ReadOnly: o.readOnly})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	s := &Store{db: db, log: o.log, now: time.Now}
	if !o.readOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			for _, name := range [][]byte{bucketSessions, bucketMeta, bucketResults} {
				if _, err := tx.CreateBucketIfNotExists(name); err != nil {
					return errors.Wrapf(err, "create bucket %s", name)
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	o.log.Debugf("opened %s", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func bucket(tx *bolt.Tx, name []byte) (*bolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		// only possible on a read-only database that was never written to.
		return nil, errors.Wrapf(ErrNotFound, "bucket %s", name)
	}
	return b, nil
}

func (s *Store) putSession(tx *bolt.Tx, m *Session, snap *vm.Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	m.State = snap.State
	m.PC = snap.PC
	m.Steps = snap.Steps
	m.Outputs = len(snap.Output)
	meta, err := marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	key := []byte(m.ID)
	if err = tx.Bucket(bucketSessions).Put(key, data); err != nil {
		return errors.Wrapf(err, "session %s", m.ID)
	}
	return errors.Wrapf(tx.Bucket(bucketMeta).Put(key, meta), "session %s", m.ID)
}

// SaveSession stores snap as a new session for program p.
func (s *Store) SaveSession(p vm.Program, snap *vm.Snapshot) (Session, error) {
	now := s.now().UTC()
	m := Session{
		ID:          uuid.NewString(),
		Fingerprint: Fingerprint(p),
		Created:     now,
		Updated:     now,
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return s.putSession(tx, &m, snap)
	})
	if err != nil {
		return Session{}, err
	}
	s.log.Infof("saved session %s (%s, pc=%d)", m.ID, m.State, m.PC)
	return m, nil
}

// UpdateSession replaces the snapshot of an existing session.
func (s *Store) UpdateSession(id string, snap *vm.Snapshot) (Session, error) {
	var m Session
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := getMeta(tx, id, &m); err != nil {
			return err
		}
		m.Updated = s.now().UTC()
		return s.putSession(tx, &m, snap)
	})
	if err != nil {
		return Session{}, err
	}
	s.log.Debugf("updated session %s (%s, pc=%d)", m.ID, m.State, m.PC)
	return m, nil
}

func getMeta(tx *bolt.Tx, id string, m *Session) error {
	b, err := bucket(tx, bucketMeta)
	if err != nil {
		return err
	}
	data := b.Get([]byte(id))
	if data == nil {
		return errors.Wrapf(ErrNotFound, "session %s", id)
	}
	return errors.Wrapf(unmarshal(data, m), "session %s", id)
}

// LoadSession returns the metadata and snapshot of a session.
func (s *Store) LoadSession(id string) (Session, *vm.Snapshot, error) {
	var (
		m    Session
		snap *vm.Snapshot
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		if err := getMeta(tx, id, &m); err != nil {
			return err
		}
		b, err := bucket(tx, bucketSessions)
		if err != nil {
			return err
		}
		data := b.Get([]byte(id))
		if data == nil {
			return errors.Wrapf(ErrNotFound, "session %s snapshot", id)
		}
		// data is only valid for the life of the transaction; DecodeAll copies.
		snap, err = DecodeSnapshot(data)
		return errors.Wrapf(err, "session %s", id)
	})
	if err != nil {
		return Session{}, nil, err
	}
	return m, snap, nil
}

// DeleteSession removes a session.
func (s *Store) DeleteSession(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		key := []byte(id)
		meta := tx.Bucket(bucketMeta)
		if meta.Get(key) == nil {
			return errors.Wrapf(ErrNotFound, "session %s", id)
		}
		if err := meta.Delete(key); err != nil {
			return err
		}
		return tx.Bucket(bucketSessions).Delete(key)
	})
	if err == nil {
		s.log.Infof("deleted session %s", id)
	}
	return err
}

// Sessions lists all sessions, newest first.
func (s *Store) Sessions() ([]Session, error) {
	var l []Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, bucketMeta)
		if err != nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var m Session
			if err := unmarshal(v, &m); err != nil {
				return errors.Wrapf(err, "session %s", k)
			}
			l = append(l, m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(l, func(i, j int) bool {
		if !l[i].Created.Equal(l[j].Created) {
			return l[i].Created.After(l[j].Created)
		}
		return l[i].ID < l[j].ID
	})
	return l, nil
}

func resultKey(fp, key string) []byte {
	var b bytes.Buffer
	b.WriteString(fp)
	b.WriteByte(0)
	b.WriteString(key)
	return b.Bytes()
}

// PutResult caches a search result for the program with fingerprint fp.
func (s *Store) PutResult(fp, key string, v vm.Cell, phases []vm.Cell) error {
	data, err := marshal(&Result{Signal: v, Phases: phases, Created: s.now().UTC()})
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResults).Put(resultKey(fp, key), data)
	})
	if err != nil {
		return errors.Wrapf(err, "result %s/%s", fp, key)
	}
	s.log.Debugf("cached result %s/%s = %d", fp, key, v)
	return nil
}

// Result returns a cached result.
func (s *Store) Result(fp, key string) (Result, error) {
	var r Result
	err := s.db.View(func(tx *bolt.Tx) error {
		b, err := bucket(tx, bucketResults)
		if err != nil {
			return err
		}
		data := b.Get(resultKey(fp, key))
		if data == nil {
			return errors.Wrapf(ErrNotFound, "result %s/%s", fp, key)
		}
		return unmarshal(data, &r)
	})
	return r, err
}
