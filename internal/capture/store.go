// Package capture persists raw frames for later replay through the decoder.
package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

var ErrNotFound = errors.New("capture: frame not found")

// Channel values stored on a Record.
const (
	ChannelControl = "control"
	ChannelData    = "data"
)

// Record is one captured frame. ID orders records by capture time.
type Record struct {
	ID        ksuid.KSUID `json:"id"`
	Channel   string      `json:"channel"`
	Direction string      `json:"direction,omitempty"`
	Source    string      `json:"source,omitempty"`
	Line      int         `json:"line,omitempty"`
	Frame     []byte      `json:"frame"`
}

// Time is the capture time carried by the record id.
func (r Record) Time() time.Time {
	return r.ID.Time()
}

// Store is a pebble-backed frame log keyed by ksuid.
type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Put stores rec under a new id stamped with the current time.
func (s *Store) Put(rec Record) (ksuid.KSUID, error) {
	return s.PutAt(time.Now(), rec)
}

// PutAt stores rec under a new id stamped with t.
func (s *Store) PutAt(t time.Time, rec Record) (ksuid.KSUID, error) {
	if rec.Channel != ChannelControl && rec.Channel != ChannelData {
		return ksuid.Nil, fmt.Errorf("capture: unknown channel %q", rec.Channel)
	}
	id, err := ksuid.NewRandomWithTime(t)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("capture: new id: %w", err)
	}
	rec.ID = id
	value, err := json.Marshal(rec)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("capture: encode record: %w", err)
	}
	if err := s.db.Set(id.Bytes(), value, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("capture: put %s: %w", id, err)
	}
	return id, nil
}

func (s *Store) Get(id ksuid.KSUID) (Record, error) {
	value, closer, err := s.db.Get(id.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("capture: get %s: %w", id, err)
	}
	defer closer.Close()
	return decodeRecord(value)
}

func (s *Store) Delete(id ksuid.KSUID) error {
	if err := s.db.Delete(id.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("capture: delete %s: %w", id, err)
	}
	return nil
}

// List calls fn for each record in capture order. An error from fn stops
// the walk and is returned as is.
func (s *Store) List(fn func(Record) error) error {
	it, err := s.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("capture: iterate: %w", err)
	}
	for it.First(); it.Valid(); it.Next() {
		rec, err := decodeRecord(it.Value())
		if err != nil {
			it.Close()
			return err
		}
		if err := fn(rec); err != nil {
			it.Close()
			return err
		}
	}
	if err := it.Close(); err != nil {
		return fmt.Errorf("capture: iterate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func decodeRecord(value []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return Record{}, fmt.Errorf("capture: decode record: %w", err)
	}
	return rec, nil
}
