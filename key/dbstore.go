package key

import (
	"errors"

	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/pebbledb"
)

// DBStore is a Store backed by an on-disk pebble database, for sessions that
// survive a process restart. Values are still the raw derived scalars, so
// the directory must be protected like any other secret material.
type DBStore struct {
	db db.Database
}

// NewDBStore opens (or creates) a pebble-backed store at path.
func NewDBStore(path string) (*DBStore, error) {
	database, err := pebbledb.New(db.Options{Path: path})
	if err != nil {
		return nil, err
	}
	return &DBStore{db: database}, nil
}

func (s *DBStore) Get(address string) (string, bool, error) {
	v, err := s.db.Get([]byte(address))
	if errors.Is(err, db.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (s *DBStore) Put(address, value string) error {
	wtx := s.db.WriteTx()
	defer wtx.Discard()
	if err := wtx.Set([]byte(address), []byte(value)); err != nil {
		return err
	}
	return wtx.Commit()
}

func (s *DBStore) Delete(address string) error {
	wtx := s.db.WriteTx()
	defer wtx.Discard()
	if err := wtx.Delete([]byte(address)); err != nil {
		return err
	}
	return wtx.Commit()
}

func (s *DBStore) Close() error {
	return s.db.Close()
}
