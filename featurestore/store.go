// Package featurestore reads and writes the SQLite databases of pre-computed
// feature vectors that the feature-training command consumes. A store holds
// three collections, all kept in insertion order: `features` (float32 vector
// blobs), `labels` (integer class indices) and `label_names` (class name
// strings).
package featurestore

import (
	"database/sql"
	"encoding/binary"
	"math"

	"github.com/go-errors/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a read-only view over a feature database. Rows are assumed to
// have been shuffled before the store was written; the positional train/test
// split relies entirely on that ordering and the store never reshuffles.
type Store struct {
	db *sql.DB
}

// Open opens a feature store read-only. The caller must Close the store on
// every exit path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	// sql.Open is lazy, so probe the schema here to fail on a missing or
	// malformed database.
	var n int
	err = db.QueryRow(`SELECT count(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('features', 'labels', 'label_names')`).Scan(&n)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, 0)
	}
	if n != 3 {
		db.Close()
		return nil, errors.Errorf("%s is not a feature store", path)
	}
	return &Store{db: db}, nil
}

// Count returns the number of samples in the store.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM labels`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, 0)
	}
	return n, nil
}

// Features returns every feature vector in insertion order.
func (s *Store) Features() ([][]float64, error) {
	rows, err := s.db.Query(`SELECT vector FROM features ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	defer rows.Close()

	var features [][]float64
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		v, err := decodeVector(blob)
		if err != nil {
			return nil, err
		}
		features = append(features, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return features, nil
}

// Labels returns every integer label in insertion order.
func (s *Store) Labels() ([]int, error) {
	rows, err := s.db.Query(`SELECT label FROM labels ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	defer rows.Close()

	var labels []int
	for rows.Next() {
		var l int
		if err := rows.Scan(&l); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return labels, nil
}

// LabelNames returns the class names, indexed by label value.
func (s *Store) LabelNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM label_names ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, errors.Wrap(err, 0)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return names, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SplitIndex returns the boundary of the positional 75/25 split for a store
// of n samples: rows [0, SplitIndex) train, the remainder evaluate.
func SplitIndex(n int) int {
	return int(float64(n) * 0.75)
}

func decodeVector(blob []byte) ([]float64, error) {
	if len(blob)%4 != 0 {
		return nil, errors.Errorf("malformed feature vector: %d bytes is not a whole number of float32s", len(blob))
	}
	v := make([]float64, len(blob)/4)
	for i := range v {
		v[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:])))
	}
	return v, nil
}

func encodeVector(v []float64) []byte {
	blob := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(float32(x)))
	}
	return blob
}
