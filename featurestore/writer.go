package featurestore

import (
	"database/sql"
	"os"

	"github.com/go-errors/errors"
)

// Writer creates a feature store and appends samples to it. The order rows
// are appended in is the order readers will see, so callers are expected to
// shuffle their samples before writing.
type Writer struct {
	db      *sql.DB
	feature *sql.Stmt
	label   *sql.Stmt
}

// Create makes a new feature store at path, replacing any existing file, and
// records the class names up front.
func Create(path string, labelNames []string) (*Writer, error) {
	os.Remove(path)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	schema := `
		CREATE TABLE features (vector BLOB NOT NULL);
		CREATE TABLE labels (label INTEGER NOT NULL);
		CREATE TABLE label_names (name TEXT NOT NULL);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, 0)
	}
	for _, name := range labelNames {
		if _, err := db.Exec(`INSERT INTO label_names (name) VALUES (?)`, name); err != nil {
			db.Close()
			return nil, errors.Wrap(err, 0)
		}
	}
	feature, err := db.Prepare(`INSERT INTO features (vector) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, 0)
	}
	label, err := db.Prepare(`INSERT INTO labels (label) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, 0)
	}
	return &Writer{db: db, feature: feature, label: label}, nil
}

// Append adds one sample to the store.
func (w *Writer) Append(vector []float64, label int) error {
	if _, err := w.feature.Exec(encodeVector(vector)); err != nil {
		return errors.Wrap(err, 0)
	}
	if _, err := w.label.Exec(label); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}

// Close flushes and releases the store file.
func (w *Writer) Close() error {
	w.feature.Close()
	w.label.Close()
	return w.db.Close()
}
