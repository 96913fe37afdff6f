// Package catalog records split manifests in PostgreSQL so that the frames
// a run trained and evaluated on can be compared with later runs.
package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Noofbiz/mvdata/datasets"
)

// ErrNotFound is returned when no manifest is stored for a capture split.
var ErrNotFound = errors.New("split manifest not found")

// Manifest is the membership of one split of one capture.
type Manifest struct {
	Root         string
	Format       string
	Split        string
	TestInterval int
	Downsample   float64
	// Frames are the image names in split order.
	Frames []string
}

// CanonicalRoot is the key a capture root is stored under: absolute and
// cleaned, so "garden" and "./garden/" name the same capture.
func CanonicalRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	return abs
}

// ManifestFor describes the active split of ds.
func ManifestFor(ds *datasets.MultiView) Manifest {
	cfg := ds.Config()
	recs := ds.Records()
	frames := make([]string, len(recs))
	for i, r := range recs {
		frames[i] = r.Name
	}
	return Manifest{
		Root:         CanonicalRoot(cfg.Path),
		Format:       ds.Format().Name(),
		Split:        string(cfg.Split),
		TestInterval: cfg.TestSplitInterval,
		Downsample:   cfg.DownsampleFactor,
		Frames:       frames,
	}
}

// Diff returns a description of how o differs from m, or "" when they
// describe the same split.
func (m Manifest) Diff(o Manifest) string {
	switch {
	case m.Split != o.Split:
		return fmt.Sprintf("split %s != %s", m.Split, o.Split)
	case m.TestInterval != o.TestInterval:
		return fmt.Sprintf("test interval %d != %d", m.TestInterval, o.TestInterval)
	case len(m.Frames) != len(o.Frames):
		return fmt.Sprintf("%d frames != %d frames", len(m.Frames), len(o.Frames))
	}
	for i := range m.Frames {
		if m.Frames[i] != o.Frames[i] {
			return fmt.Sprintf("frame %d: %s != %s", i, m.Frames[i], o.Frames[i])
		}
	}
	return ""
}

// Equal reports whether both manifests hold the same frames in the same
// order under the same split settings. The downsample factor does not
// change membership and is ignored.
func (m Manifest) Equal(o Manifest) bool {
	return m.Diff(o) == ""
}

// Store manages the PostgreSQL connection.
type Store struct {
	conn *pgx.Conn
}

// New establishes a connection to the database and ensures the schema is initialized.
func New(ctx context.Context, connString string) (*Store, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := initSchema(ctx, conn); err != nil {
		_ = conn.Close(ctx)
		return nil, errors.Wrap(err, "failed to initialize database schema")
	}
	return &Store{conn: conn}, nil
}

func initSchema(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS split_manifests (
			root TEXT NOT NULL,
			split TEXT NOT NULL,
			format TEXT NOT NULL,
			test_interval INT NOT NULL,
			downsample DOUBLE PRECISION NOT NULL,
			frames TEXT[] NOT NULL,
			saved_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (root, split)
		);
	`)
	return err
}

// Close terminates the database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// SaveSplit stores m, replacing any manifest for the same root and split.
func (s *Store) SaveSplit(ctx context.Context, m Manifest) error {
	m.Root = CanonicalRoot(m.Root)
	frames := m.Frames
	if frames == nil {
		frames = []string{}
	}
	_, err := s.conn.Exec(ctx, `
		INSERT INTO split_manifests (root, split, format, test_interval, downsample, frames, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (root, split) DO UPDATE SET
			format = EXCLUDED.format,
			test_interval = EXCLUDED.test_interval,
			downsample = EXCLUDED.downsample,
			frames = EXCLUDED.frames,
			saved_at = NOW()
	`, m.Root, m.Split, m.Format, m.TestInterval, m.Downsample, frames)
	return errors.Wrapf(err, "saving %s split of %s", m.Split, m.Root)
}

// LoadSplit reads the manifest stored for root and split.
func (s *Store) LoadSplit(ctx context.Context, root, split string) (Manifest, error) {
	root = CanonicalRoot(root)
	m := Manifest{Root: root, Split: split}
	err := s.conn.QueryRow(ctx, `
		SELECT format, test_interval, downsample, frames
		FROM split_manifests WHERE root = $1 AND split = $2
	`, root, split).Scan(&m.Format, &m.TestInterval, &m.Downsample, &m.Frames)
	if errors.Is(err, pgx.ErrNoRows) {
		return Manifest{}, errors.Wrapf(ErrNotFound, "%s split of %s", split, root)
	}
	if err != nil {
		return Manifest{}, errors.Wrapf(err, "loading %s split of %s", split, root)
	}
	return m, nil
}
