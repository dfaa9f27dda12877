package storages

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"

	"github.com/reusee/whitespace/wsprog"
	_ "modernc.org/sqlite"
)

// ProgramCache stores decoded programs keyed by the digest of their source.
type ProgramCache struct {
	db *sql.DB
}

func OpenProgramCache(ctx context.Context, path string) (*ProgramCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrap(err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, wrap(err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS programs (
		key TEXT PRIMARY KEY,
		data BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, wrap(err)
	}
	return &ProgramCache{
		db: db,
	}, nil
}

func (p *ProgramCache) Close() error {
	return p.db.Close()
}

// Key returns the cache key of source content.
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Get returns (nil, false, nil) on miss. An entry that cannot be decoded is an error.
func (p *ProgramCache) Get(ctx context.Context, key string) (prog *wsprog.Program, ok bool, err error) {
	err = withTx(ctx, p.db, func(tx Tx) error {
		row, err := tx.QueryRow(ctx, `SELECT data FROM programs WHERE key = ?`, key)
		if err != nil {
			return err
		}
		var data []byte
		if err := row.Scan(&data); errors.Is(err, sql.ErrNoRows) {
			return nil
		} else if err != nil {
			return wrap(err)
		}
		prog, err = UnmarshalProgram(data)
		if err != nil {
			return wrap(err)
		}
		ok = true
		return nil
	})
	return
}

func (p *ProgramCache) Put(ctx context.Context, key string, prog *wsprog.Program) error {
	data, err := MarshalProgram(prog)
	if err != nil {
		return wrap(err)
	}
	return withTx(ctx, p.db, func(tx Tx) error {
		_, err := tx.Exec(ctx, `INSERT OR REPLACE INTO programs (key, data) VALUES (?, ?)`, key, data)
		return err
	})
}

// Decode returns the cached program for src, decoding and storing it on a miss.
// Decode errors are not cached. A nil cache just decodes.
func (p *ProgramCache) Decode(ctx context.Context, src *wsprog.Source) (*wsprog.Program, error) {
	if p == nil {
		return src.Decode()
	}
	key := Key(src.Content)
	prog, ok, err := p.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		return prog, nil
	}
	prog, err = src.Decode()
	if err != nil {
		return nil, err
	}
	if err := p.Put(ctx, key, prog); err != nil {
		return nil, err
	}
	return prog, nil
}
