// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage persists exported benchmark sample records in a
// local SQLite database, so collection runs can be compared later or
// across machines.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/perfcmp/perfcmp/benchmath"
)

// ErrNotFound reports a lookup for a record that is not in the store.
var ErrNotFound = errors.New("record not found")

// DB is a handle to one record store. It is safe for concurrent use
// by multiple goroutines.
type DB struct {
	sql *sql.DB
	// prepared statements
	insertRecord *sql.Stmt
}

// Open opens (creating if necessary) the record store at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db := &DB{sql: conn}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

var createStmts = `
CREATE TABLE IF NOT EXISTS Records (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	Name VARCHAR(255) NOT NULL,
	SavedAt TIMESTAMP NOT NULL,
	Content BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS RecordsNameSavedAt ON Records(Name, SavedAt);
`

func (db *DB) createTables() error {
	for _, q := range strings.Split(createStmts, ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

func (db *DB) prepareStatements() error {
	var err error
	db.insertRecord, err = db.sql.Prepare(
		"INSERT INTO Records (Name, SavedAt, Content) VALUES (?, ?, ?)")
	return err
}

// SaveRecord stores one exported record and returns its store ID. The
// record is validated the same way Import validates it; a record that
// could not be re-imported is rejected rather than stored.
func (db *DB) SaveRecord(ctx context.Context, r *benchmath.Record) (int64, error) {
	if _, err := benchmath.Import(r); err != nil {
		return 0, err
	}
	content, err := json.Marshal(r)
	if err != nil {
		return 0, err
	}
	res, err := db.insertRecord.ExecContext(ctx, r.Name, time.Now().UTC(), content)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LoadRecord returns the record with the given store ID.
func (db *DB) LoadRecord(ctx context.Context, id int64) (*benchmath.Record, error) {
	var content []byte
	err := db.sql.QueryRowContext(ctx,
		"SELECT Content FROM Records WHERE ID = ?", id).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(content)
}

// LoadByName returns the most recently saved record with the given
// sample-set name.
func (db *DB) LoadByName(ctx context.Context, name string) (*benchmath.Record, error) {
	var content []byte
	err := db.sql.QueryRowContext(ctx,
		"SELECT Content FROM Records WHERE Name = ? ORDER BY SavedAt DESC, ID DESC LIMIT 1",
		name).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(content)
}

// LoadLatest returns the most recent record of every named sample set
// in the store, ordered by name. This is the input a comparison run
// typically wants.
func (db *DB) LoadLatest(ctx context.Context) ([]*benchmath.Record, error) {
	rows, err := db.sql.QueryContext(ctx, `
		SELECT Content FROM Records
		WHERE ID IN (SELECT MAX(ID) FROM Records GROUP BY Name)
		ORDER BY Name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*benchmath.Record
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		r, err := decodeRecord(content)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListNames returns the distinct sample-set names in the store,
// ordered.
func (db *DB) ListNames(ctx context.Context) ([]string, error) {
	rows, err := db.sql.QueryContext(ctx,
		"SELECT DISTINCT Name FROM Records ORDER BY Name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the store.
func (db *DB) Close() error {
	if db.insertRecord != nil {
		db.insertRecord.Close()
	}
	return db.sql.Close()
}

func decodeRecord(content []byte) (*benchmath.Record, error) {
	r := new(benchmath.Record)
	if err := json.Unmarshal(content, r); err != nil {
		return nil, fmt.Errorf("corrupt stored record: %v", err)
	}
	return r, nil
}
