/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package account is the db daemon's only link to the persistent account
// table (spec §6 "Persisted state"): name, uuid, password hash and the
// role/status flag bitset. Every other daemon role reaches it only
// through the wire protocol's acctCreate/acctAuth messages, forwarded by
// whichever daemon accepted the client.
package account

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	errors "github.com/hoikas/fus/errors"
	"github.com/hoikas/fus/protocol"
)

// Record is the gorm model backing the account table.
type Record struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	Hash      []byte    `gorm:"not null"`
	HashAlgo  uint8     `gorm:"not null"`
	Flags     uint32    `gorm:"not null"`
	CreatedAt time.Time
}

func (Record) TableName() string { return "accounts" }

// Store wraps the gorm handle the db daemon owns exclusively; per §5
// it is used only from that daemon's own goroutines (gorm serialises
// concurrent callers through its own pool, so no extra lock is needed
// here beyond that).
type Store struct {
	db *gorm.DB
}

// Open establishes the backing database at dsn and migrates the account
// table. engine selects the gorm dialector; "sqlite" is the only backend
// this implementation wires up (spec §6's "embedded SQL engine").
func Open(engine, dsn string) (*Store, errors.Error) {
	if engine != "" && engine != "sqlite" {
		return nil, STORE_OPEN_FAILED.Error(nil)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, STORE_OPEN_FAILED.Error(err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, MIGRATE_FAILED.Error(err)
	}

	return &Store{db: db}, nil
}

// Create inserts a new account, rejecting a duplicate name. It mirrors
// the wire's acctCreate(name, hash, flags) -> uuid operation (spec
// §4.6, §8 scenario 4).
func (s *Store) Create(name string, hash [20]byte, algo protocol.HashAlgo, flags protocol.AccountFlags) (uuid.UUID, errors.Error) {
	var existing Record
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return uuid.UUID{}, ALREADY_EXISTS.Error(nil)
	} else if err != gorm.ErrRecordNotFound {
		return uuid.UUID{}, STORE_OPEN_FAILED.Error(err)
	}

	rec := Record{
		ID:       uuid.New(),
		Name:     name,
		Hash:     hash[:],
		HashAlgo: uint8(algo),
		Flags:    uint32(flags),
	}

	if err := s.db.Create(&rec).Error; err != nil {
		return uuid.UUID{}, STORE_OPEN_FAILED.Error(err)
	}

	return rec.ID, nil
}

// Authenticate recomputes the session hash from the stored acctHash and
// the two challenges, and compares it against presented — the db
// daemon never sees a raw password, only this derived session hash
// (spec §4.6).
func (s *Store) Authenticate(name string, presented [20]byte, cliChallenge, srvChallenge uint32) (uuid.UUID, protocol.AccountFlags, errors.Error) {
	var rec Record
	if err := s.db.Where("name = ?", name).First(&rec).Error; err != nil {
		return uuid.UUID{}, 0, NOT_FOUND.Error(err)
	}

	var acctHash [20]byte
	copy(acctHash[:], rec.Hash)

	expected := protocol.HashLogin(protocol.HashAlgo(rec.HashAlgo), acctHash, cliChallenge, srvChallenge)
	if expected != presented {
		return uuid.UUID{}, 0, AUTH_FAILED.Error(nil)
	}

	return rec.ID, protocol.AccountFlags(rec.Flags), nil
}
