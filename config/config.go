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

// Package config loads the daemon cluster's ini-style configuration file
// into a typed, validated struct: acceptor binding, logging, client
// build verification policy, outbound peer addresses, per-role crypt
// key material, and the storage engine selector.
package config

import (
	"math/big"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/hoikas/fus/crypt"
	"github.com/hoikas/fus/logger/level"

	errors "github.com/hoikas/fus/errors"
)

// VerifyPolicy selects how strictly the lobby dispatcher checks a
// client's buildId/branchId/productId against this daemon's own.
type VerifyPolicy string

const (
	VerifyNone    VerifyPolicy = "none"
	VerifyDefault VerifyPolicy = "default"
	VerifyStrict  VerifyPolicy = "strict"
)

// LobbyConfig is the [lobby] section: the single TCP acceptor's binding.
type LobbyConfig struct {
	BindAddr string
	ExtAddr  string
	Port     uint16
}

// LogConfig is the [log] section.
type LogConfig struct {
	Directory string
	Level     level.Level
}

// ClientConfig is the [client] section: the build identity this daemon
// expects of connecting clients, and the policy used to check it.
type ClientConfig struct {
	BuildId      uint32
	BranchId     uint32
	BuildType    uint32
	Product      string
	Verification VerifyPolicy
}

// PeerConfig is one of the [admin]/[db] sections: an outbound address
// this daemon dials as a client of another daemon role.
type PeerConfig struct {
	Addr string
	Port uint16
}

// CryptConfig holds the per-role DH key material read from the [crypt]
// section's <role>_k/_n/_x/_g keys.
type CryptConfig struct {
	G int64
	N *big.Int
	K *big.Int
	X *big.Int
}

// DBConfig is the [db] section: the db daemon's own storage backend
// selector, doubled as the admin and auth daemons' dial target for the
// internal db client connection (spec §4.4) — one section serves both
// purposes because every role shares the same configuration file.
type DBConfig struct {
	Engine string
	DSN    string
	Addr   string
	Port   uint16
}

// Config is the fully parsed configuration surface: every section the
// core consumes, per spec §6.
type Config struct {
	Lobby  LobbyConfig
	Log    LogConfig
	Client ClientConfig
	Admin  PeerConfig
	DB     DBConfig
	Crypt  map[crypt.Role]CryptConfig
}

// Load parses the ini file at path into a Config. Every non-crypt key
// that is absent falls back to a built-in default; no key is reported
// as missing, and the only values rejected are crypt key material that
// fails to decode. Missing crypt sections are left
// absent in Crypt rather than erroring — a daemon that never acts in
// that role (e.g. the db daemon never needs a [crypt] game_* triple)
// need not configure it.
func Load(path string) (*Config, errors.Error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, LOAD_FAILED.Error(err)
	}

	cfg := &Config{Crypt: make(map[crypt.Role]CryptConfig)}

	lobby := f.Section("lobby")
	cfg.Lobby.BindAddr = lobby.Key("bindaddr").MustString("0.0.0.0")
	cfg.Lobby.ExtAddr = lobby.Key("extaddr").MustString(cfg.Lobby.BindAddr)
	cfg.Lobby.Port = uint16(lobby.Key("port").MustUint(14617))

	logSec := f.Section("log")
	cfg.Log.Directory = logSec.Key("directory").MustString("./log")
	cfg.Log.Level = level.Parse(logSec.Key("level").MustString("info"))

	cli := f.Section("client")
	cfg.Client.BuildId = uint32(cli.Key("buildId").MustUint(0))
	cfg.Client.BranchId = uint32(cli.Key("branchId").MustUint(0))
	cfg.Client.BuildType = uint32(cli.Key("buildType").MustUint(0))
	cfg.Client.Product = cli.Key("product").String()
	cfg.Client.Verification = VerifyPolicy(cli.Key("verification").MustString(string(VerifyDefault)))

	cfg.Admin.Addr = f.Section("admin").Key("addr").String()
	cfg.Admin.Port = uint16(f.Section("admin").Key("port").MustUint(0))

	cfg.DB.Engine = f.Section("db").Key("engine").MustString("sqlite")
	cfg.DB.DSN = f.Section("db").Key("dsn").MustString("fus.db")
	cfg.DB.Addr = f.Section("db").Key("addr").MustString("127.0.0.1")
	cfg.DB.Port = uint16(f.Section("db").Key("port").MustUint(14618))

	cryptSec := f.Section("crypt")
	for _, r := range []crypt.Role{crypt.RoleAdmin, crypt.RoleAuth, crypt.RoleDB, crypt.RoleGame, crypt.RoleGate} {
		nKey := cryptSec.Key(string(r) + "_n")
		kKey := cryptSec.Key(string(r) + "_k")
		xKey := cryptSec.Key(string(r) + "_x")
		if nKey.String() == "" || kKey.String() == "" {
			continue
		}

		n, derr := crypt.DecodeBigInt(nKey.String())
		if derr != nil {
			return nil, BAD_KEY_MATERIAL.Error(derr)
		}
		k, derr := crypt.DecodeBigInt(kKey.String())
		if derr != nil {
			return nil, BAD_KEY_MATERIAL.Error(derr)
		}

		var x *big.Int
		if xKey.String() != "" {
			x, derr = crypt.DecodeBigInt(xKey.String())
			if derr != nil {
				return nil, BAD_KEY_MATERIAL.Error(derr)
			}
		}

		g := cryptSec.Key(string(r) + "_g").MustInt64(crypt.Generator(r))

		cfg.Crypt[r] = CryptConfig{G: g, N: n, K: k, X: x}
	}

	return cfg, nil
}

// Save persists a freshly generated key pair for role r into the ini
// file at path, creating the file if it does not exist. It backs the
// CLI's "genkeys <role>" subcommand; there is no --generate-keys flag.
func Save(path string, r crypt.Role, km *crypt.KeyMaterial) errors.Error {
	f, err := ini.LooseLoad(path)
	if err != nil {
		return LOAD_FAILED.Error(err)
	}

	sec := f.Section("crypt")
	sec.Key(string(r) + "_g").SetValue(strconv.FormatInt(km.G, 10))
	sec.Key(string(r) + "_n").SetValue(crypt.EncodeBigInt(km.N))
	sec.Key(string(r) + "_k").SetValue(crypt.EncodeBigInt(km.K))
	sec.Key(string(r) + "_x").SetValue(crypt.EncodeBigInt(km.X))

	if err := f.SaveTo(path); err != nil {
		return LOAD_FAILED.Error(err)
	}
	return nil
}
