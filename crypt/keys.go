/*
 * MIT License
 *
 * Copyright (c) 2023 Nicolas JUHEL
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

package crypt

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"

	errors "github.com/hoikas/fus/errors"
)

// Role names the daemon side of a key pair. Each role uses a small public
// generator fixed by convention across client and server builds.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleAuth  Role = "auth"
	RoleDB    Role = "db"
	RoleGame  Role = "game"
	RoleGate  Role = "gate"
)

// Generator returns the public DH generator G conventionally used for the
// given role. Unknown roles return 0.
func Generator(r Role) int64 {
	switch r {
	case RoleAdmin:
		return 19
	case RoleAuth:
		return 41
	case RoleDB:
		return 19
	case RoleGame:
		return 73
	case RoleGate:
		return 4
	default:
		return 0
	}
}

// KeyMaterial is the (N, K, X) triple a daemon role persists: N is a safe
// prime modulus, K is the private exponent, X = G^K mod N is the matching
// public value distributed to clients via configuration.
type KeyMaterial struct {
	G int64
	N *big.Int
	K *big.Int
	X *big.Int
}

// GenerateKeyMaterial produces a fresh (N, K, X) triple for the given
// generator and modulus bit width. N is chosen as a safe prime (N = 2q+1
// for prime q) so that the multiplicative group has no small subgroups an
// attacker could exploit; K is a uniformly random value below N.
func GenerateKeyMaterial(g int64, bits int) (*KeyMaterial, errors.Error) {
	if g <= 0 || bits < 32 {
		return nil, EMPTY_PARAMS.Error(nil)
	}

	var n *big.Int
	for {
		q, err := rand.Prime(rand.Reader, bits-1)
		if err != nil {
			return nil, KEYGEN.Error(err)
		}
		n = new(big.Int).Add(new(big.Int).Lsh(q, 1), big.NewInt(1))
		if n.ProbablyPrime(20) {
			break
		}
	}

	k, err := rand.Int(rand.Reader, n)
	if err != nil {
		return nil, KEYGEN.Error(err)
	}

	x := new(big.Int).Exp(big.NewInt(g), k, n)

	return &KeyMaterial{G: g, N: n, K: k, X: x}, nil
}

// EncodeBigInt renders a big.Int as the base-64 string the ini config
// schema persists.
func EncodeBigInt(v *big.Int) string {
	if v == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(v.Bytes())
}

// DecodeBigInt parses a base-64 string produced by EncodeBigInt back into
// a big.Int.
func DecodeBigInt(s string) (*big.Int, errors.Error) {
	if s == "" {
		return nil, EMPTY_PARAMS.Error(nil)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, B64_DECODE.Error(err)
	}

	return new(big.Int).SetBytes(raw), nil
}
