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

package client

import (
	"sync"
	"time"

	"github.com/hoikas/fus/protocol"

	errors "github.com/hoikas/fus/errors"
)

// DefaultBackoff is the reconnect delay the source hard-codes: 30
// seconds between a dropped connection and the next connect attempt.
const DefaultBackoff = 30 * time.Second

// Dialer performs one full connect sequence: TCP dial, ConnHeader plus
// connect-data, and the crypt handshake. It returns once the connection
// is in ciphered mode and ready for application traffic, or an error.
type Dialer func() errors.Error

// Reconnector arms a one-shot backoff timer after a connection drop and
// repeats Dial until it succeeds, rearming on every failure. It never
// replays outstanding requests — KillTrans has already told callers
// "disconnected" by the time a Reconnector is armed; a fresh request
// after reconnection is a fresh transaction.
type Reconnector struct {
	mu      sync.Mutex
	dial    Dialer
	backoff time.Duration
	timer   *time.Timer
	onLink  func()
	stopped bool
}

// NewReconnector builds a Reconnector around dial. onLink, if non-nil,
// is invoked after a successful reconnect so the owner can resume
// issuing transactions against the new connection.
func NewReconnector(dial Dialer, backoff time.Duration, onLink func()) *Reconnector {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Reconnector{dial: dial, backoff: backoff, onLink: onLink}
}

// Arm starts (or restarts) the backoff timer. Calling Arm while already
// armed replaces the pending timer.
func (rc *Reconnector) Arm() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.stopped {
		return
	}
	if rc.timer != nil {
		rc.timer.Stop()
	}
	rc.timer = time.AfterFunc(rc.backoff, rc.fire)
}

// Stop disarms any pending timer. A Reconnector is not reusable after
// Stop; construct a new one if reconnection is wanted again.
func (rc *Reconnector) Stop() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.stopped = true
	if rc.timer != nil {
		rc.timer.Stop()
	}
}

func (rc *Reconnector) fire() {
	if err := rc.dial(); err != nil {
		rc.Arm()
		return
	}

	rc.mu.Lock()
	stopped := rc.stopped
	rc.mu.Unlock()
	if stopped {
		return
	}

	if rc.onLink != nil {
		rc.onLink()
	}
}

// disconnectedStatus is the net_error value a Router reports to every
// in-flight continuation when its owning connection drops.
const disconnectedStatus = protocol.ErrDisconnected
