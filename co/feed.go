// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Feed broadcasts the latest value of T to any number of waiters.
// Slow waiters skip intermediate values and only observe the newest one.
type Feed[T any] struct {
	l       sync.Mutex
	ch      chan struct{}
	value   T
	version uint64
}

func (f *Feed[T]) init() {
	if f.ch == nil {
		f.ch = make(chan struct{})
	}
}

// Send stores v and wakes all waiters.
func (f *Feed[T]) Send(v T) {
	f.l.Lock()
	defer f.l.Unlock()

	f.init()
	f.value = v
	f.version++
	close(f.ch)
	f.ch = make(chan struct{})
}

// Latest returns the last sent value and its version, 0 when nothing was sent.
func (f *Feed[T]) Latest() (T, uint64) {
	f.l.Lock()
	defer f.l.Unlock()
	return f.value, f.version
}

// Subscribe creates a subscription positioned after the latest value.
func (f *Feed[T]) Subscribe() *Subscription[T] {
	f.l.Lock()
	defer f.l.Unlock()

	f.init()
	return &Subscription[T]{feed: f, version: f.version}
}

// Subscription reads values from a Feed.
type Subscription[T any] struct {
	feed    *Feed[T]
	version uint64
}

// C returns a channel closed once a value newer than the last read one is available.
func (s *Subscription[T]) C() <-chan struct{} {
	s.feed.l.Lock()
	defer s.feed.l.Unlock()

	if s.feed.version != s.version {
		done := make(chan struct{})
		close(done)
		return done
	}
	return s.feed.ch
}

// Next returns the newest value and marks it read.
// ok is false if nothing new was sent since the last read.
func (s *Subscription[T]) Next() (v T, ok bool) {
	s.feed.l.Lock()
	defer s.feed.l.Unlock()

	if s.feed.version == s.version {
		return v, false
	}
	s.version = s.feed.version
	return s.feed.value, true
}
