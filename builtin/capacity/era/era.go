// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package era

import (
	"encoding/binary"
	"sort"
)

// Info describes the running reward era.
type Info struct {
	EraIndex  uint32
	StartedAt uint32
}

// Entry is the aggregate boosted stake recorded for one closed era.
type Entry struct {
	Era    uint32
	Amount uint64
}

// Chunk holds up to ChunkLength entries ordered by era.
type Chunk struct {
	Entries []Entry
}

func (c *Chunk) find(era uint32) (int, bool) {
	i := sort.Search(len(c.Entries), func(i int) bool { return c.Entries[i].Era >= era })
	return i, i < len(c.Entries) && c.Entries[i].Era == era
}

// Get returns the total recorded for the era.
func (c *Chunk) Get(era uint32) (uint64, bool) {
	if c == nil {
		return 0, false
	}
	if i, ok := c.find(era); ok {
		return c.Entries[i].Amount, true
	}
	return 0, false
}

// Earliest returns the oldest entry in the chunk.
func (c *Chunk) Earliest() (Entry, bool) {
	if c == nil || len(c.Entries) == 0 {
		return Entry{}, false
	}
	return c.Entries[0], true
}

// IsFull reports whether the chunk has reached length entries.
func (c *Chunk) IsFull(length uint32) bool {
	return c != nil && len(c.Entries) >= int(length)
}

// set stores the total for era, resetting a full chunk when the era is new to it.
func (c *Chunk) set(era uint32, amount uint64, length uint32) {
	i, ok := c.find(era)
	if ok {
		c.Entries[i].Amount = amount
		return
	}
	if c.IsFull(length) {
		c.Entries = c.Entries[:0]
		i = 0
	}
	c.Entries = append(c.Entries, Entry{})
	copy(c.Entries[i+1:], c.Entries[i:])
	c.Entries[i] = Entry{Era: era, Amount: amount}
}

type chunkKey uint32

func (k chunkKey) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(k))
}
