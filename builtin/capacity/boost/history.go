// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boost

import (
	"sort"

	"github.com/vechain/capacity/builtin/capacity/fixedpoint"
	"github.com/vechain/capacity/builtin/capacity/reverts"
)

// Entry is a booster's total boosted stake as of an era.
type Entry struct {
	Era    uint32
	Amount uint64
}

// History records the eras in which a booster's stake changed, oldest first.
// An era without an entry inherits the amount of the latest earlier entry.
type History struct {
	Entries []Entry
}

func (h *History) find(era uint32) (int, bool) {
	i := sort.Search(len(h.Entries), func(i int) bool { return h.Entries[i].Era >= era })
	return i, i < len(h.Entries) && h.Entries[i].Era == era
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Entries)
}

// AmountFor returns the boosted amount in effect at era.
func (h *History) AmountFor(era uint32) (uint64, bool) {
	if h == nil {
		return 0, false
	}
	i, ok := h.find(era)
	if ok {
		return h.Entries[i].Amount, true
	}
	if i == 0 {
		return 0, false
	}
	return h.Entries[i-1].Amount, true
}

// Entry returns the entry recorded exactly at era.
func (h *History) Entry(era uint32) (Entry, bool) {
	if h == nil {
		return Entry{}, false
	}
	if i, ok := h.find(era); ok {
		return h.Entries[i], true
	}
	return Entry{}, false
}

// IsZero reports whether every entry records a zero amount.
func (h *History) IsZero() bool {
	if h == nil {
		return true
	}
	for _, e := range h.Entries {
		if e.Amount != 0 {
			return false
		}
	}
	return true
}

// Add increases the amount at era, inheriting the previous amount for a new entry.
// The oldest entry is dropped once limit entries are held.
func (h *History) Add(era uint32, amount uint64, limit uint32) error {
	i, ok := h.find(era)
	if ok {
		v, err := fixedpoint.CheckedAdd(h.Entries[i].Amount, amount)
		if err != nil {
			return err
		}
		h.Entries[i].Amount = v
		return nil
	}
	base, _ := h.AmountFor(era)
	v, err := fixedpoint.CheckedAdd(base, amount)
	if err != nil {
		return err
	}
	h.insert(i, Entry{Era: era, Amount: v}, limit)
	return nil
}

// Subtract decreases the amount at era, inheriting the previous amount for a new entry.
func (h *History) Subtract(era uint32, amount uint64, limit uint32) error {
	if len(h.Entries) == 0 {
		return reverts.ErrNotAProviderBoostAccount
	}
	i, ok := h.find(era)
	if ok {
		v, err := fixedpoint.CheckedSub(h.Entries[i].Amount, amount)
		if err != nil {
			return err
		}
		h.Entries[i].Amount = v
		return nil
	}
	base, _ := h.AmountFor(era)
	v, err := fixedpoint.CheckedSub(base, amount)
	if err != nil {
		return err
	}
	h.insert(i, Entry{Era: era, Amount: v}, limit)
	return nil
}

func (h *History) insert(i int, e Entry, limit uint32) {
	h.Entries = append(h.Entries, Entry{})
	copy(h.Entries[i+1:], h.Entries[i:])
	h.Entries[i] = e
	if over := len(h.Entries) - int(limit); over > 0 {
		h.Entries = append(h.Entries[:0], h.Entries[over:]...)
	}
}

// HasUnclaimed reports whether a closed era may still hold unclaimed rewards.
// Stake is eligible from the era after it was recorded, so the earliest entry
// must be at least two eras old.
func (h *History) HasUnclaimed(current uint32) bool {
	if h.Len() == 0 {
		return false
	}
	return uint64(h.Entries[0].Era)+1 < uint64(current)
}

// Collapse keeps only the amount in effect for the era before current and the entry at current.
func (h *History) Collapse(current uint32) {
	var entries []Entry
	if current > 0 {
		if amount, ok := h.AmountFor(current - 1); ok {
			entries = append(entries, Entry{Era: current - 1, Amount: amount})
		}
	}
	if e, ok := h.Entry(current); ok {
		entries = append(entries, e)
	}
	h.Entries = entries
}

// RetargetRecord counts the retargets a staker made in one era.
type RetargetRecord struct {
	Era   uint32
	Count uint32
}

// Update registers one retarget in current, failing once limit retargets were made in that era.
func (r *RetargetRecord) Update(current, limit uint32) error {
	if r.Era != current {
		r.Era = current
		r.Count = 1
		return nil
	}
	if r.Count >= limit {
		return reverts.ErrMaxRetargetsExceeded
	}
	r.Count++
	return nil
}
