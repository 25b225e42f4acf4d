// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/binary"
	"strconv"
)

// TargetID identifies a registered provider that receives capacity.
type TargetID uint64

// Bytes returns the big endian form, used as storage key.
func (t TargetID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(t))
	return b[:]
}

func (t TargetID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// ParseTargetID parses a decimal target id.
func ParseTargetID(s string) (TargetID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return TargetID(v), nil
}

// BytesToTargetID decodes a big endian target id.
func BytesToTargetID(b []byte) TargetID {
	var buf [8]byte
	if len(b) > 8 {
		b = b[len(b)-8:]
	}
	copy(buf[8-len(b):], b)
	return TargetID(binary.BigEndian.Uint64(buf[:]))
}
