// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"encoding/binary"
	"time"
)

// Extra field header IDs carrying timestamps.
// See https://libzip.org/specifications/extrafld.txt
const (
	extTimeExtraID = 0x5455 // Info-ZIP extended timestamp
	ntfsExtraID    = 0x000a // PKWARE NTFS attributes
)

// ntfsEpochOffset is the number of 100ns intervals between 1601-01-01 and 1970-01-01.
const ntfsEpochOffset = 116444736000000000

// extraTimes holds the timestamps recoverable from an entry's extra field.
type extraTimes struct {
	Modified, Accessed, Created time.Time
}

// parseExtraTimes walks the extra field blocks and extracts any timestamps.
// Malformed blocks are ignored; the first block of each kind wins.
func parseExtraTimes(extra []byte) extraTimes {
	var t extraTimes
	for len(extra) >= 4 {
		id := binary.LittleEndian.Uint16(extra[0:2])
		size := int(binary.LittleEndian.Uint16(extra[2:4]))
		extra = extra[4:]
		if size > len(extra) {
			break
		}
		block := extra[:size]
		extra = extra[size:]
		switch id {
		case extTimeExtraID:
			parseExtTime(block, &t)
		case ntfsExtraID:
			parseNTFSTime(block, &t)
		}
	}
	return t
}

func parseExtTime(block []byte, t *extraTimes) {
	if len(block) < 1 {
		return
	}
	flags := block[0]
	block = block[1:]
	for _, f := range []struct {
		bit byte
		dst *time.Time
	}{{1, &t.Modified}, {2, &t.Accessed}, {4, &t.Created}} {
		if flags&f.bit == 0 {
			continue
		}
		// The central directory copy may omit trailing fields despite the flags.
		if len(block) < 4 {
			return
		}
		if f.dst.IsZero() {
			*f.dst = time.Unix(int64(int32(binary.LittleEndian.Uint32(block[:4]))), 0).UTC()
		}
		block = block[4:]
	}
}

func parseNTFSTime(block []byte, t *extraTimes) {
	if len(block) < 4 {
		return
	}
	block = block[4:] // reserved
	for len(block) >= 4 {
		tag := binary.LittleEndian.Uint16(block[0:2])
		size := int(binary.LittleEndian.Uint16(block[2:4]))
		block = block[4:]
		if size > len(block) {
			return
		}
		if tag == 0x0001 && size == 24 {
			for i, dst := range []*time.Time{&t.Modified, &t.Accessed, &t.Created} {
				ft := binary.LittleEndian.Uint64(block[i*8 : i*8+8])
				if ft != 0 && dst.IsZero() {
					*dst = fileTime(ft)
				}
			}
		}
		block = block[size:]
	}
}

func fileTime(ft uint64) time.Time {
	ns := (int64(ft) - ntfsEpochOffset) * 100
	return time.Unix(0, ns).UTC()
}
