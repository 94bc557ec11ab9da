/*
 * Copyright (C) 2022 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package prefix

import "encoding/binary"

// Width is the number of address bits handled by the resolver.
const Width = 128

// Uint128 holds an address as two big-endian halves.
// Bit positions are counted from the most significant bit: position 0 is the
// top bit of Hi, position 127 the bottom bit of Lo.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

func u128From16(a [16]byte) Uint128 {
	return Uint128{
		Hi: binary.BigEndian.Uint64(a[:8]),
		Lo: binary.BigEndian.Uint64(a[8:]),
	}
}

func (u Uint128) as16() [16]byte {
	var a [16]byte
	binary.BigEndian.PutUint64(a[:8], u.Hi)
	binary.BigEndian.PutUint64(a[8:], u.Lo)
	return a
}

// Bit returns the bit at position i as 0 or 1.
func (u Uint128) Bit(i int) uint8 {
	if i < 64 {
		return uint8((u.Hi >> (63 - i)) & 1)
	}
	return uint8((u.Lo >> (127 - i)) & 1)
}

// SetBit returns a copy of u with the bit at position i set.
func (u Uint128) SetBit(i int) Uint128 {
	if i < 64 {
		u.Hi |= 1 << (63 - i)
	} else {
		u.Lo |= 1 << (127 - i)
	}
	return u
}

// Masked returns a copy of u keeping only the first n bits.
func (u Uint128) Masked(n int) Uint128 {
	switch {
	case n <= 0:
		return Uint128{}
	case n < 64:
		return Uint128{Hi: u.Hi &^ (^uint64(0) >> n)}
	case n == 64:
		return Uint128{Hi: u.Hi}
	case n < Width:
		return Uint128{Hi: u.Hi, Lo: u.Lo &^ (^uint64(0) >> (n - 64))}
	}
	return u
}
