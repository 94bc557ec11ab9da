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

// Package prefix holds the fixed-width address prefix used across the resolver,
// together with the (prefix, label) record read from and written to text lines.
//
// IPv4 prefixes are carried in the IPv4-mapped IPv6 range (::ffff:0:0/96), so
// 10.0.0.0/8 is stored as a /104. They are rendered back in dotted form.
package prefix

import (
	"fmt"
	"net/netip"
	"strings"
)

const v4MappedBits = 96

// Prefix is a network prefix over Width bits. Bits after Len are always zero.
type Prefix struct {
	Bits Uint128
	Len  int
}

// New builds a Prefix from bits and length, clearing any bit after length.
func New(bits Uint128, length int) Prefix {
	return Prefix{Bits: bits.Masked(length), Len: length}
}

// Parse reads a CIDR literal such as "8000::/1" or "10.0.0.0/8".
// Prefixes with host bits set are rejected.
func Parse(s string) (Prefix, error) {
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return Prefix{}, err
	}
	if p != p.Masked() {
		return Prefix{}, fmt.Errorf("%s has host bits set", s)
	}
	return FromNetIP(p), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Prefix {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromNetIP converts a netip.Prefix, mapping IPv4 into the IPv4-mapped range.
func FromNetIP(p netip.Prefix) Prefix {
	length := p.Bits()
	if p.Addr().Is4() {
		length += v4MappedBits
	}
	return New(u128From16(p.Addr().As16()), length)
}

// NetIP returns the 16-byte form of p. IPv4-mapped prefixes are not unmapped,
// so every prefix lives in the same address family.
func (p Prefix) NetIP() netip.Prefix {
	return netip.PrefixFrom(netip.AddrFrom16(p.Bits.as16()), p.Len)
}

// Contains reports whether o lies entirely within p.
func (p Prefix) Contains(o Prefix) bool {
	return o.Len >= p.Len && o.Bits.Masked(p.Len) == p.Bits
}

func (p Prefix) String() string {
	addr := netip.AddrFrom16(p.Bits.as16())
	if p.Len >= v4MappedBits && addr.Is4In6() {
		return netip.PrefixFrom(addr.Unmap(), p.Len-v4MappedBits).String()
	}
	return netip.PrefixFrom(addr, p.Len).String()
}

// Record associates a prefix with an opaque label.
type Record struct {
	Prefix Prefix
	Label  string
}

func (r Record) String() string {
	return r.Prefix.String() + " " + r.Label
}

// ParseLine reads a "<cidr> <label>" line. Any amount of surrounding
// whitespace is accepted, but exactly two tokens must be present.
func ParseLine(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("expected \"<prefix> <label>\", found %d fields", len(fields))
	}
	p, err := Parse(fields[0])
	if err != nil {
		return Record{}, err
	}
	return Record{Prefix: p, Label: fields[1]}, nil
}

// ParseError reports a malformed input line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: can't parse %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
