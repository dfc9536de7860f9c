// Package geo implements geohash tiling and radius filtering for map-based
// event discovery.
//
// A geohash encodes a latitude/longitude pair into a short string where
// nearby locations share a common prefix. Precision determines the cell
// size:
//
//	1 → ~5000 km    4 → ~39 km     7 → ~153 m    10 → ~1.2 m
//	2 → ~1250 km    5 → ~5 km      8 → ~19 m     11 → ~15 cm
//	3 → ~156 km     6 → ~1.2 km    9 → ~2.4 m    12 → ~1.9 cm
//
// Discovery uses precision 7 (~150 m, city-block-scale cells): a viewport is
// covered by the center cell plus its 8 neighbors, and each cell is queried
// independently against the external index.
package geo

import (
	"strings"
)

// base32 is the geohash character set (32 characters). 'a', 'i', 'l', and
// 'o' are excluded to avoid confusion with digits 0/1.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Lookup tables for neighbor calculation. The geohash algorithm alternates
// between longitude and latitude bits, so the adjacent character depends on
// whether the hash length is even or odd ('e'/'o' keys).
var (
	base32Map = map[byte]int{}
	neighbors = map[string]map[byte]string{
		"n": {'e': "p0r21436x8zb9dcf5h7kjnmqesgutwvy", 'o': "bc01fg45238967deuvhjyznpkmstqrwx"},
		"s": {'e': "14365h7k9dcfesgujnmqp0r2twvyx8zb", 'o': "238967debc01fg45kmstqrwxuvhjyznp"},
		"e": {'e': "bc01fg45238967deuvhjyznpkmstqrwx", 'o': "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		"w": {'e': "238967debc01fg45kmstqrwxuvhjyznp", 'o': "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	borders = map[string]map[byte]string{
		"n": {'e': "prxz", 'o': "bcfguvyz"},
		"s": {'e': "028b", 'o': "0145hjnp"},
		"e": {'e': "bcfguvyz", 'o': "prxz"},
		"w": {'e': "0145hjnp", 'o': "028b"},
	}
)

func init() {
	for i := 0; i < len(base32); i++ {
		base32Map[base32[i]] = i
	}
}

// Encode converts latitude and longitude to a geohash string with the given
// precision. Deterministic: the same input always yields the same token.
//
// The algorithm interleaves longitude (even bits) and latitude (odd bits),
// bisecting the range at each step and emitting one base32 character per
// 5 bits.
func Encode(lat, lng float64, precision int) string {
	if precision <= 0 {
		precision = 7
	}
	if precision > 12 {
		precision = 12
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	var hash strings.Builder
	isEven := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isEven {
			mid := (minLng + maxLng) / 2
			if lng >= mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isEven = !isEven
		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String()
}

// Decode converts a geohash string back to the center latitude and longitude
// of the encoded cell, replaying the binary subdivision.
func Decode(hash string) (lat, lng float64) {
	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0
	isEven := true

	for i := 0; i < len(hash); i++ {
		cd, ok := base32Map[hash[i]]
		if !ok {
			continue
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isEven {
				mid := (minLng + maxLng) / 2
				if bit == 1 {
					minLng = mid
				} else {
					maxLng = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if bit == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isEven = !isEven
		}
	}

	lat = (minLat + maxLat) / 2
	lng = (minLng + maxLng) / 2
	return
}

// Neighbor returns the geohash of the adjacent cell in the given direction
// ("n", "s", "e", "w"). It looks up the last character's neighbor in the
// pre-computed tables, recursing into the parent hash when the character
// sits on the border of its parent cell.
func Neighbor(hash string, direction string) string {
	if len(hash) == 0 {
		return ""
	}

	hash = strings.ToLower(hash)
	lastChar := hash[len(hash)-1]
	parent := hash[:len(hash)-1]

	var t byte = 'e'
	if len(hash)%2 == 1 {
		t = 'o'
	}

	if strings.IndexByte(borders[direction][t], lastChar) >= 0 && len(parent) > 0 {
		parent = Neighbor(parent, direction)
	}

	idx := strings.IndexByte(neighbors[direction][t], lastChar)
	if idx >= 0 {
		return parent + string(base32[idx])
	}

	return hash
}

// Cover returns the 9-cell tiling for a viewport center: the cell containing
// the point plus its 8 geometric neighbors, in a fixed order (center, N, S,
// E, W, NE, NW, SE, SW). All 9 tokens are pairwise distinct.
//
// The tiling is computed from the viewport center, not from event positions:
// an event whose own cell lies outside this 3x3 window is not found even if
// it is geometrically close to the center.
func Cover(lat, lng float64, precision int) []string {
	center := Encode(lat, lng, precision)
	north := Neighbor(center, "n")
	south := Neighbor(center, "s")

	return []string{
		center,
		north,
		south,
		Neighbor(center, "e"),
		Neighbor(center, "w"),
		Neighbor(north, "e"),
		Neighbor(north, "w"),
		Neighbor(south, "e"),
		Neighbor(south, "w"),
	}
}
