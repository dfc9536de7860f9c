package cache

import (
	"sort"
	"strings"
	"time"

	"gigmap/internal/calendar"
)

// TileKey derives the canonical cache key for a tile query: the sorted tile
// set plus the date range. Sorting makes the key independent of the order
// cells were produced in, so the same query always lands on the same entry.
func TileKey(cells []string, r calendar.DateRange) string {
	sorted := append([]string(nil), cells...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("tiles:")
	b.WriteString(strings.Join(sorted, ","))
	b.WriteByte(':')
	b.WriteString(r.Start.Format(time.RFC3339))
	b.WriteByte(':')
	b.WriteString(r.End.Format(time.RFC3339))
	return b.String()
}

// IDKey derives the canonical cache key for a batch enrichment: the sorted
// id list. Two requests for the same ids in different orders coalesce onto
// one entry.
func IDKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return "events:" + strings.Join(sorted, ",")
}

// RangeKey derives the cache key for a broad (non-spatial) list query.
func RangeKey(r calendar.DateRange) string {
	return "list:" + r.Start.Format(time.RFC3339) + ":" + r.End.Format(time.RFC3339)
}
