package hierarchy

import "fmt"

// Fallback partitions a document into fixed-size page spans when no real
// structure can be found. Every document with pages yields at least one
// unit, so downstream stages never see an empty tree.
func Fallback(totalPages, pagesPerUnit int) []Unit {
	if pagesPerUnit <= 0 {
		pagesPerUnit = DefaultFallbackPageSize
	}
	if totalPages < 1 {
		return nil
	}

	var units []Unit
	for start := 1; start <= totalPages; start += pagesPerUnit {
		end := start + pagesPerUnit - 1
		if end > totalPages {
			end = totalPages
		}
		n := len(units) + 1
		units = append(units, Unit{
			ID:         n,
			Title:      fmt.Sprintf("Section %d (Pages %d-%d)", n, start, end),
			Level:      1,
			OrderIndex: n - 1,
			PageStart:  start,
			PageEnd:    end,
		})
	}
	return units
}
