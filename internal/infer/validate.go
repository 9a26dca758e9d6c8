package infer

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateUnits cleans service-suggested units: blank titles are dropped,
// pages are clamped into the document, order follows start pages. The
// suggestion only counts as structure when at least two units survive.
func ValidateUnits(units []Unit, totalPages int) ([]Unit, error) {
	valid := make([]Unit, 0, len(units))
	for _, u := range units {
		u.Title = strings.TrimSpace(u.Title)
		if u.Title == "" {
			continue
		}
		if u.StartPage < 1 {
			u.StartPage = 1
		}
		if u.StartPage > totalPages {
			continue
		}
		if u.EndPage > totalPages {
			u.EndPage = totalPages
		}
		if u.EndPage < u.StartPage {
			u.EndPage = u.StartPage
		}
		valid = append(valid, u)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].StartPage < valid[j].StartPage
	})

	if len(valid) < 2 {
		return nil, fmt.Errorf("inference produced %d usable units, need at least 2", len(valid))
	}
	return valid, nil
}
