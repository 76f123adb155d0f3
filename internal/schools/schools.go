// Package schools shapes school lists for display: searching, filtering,
// sorting and paginating happen client-side over the full public list, the
// same way the web frontend slices it, so results are consistent across
// surfaces.
package schools

import (
	"sort"
	"strings"

	"insider/internal/api"
)

// Sport codes accepted by the filter. They mirror the boolean columns on the
// school record.
const (
	SportMBB = "mbb"
	SportWBB = "wbb"
	SportFB  = "fb"
)

// DefaultPageSize matches the web frontend's 10-per-page school list.
const DefaultPageSize = 10

// Query describes how to shape a school list. The zero value selects
// everything, sorted by name, first page.
type Query struct {
	Name       string // case-insensitive substring match on school_name
	Sport      string // "mbb", "wbb", "fb" or empty for all
	Conference string // exact match, case-insensitive
	SortBy     string // "name" (default) or "reviews"
	Page       int    // 1-based; out-of-range values are clamped
	PageSize   int    // defaults to DefaultPageSize
}

// Page is one page of results plus enough metadata to render a pager.
type Page struct {
	Schools    []api.School
	Number     int // 1-based, clamped into range
	TotalPages int
	Total      int // matching schools across all pages
}

// Select applies the query to the full list and returns the requested page.
func Select(all []api.School, q Query) Page {
	matched := Filter(all, q)
	Sort(matched, q.SortBy)
	return paginate(matched, q.Page, q.PageSize)
}

// Filter returns the schools matching the query's name, sport and conference
// criteria. The input slice is not modified.
func Filter(all []api.School, q Query) []api.School {
	name := strings.ToLower(strings.TrimSpace(q.Name))
	conference := strings.TrimSpace(q.Conference)

	out := make([]api.School, 0, len(all))
	for _, s := range all {
		if name != "" && !strings.Contains(strings.ToLower(s.SchoolName), name) {
			continue
		}
		if conference != "" && !strings.EqualFold(s.Conference, conference) {
			continue
		}
		if !offersSport(s, q.Sport) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func offersSport(s api.School, sport string) bool {
	switch strings.ToLower(strings.TrimSpace(sport)) {
	case "":
		return true
	case SportMBB:
		return s.MBB
	case SportWBB:
		return s.WBB
	case SportFB:
		return s.FB
	default:
		// Unknown sport codes match nothing rather than everything.
		return false
	}
}

// Sort orders schools in place. "reviews" sorts by review count descending
// with name as tie-breaker; anything else sorts by name ascending.
func Sort(list []api.School, by string) {
	switch by {
	case "reviews":
		sort.SliceStable(list, func(i, j int) bool {
			if len(list[i].Reviews) != len(list[j].Reviews) {
				return len(list[i].Reviews) > len(list[j].Reviews)
			}
			return lessName(list[i], list[j])
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return lessName(list[i], list[j])
		})
	}
}

func lessName(a, b api.School) bool {
	return strings.ToLower(a.SchoolName) < strings.ToLower(b.SchoolName)
}

// paginate slices one page out of the matched list. Page numbers are clamped
// into [1, totalPages] so a stale pager can never produce an empty page while
// results exist.
func paginate(matched []api.School, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(matched)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		return Page{Schools: []api.School{}, Number: 1, TotalPages: 0, Total: 0}
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	return Page{
		Schools:    matched[start:end],
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}
}

// SportsOf lists the sport codes a school offers, in display order.
func SportsOf(s api.School) []string {
	var out []string
	if s.MBB {
		out = append(out, SportMBB)
	}
	if s.WBB {
		out = append(out, SportWBB)
	}
	if s.FB {
		out = append(out, SportFB)
	}
	return out
}

// Conferences returns the distinct conference names in the list, sorted.
func Conferences(all []api.School) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range all {
		if s.Conference == "" {
			continue
		}
		if _, ok := seen[s.Conference]; ok {
			continue
		}
		seen[s.Conference] = struct{}{}
		out = append(out, s.Conference)
	}
	sort.Strings(out)
	return out
}
