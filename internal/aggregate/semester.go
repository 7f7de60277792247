package aggregate

import (
	"fmt"
	"sort"
)

// Range of the canonical semester sequence.
const (
	FirstYear = 2021
	LastYear  = 2025
)

var terms = []string{"Spring", "Fall"}

// canonical is built once; callers get copies.
var canonical = buildSemesterOrder()

var canonicalIndex = func() map[string]int {
	idx := make(map[string]int, len(canonical))
	for i, s := range canonical {
		idx[s] = i
	}
	return idx
}()

func buildSemesterOrder() []string {
	order := make([]string, 0, (LastYear-FirstYear+1)*len(terms))
	for year := FirstYear; year <= LastYear; year++ {
		for _, term := range terms {
			order = append(order, fmt.Sprintf("%d%s", year, term))
		}
	}
	return order
}

// SemesterOrder returns the canonical semester sequence, oldest first:
// 2021Spring, 2021Fall, 2022Spring, ... 2025Fall.
func SemesterOrder() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}

// IsCanonical reports whether semester is part of the canonical sequence.
func IsCanonical(semester string) bool {
	_, ok := canonicalIndex[semester]
	return ok
}

// LatestSemester returns the newest canonical semester among observed. If
// none of them is canonical, the lexically greatest key is returned instead.
// ok is false only when observed is empty.
func LatestSemester(observed []string) (latest string, ok bool) {
	best := -1
	for _, s := range observed {
		if i, found := canonicalIndex[s]; found && i > best {
			best = i
		}
	}
	if best >= 0 {
		return canonical[best], true
	}

	for _, s := range observed {
		if !ok || s > latest {
			latest, ok = s, true
		}
	}
	return latest, ok
}

// SortSemesters orders semester keys canonically, with non-canonical keys
// after all canonical ones in lexical order. keys is sorted in place.
func SortSemesters(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, aok := canonicalIndex[keys[i]]
		b, bok := canonicalIndex[keys[j]]
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return keys[i] < keys[j]
		}
	})
}
