package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

func ContainsString(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

func sortSlice[T constraints.Ordered](s []T) {
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})
}

func SortedKeys[T constraints.Ordered, K any](input map[T]K) []T {
	result := make([]T, 0, len(input))
	for k := range input {
		result = append(result, k)
	}
	sortSlice(result)
	return result
}

// Duplicates returns every value occurring more than once, sorted
func Duplicates[T constraints.Ordered](s []T) []T {
	seen := make(map[T]int, len(s))
	for _, v := range s {
		seen[v]++
	}
	var result []T
	for v, count := range seen {
		if count > 1 {
			result = append(result, v)
		}
	}
	sortSlice(result)
	return result
}
