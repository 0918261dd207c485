// Package bloom provides URL sets screened by Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact set of URLs with a Bloom filter in front of it.
//
// A negative filter answer is definite, so most new URLs never touch the
// map. The map makes membership exact, so a URL is never reported present
// because of a false positive.
//
// Set is not safe for concurrent use.
type Set struct {
	filter *bloom.BloomFilter
	urls   map[string]struct{}
}

// NewSet creates an empty set sized for n expected URLs with the given
// Bloom filter false positive rate. Holding more than n URLs stays correct;
// the filter just screens fewer lookups.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: bloom.NewWithEstimates(n, fpRate),
		urls:   make(map[string]struct{}),
	}
}

// Add inserts url and reports whether it was newly added.
func (s *Set) Add(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.AddString(url)
	s.urls[url] = struct{}{}
	return true
}

// Contains reports whether url has been added.
func (s *Set) Contains(url string) bool {
	if !s.filter.TestString(url) {
		return false
	}
	_, ok := s.urls[url]
	return ok
}
