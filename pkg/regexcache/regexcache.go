// Package regexcache provides a thread-safe cache for compiled regular
// expressions. Detection runs the same lexical patterns against every page
// snapshot; caching avoids recompiling them per call.
//
// Usage:
//
//	re, err := regexcache.Get(`(?i)verify.{0,10}account`)
//	if err != nil {
//	    // handle error
//	}
//	if re.MatchString(path) { ... }
package regexcache

import (
	"regexp"
	"sync"
)

// cache holds compiled expressions keyed by pattern string. sync.Map gives
// concurrent access without explicit locking.
var cache sync.Map

// Get returns a compiled regexp for the given pattern, compiling and caching
// it on first use. Invalid patterns return an error.
func Get(pattern string) (*regexp.Regexp, error) {
	if cached, ok := cache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	// LoadOrStore handles the compile race; first store wins.
	actual, _ := cache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

// MustGet returns a compiled regexp for the given pattern.
// It panics if the pattern is invalid; use only with literal patterns.
func MustGet(pattern string) *regexp.Regexp {
	re, err := Get(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Warm compiles and caches multiple patterns up front, returning an error
// per pattern that failed to compile. Useful at detector construction so the
// first analyze call pays no compile cost.
func Warm(patterns ...string) []error {
	var errs []error
	for _, pattern := range patterns {
		if _, err := Get(pattern); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Clear removes all cached expressions. Primarily useful for testing.
func Clear() {
	cache.Range(func(key, _ any) bool {
		cache.Delete(key)
		return true
	})
}

// Size returns the number of cached expressions.
func Size() int {
	count := 0
	cache.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
