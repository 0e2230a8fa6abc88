package middleware

import "strings"

// PathMatcher decide se uma política se aplica ao caminho da requisição.
type PathMatcher func(path string) bool

func ExactPaths(paths ...string) PathMatcher {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[path]
		return ok
	}
}

func PathPrefix(prefix string) PathMatcher {
	return func(path string) bool {
		return strings.HasPrefix(path, prefix)
	}
}

func AnyOf(matchers ...PathMatcher) PathMatcher {
	return func(path string) bool {
		for _, m := range matchers {
			if m != nil && m(path) {
				return true
			}
		}
		return false
	}
}
