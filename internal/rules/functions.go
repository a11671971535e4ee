package rules

import (
	"sort"
	"strings"
)

// #region function

// Function is one of the closed set of Ithkuil IV function markers.
type Function string

const (
	FunctionStative     Function = "STA" // states, conditions, non-changing situations
	FunctionDynamic     Function = "DYN" // actions, changes, motion
	FunctionManifestive Function = "MNF" // coming-into-being, manifestation
)

// ValidFunction reports whether f is a member of the closed function set.
func ValidFunction(f Function) bool {
	switch f {
	case FunctionStative, FunctionDynamic, FunctionManifestive:
		return true
	}
	return false
}

// AllFunctions returns a fresh universal function set.
func AllFunctions() FunctionSet {
	return NewFunctionSet(FunctionStative, FunctionDynamic, FunctionManifestive)
}

// #endregion function

// #region function-set

// FunctionSet is a set of function markers.
type FunctionSet map[Function]struct{}

// NewFunctionSet builds a set from the given functions.
func NewFunctionSet(fns ...Function) FunctionSet {
	s := make(FunctionSet, len(fns))
	for _, f := range fns {
		s[f] = struct{}{}
	}
	return s
}

// Has reports whether f is in the set.
func (s FunctionSet) Has(f Function) bool {
	_, ok := s[f]
	return ok
}

// Sorted returns the member codes in lexical order.
func (s FunctionSet) Sorted() []string {
	codes := make([]string, 0, len(s))
	for f := range s {
		codes = append(codes, string(f))
	}
	sort.Strings(codes)
	return codes
}

// String renders the set as a comma-joined sorted list, e.g. "DYN, MNF, STA".
func (s FunctionSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}

// Intersect returns the elements present in both sets.
func (s FunctionSet) Intersect(other FunctionSet) FunctionSet {
	out := make(FunctionSet)
	for f := range s {
		if other.Has(f) {
			out[f] = struct{}{}
		}
	}
	return out
}

// Clone returns an independent copy of the set.
func (s FunctionSet) Clone() FunctionSet {
	out := make(FunctionSet, len(s))
	for f := range s {
		out[f] = struct{}{}
	}
	return out
}

// #endregion function-set
