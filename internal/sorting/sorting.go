// Package sorting implements the compared sorting algorithms.
//
// Every algorithm has exactly one implementation, parameterized by an
// optional *Counters sink. A nil sink is the uncounted path, so counted and
// uncounted runs share their control flow.
package sorting

import (
	"fmt"
	"slices"
	"strings"
)

// Algorithm identifies one sorting strategy.
type Algorithm int

// Core algorithms first, then the variants.
const (
	Bubble Algorithm = iota
	Selection
	Insertion
	Merge
	BinaryInsertion
	MergeBottomUp
)

type algorithmInfo struct {
	key       string
	name      string
	quadratic bool
	stable    bool
}

var algorithmTable = [...]algorithmInfo{
	Bubble:          {key: "bubble", name: "Bubble Sort", quadratic: true, stable: true},
	Selection:       {key: "selection", name: "Selection Sort", quadratic: true, stable: false},
	Insertion:       {key: "insertion", name: "Insertion Sort", quadratic: true, stable: true},
	Merge:           {key: "merge", name: "Merge Sort", quadratic: false, stable: true},
	BinaryInsertion: {key: "insertion-binary", name: "Binary Insertion Sort", quadratic: true, stable: true},
	MergeBottomUp:   {key: "merge-bottomup", name: "Merge Sort (bottom-up)", quadratic: false, stable: true},
}

// Func is the uniform sort contract: it returns a new sorted slice and never
// mutates its argument.
type Func func([]int) []int

// Algorithms returns the four core algorithms in declaration order.
func Algorithms() []Algorithm {
	return []Algorithm{Bubble, Selection, Insertion, Merge}
}

// Variants returns the alternative implementations kept for comparison.
func Variants() []Algorithm {
	return []Algorithm{BinaryInsertion, MergeBottomUp}
}

// All returns core algorithms followed by variants.
func All() []Algorithm {
	return append(Algorithms(), Variants()...)
}

// Valid reports whether a is a declared algorithm.
func (a Algorithm) Valid() bool {
	return a >= 0 && int(a) < len(algorithmTable)
}

// String returns the display name, e.g. "Merge Sort".
func (a Algorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
	return algorithmTable[a].name
}

// Key returns the short identifier used in flags and config files.
func (a Algorithm) Key() string {
	if !a.Valid() {
		return ""
	}
	return algorithmTable[a].key
}

// Quadratic reports whether the algorithm's average case is O(n^2).
func (a Algorithm) Quadratic() bool {
	return a.Valid() && algorithmTable[a].quadratic
}

// Stable reports whether equal elements keep their input order.
func (a Algorithm) Stable() bool {
	return a.Valid() && algorithmTable[a].stable
}

// Func returns the algorithm as a plain sort function.
func (a Algorithm) Func() Func {
	return func(input []int) []int {
		return Sort(a, input)
	}
}

// ParseAlgorithm resolves a key ("merge") or display name ("Merge Sort").
func ParseAlgorithm(s string) (Algorithm, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for i, info := range algorithmTable {
		if needle == info.key || needle == strings.ToLower(info.name) {
			return Algorithm(i), nil
		}
	}
	keys := make([]string, 0, len(algorithmTable))
	for _, info := range algorithmTable {
		keys = append(keys, info.key)
	}
	return 0, fmt.Errorf("unknown algorithm %q (available: %s)", s, strings.Join(keys, ", "))
}

// AlgorithmOrder returns the declaration index for a display name, or the
// number of algorithms for unknown names.
func AlgorithmOrder(name string) int {
	for i, info := range algorithmTable {
		if info.name == name {
			return i
		}
	}
	return len(algorithmTable)
}

// Counters records the work an algorithm performed.
type Counters struct {
	Comparisons int64
	Swaps       int64
	Shifts      int64
	Writes      int64
}

func (c *Counters) compare() {
	if c != nil {
		c.Comparisons++
	}
}

func (c *Counters) swap() {
	if c != nil {
		c.Swaps++
	}
}

func (c *Counters) shift(n int) {
	if c != nil {
		c.Shifts += int64(n)
	}
}

func (c *Counters) write(n int) {
	if c != nil {
		c.Writes += int64(n)
	}
}

// Sort returns a sorted copy of input.
func Sort(a Algorithm, input []int) []int {
	out := clone(input)
	sortSlice(a, out, intLess, nil)
	return out
}

// SortCounted returns a sorted copy of input together with operation counts.
func SortCounted(a Algorithm, input []int) ([]int, Counters) {
	var c Counters
	out := clone(input)
	sortSlice(a, out, intLess, &c)
	return out, c
}

func clone(input []int) []int {
	if input == nil {
		return []int{}
	}
	return slices.Clone(input)
}

func intLess(a, b int) bool {
	return a < b
}

func sortSlice[T any](a Algorithm, s []T, less func(x, y T) bool, c *Counters) {
	switch a {
	case Bubble:
		bubbleSort(s, less, c)
	case Selection:
		selectionSort(s, less, c)
	case Insertion:
		insertionSort(s, less, c)
	case BinaryInsertion:
		binaryInsertionSort(s, less, c)
	case Merge:
		mergeSort(s, less, c)
	case MergeBottomUp:
		mergeSortBottomUp(s, less, c)
	default:
		panic(fmt.Sprintf("sorting: unknown algorithm %d", int(a)))
	}
}
