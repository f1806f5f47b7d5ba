package sorting

// bubbleSort stops after the first pass without a swap, so sorted input
// costs n-1 comparisons.
func bubbleSort[T any](s []T, less func(x, y T) bool, c *Counters) {
	n := len(s)
	for pass := 0; pass < n-1; pass++ {
		swapped := false
		for j := 0; j < n-1-pass; j++ {
			c.compare()
			if less(s[j+1], s[j]) {
				s[j], s[j+1] = s[j+1], s[j]
				c.swap()
				swapped = true
			}
		}
		if !swapped {
			return
		}
	}
}

// selectionSort always performs n(n-1)/2 comparisons and skips no-op swaps.
func selectionSort[T any](s []T, less func(x, y T) bool, c *Counters) {
	n := len(s)
	for i := 0; i < n-1; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			c.compare()
			if less(s[j], s[minIdx]) {
				minIdx = j
			}
		}
		if minIdx != i {
			s[i], s[minIdx] = s[minIdx], s[i]
			c.swap()
		}
	}
}

func insertionSort[T any](s []T, less func(x, y T) bool, c *Counters) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		j := i - 1
		for j >= 0 {
			c.compare()
			if !less(key, s[j]) {
				break
			}
			s[j+1] = s[j]
			c.shift(1)
			j--
		}
		s[j+1] = key
	}
}

// binaryInsertionSort finds the upper bound of key in the sorted prefix, which
// keeps equal elements in input order. Shifts remain linear per element.
func binaryInsertionSort[T any](s []T, less func(x, y T) bool, c *Counters) {
	for i := 1; i < len(s); i++ {
		key := s[i]
		lo, hi := 0, i
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			c.compare()
			if less(key, s[mid]) {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		if lo == i {
			continue
		}
		copy(s[lo+1:i+1], s[lo:i])
		c.shift(i - lo)
		s[lo] = key
	}
}
