package sorting

func mergeSort[T any](s []T, less func(x, y T) bool, c *Counters) {
	if len(s) < 2 {
		return
	}
	buf := make([]T, len(s))
	mergeSortRec(s, buf, less, c)
}

func mergeSortRec[T any](s, buf []T, less func(x, y T) bool, c *Counters) {
	if len(s) < 2 {
		return
	}
	mid := len(s) / 2
	mergeSortRec(s[:mid], buf[:mid], less, c)
	mergeSortRec(s[mid:], buf[mid:], less, c)
	merge(s[:mid], s[mid:], buf[:len(s)], less, c)
	copy(s, buf[:len(s)])
}

// mergeSortBottomUp merges runs of width 1, 2, 4, ... alternating between s
// and a scratch buffer. Output is identical to mergeSort.
func mergeSortBottomUp[T any](s []T, less func(x, y T) bool, c *Counters) {
	n := len(s)
	if n < 2 {
		return
	}
	src, dst := s, make([]T, n)
	inScratch := false
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			merge(src[lo:mid], src[mid:hi], dst[lo:hi], less, c)
		}
		src, dst = dst, src
		inScratch = !inScratch
	}
	if inScratch {
		copy(s, src)
	}
}

// merge writes the union of two sorted runs into dst. Ties take the left run.
func merge[T any](left, right, dst []T, less func(x, y T) bool, c *Counters) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		c.compare()
		if less(right[j], left[i]) {
			dst[k] = right[j]
			j++
		} else {
			dst[k] = left[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
	c.write(len(dst))
}
