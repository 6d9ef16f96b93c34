package prediction

// Partition splits items into at most n contiguous chunks of
// max(len/n, 1) items.  The remainder goes to the last chunk, so every
// item appears exactly once and in order.  n below 1 counts as 1.
func Partition[T any](items []T, n int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > len(items) {
		n = len(items)
	}
	size := len(items) / n

	chunks := make([][]T, 0, n)
	for i := 0; i < n-1; i++ {
		chunks = append(chunks, items[i*size:(i+1)*size])
	}
	return append(chunks, items[(n-1)*size:])
}

//Personal.AI order the ending
