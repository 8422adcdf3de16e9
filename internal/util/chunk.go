package util

// Chunk splits items into consecutive slices of at most size elements.
// Concatenating the result yields items again. size must be positive.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic("util.Chunk: size must be positive")
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
