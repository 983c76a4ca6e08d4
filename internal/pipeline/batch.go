package pipeline

// DefaultBatchSize is how many course IDs travel in one schedule request.
// Larger batches risk over-long payloads on the portal side.
const DefaultBatchSize = 10

// Chunk partitions ids into consecutive slices of at most size elements.
// The chunks cover the input exactly, in order, with no overlap; only the
// final chunk may be shorter. A non-positive size falls back to
// DefaultBatchSize.
func Chunk(ids []int, size int) [][]int {
	if size <= 0 {
		size = DefaultBatchSize
	}

	var chunks [][]int
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
