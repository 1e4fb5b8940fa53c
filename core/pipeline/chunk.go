// core/pipeline/chunk.go
package pipeline

import "abnum/core/input"

// DefaultMaxBatch is the chunk capacity above which a run switches to
// streaming output.
const DefaultMaxBatch = 1024 * 100

// Chunks partitions records into stable, contiguous, non-overlapping chunks
// of at most maxBatch entries; every chunk is full except possibly the last.
// maxBatch <= 0 yields a single chunk.
func Chunks(records []input.Record, maxBatch int) [][]input.Record {
	if len(records) == 0 {
		return nil
	}
	if maxBatch <= 0 || maxBatch >= len(records) {
		return [][]input.Record{records}
	}
	out := make([][]input.Record, 0, (len(records)+maxBatch-1)/maxBatch)
	for start := 0; start < len(records); start += maxBatch {
		end := start + maxBatch
		if end > len(records) {
			end = len(records)
		}
		out = append(out, records[start:end])
	}
	return out
}

// Streaming reports whether a run of the given size must stream its output
// chunk-by-chunk instead of buffering the full result set. The decision is
// made once, before the first chunk is processed, because it determines
// output file creation.
func Streaming(total, maxBatch int) bool {
	return maxBatch > 0 && total > maxBatch
}
