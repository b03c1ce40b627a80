package batch

import "github.com/pairlens/pairlens/internal/core/model"

// DefaultChunkSize bounds one invocation when no valid BATCH_SIZE is
// configured.
const DefaultChunkSize = 50

// NoLimit disables the caller-supplied row cap.
const NoLimit = -1

// PlanChunk bounds the records handed to one dispatcher invocation:
// the prefix of pending of length min(len(pending), limit, chunkSize).
// A limit < 0 imposes no cap; a chunkSize <= 0 falls back to
// DefaultChunkSize. The planner bounds row count only - it knows nothing
// about elapsed time.
func PlanChunk(pending []model.PendingRecord, limit, chunkSize int) []model.PendingRecord {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	n := len(pending)
	if chunkSize < n {
		n = chunkSize
	}
	if limit >= 0 && limit < n {
		n = limit
	}

	return pending[:n]
}
