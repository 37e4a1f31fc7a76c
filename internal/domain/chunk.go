package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// GlobalSubject is the subject tag for shared reference documents.
const GlobalSubject = "global"

// SourceType labels the record family a chunk was produced from.
type SourceType string

const (
	SourceTypeBooking  SourceType = "booking"
	SourceTypePlan     SourceType = "plan"
	SourceTypeFeedback SourceType = "feedback"
	SourceTypeSession  SourceType = "session"
	SourceTypeProfile  SourceType = "profile"
	SourceTypeDocument SourceType = "document"
)

// ValidSourceType reports whether s names a known chunk source family.
func ValidSourceType(s SourceType) bool {
	switch s {
	case SourceTypeBooking, SourceTypePlan, SourceTypeFeedback,
		SourceTypeSession, SourceTypeProfile, SourceTypeDocument:
		return true
	}
	return false
}

// KnowledgeChunk is one bounded text fragment stored for retrieval. Its ID is
// a content hash, so re-indexing unchanged records reproduces identical IDs.
// Chunks for a subject are deleted wholesale and reinserted on reindex; no
// chunk is ever patched in place.
type KnowledgeChunk struct {
	ID         string
	SubjectID  string
	SourceType SourceType
	SourceID   string
	ChunkIndex int
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}

// ChunkID derives the stable identity of a chunk from its subject, source,
// position, and content.
func ChunkID(subjectID string, sourceType SourceType, sourceID string, index int, content string) string {
	h := sha256.New()
	h.Write([]byte(subjectID))
	h.Write([]byte{0})
	h.Write([]byte(sourceType))
	h.Write([]byte{0})
	h.Write([]byte(sourceID))
	h.Write([]byte{0, byte(index), byte(index >> 8)})
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// RelevanceBand is the coarse distance band attached to a retrieved chunk.
type RelevanceBand string

const (
	RelevanceNear   RelevanceBand = "near"
	RelevanceMedium RelevanceBand = "medium"
	RelevanceFar    RelevanceBand = "far"
)

// RetrievedChunk is a chunk returned by a similarity query, annotated with
// its distance and relevance band.
type RetrievedChunk struct {
	Chunk    KnowledgeChunk
	Distance float64
	Band     RelevanceBand
}
