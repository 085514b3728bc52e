package models

import "strings"

// Content sources recorded in vector metadata. Together with a media type they
// namespace vector record ids.
const (
	SourceJournal = "journal"
	SourceYouTube = "youtube"
	SourceTMDB    = "tmdb"
)

// Media types recorded in vector metadata.
const (
	MediaTypeJournal = "journal"
	MediaTypeVideo   = "video"
	MediaTypeSong    = "song"
	MediaTypeMovie   = "movie"
)

// RecordID builds the deterministic vector record id for an item, namespaced by
// source and media type so repeated upserts of the same underlying item always
// target the same id.
func RecordID(source, mediaType, nativeID string) string {
	return source + ":" + mediaType + ":" + nativeID
}

// VectorMetadata is the metadata stored alongside a vector record. Source and
// MediaType are mandatory (they drive result partitioning); Extra carries
// per-source attributes without widening the typed surface.
type VectorMetadata struct {
	Source    string            `json:"source"`
	MediaType string            `json:"media_type"`
	Title     string            `json:"title,omitempty"`
	Text      string            `json:"text,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// VectorRecord is one entry in the vector index.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Metadata  VectorMetadata
}

// VectorMatch is one nearest-neighbor result. Score is cosine similarity in [-1, 1].
type VectorMatch struct {
	ID       string
	Score    float64
	Metadata VectorMetadata
}

// NativeID extracts the provider-native id from a vector record id, the inverse
// of RecordID. Returns the full id when it is not namespaced.
func NativeID(recordID string) string {
	parts := strings.SplitN(recordID, ":", 3)
	if len(parts) == 3 {
		return parts[2]
	}

	return recordID
}
