package models

// ChunkType identifies which chunking policy produced a chunk.
type ChunkType string

const (
	ChunkMenuItems       ChunkType = "menu_items"
	ChunkSectionComplete ChunkType = "section_complete"
	ChunkSectionPart     ChunkType = "section_part"
	ChunkSemantic        ChunkType = "semantic"
	ChunkGeneric         ChunkType = "generic"
)

// Chunk is a contiguous, size-bounded span of a document's text: the unit
// that gets embedded and written to the vector store. Every chunk traces to
// exactly one document via DocumentID.
type Chunk struct {
	ID            string            `json:"id"`
	DocumentID    string            `json:"document_id"`
	Index         int               `json:"sequence_index"`
	Text          string            `json:"text"`
	Type          ChunkType         `json:"chunk_type"`
	TokenEstimate int               `json:"token_estimate"`
	Metadata      map[string]string `json:"metadata"`
}

// MenuItem is one extracted (dish name, price) pair.
type MenuItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}
