package storage

// UnitRecord represents one indexed document unit row, embedding included.
// The ID doubles as the vector point ID.
type UnitRecord struct {
	ID            string
	Content       string
	ContentType   string // "article" or "general"
	ArticleNumber string // empty for general content
	Source        string // originating file name
	SourcePath    string // full path of the originating file
	Page          int    // 1-based page number, 0 when unknown
	Embedding     []float32
}
