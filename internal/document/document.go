package document

// ContentType classifies a unit as a segmented legal article or a general
// text chunk. The values are stored verbatim in vector payloads and
// snapshots, so they must not change.
type ContentType string

const (
	// TypeArticle marks a unit produced by article segmentation.
	TypeArticle ContentType = "article"
	// TypeGeneral marks a chunk of non-article text.
	TypeGeneral ContentType = "general"
)

// Unit is one indexable piece of a source document: either a complete
// "Artículo N" provision or a general chunk of the remaining text.
type Unit struct {
	// Content is the unit text. Article units always start with the
	// reconstructed heading "Artículo {number}. ". General units are at
	// least 100 characters after trimming.
	Content string

	Type ContentType

	// ArticleNumber is the captured decimal numeral. Empty for general units.
	ArticleNumber string

	// Source is the base name of the originating file; SourcePath is its
	// full path.
	Source     string
	SourcePath string

	// Page is the 1-based page the unit was attributed to, or 0 when the
	// attribution lookup failed.
	Page int
}
