package paper

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/paperlens/internal/domain"
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	reservedIDs = map[string]bool{"batch": true}
)

// MaxContentSize is the maximum raw paper text size in bytes.
const MaxContentSize = 2 << 20 // 2MB

// MaxIDLength bounds paper ids and collection names.
const MaxIDLength = 256

// Content types accepted for the raw text.
const (
	ContentTypePlain = "text/plain"
	ContentTypeHTML  = "text/html"
)

// Paper is the paper aggregate (immutable value object).
type Paper struct {
	id          string
	title       string
	content     string
	contentType string
	summary     domain.Summary
	vector      []float32
	createdAt   int64
	updatedAt   int64
}

// New validates and creates a Paper. Summary and vector are attached by the pipeline.
func New(id, title, content, contentType string) (Paper, error) {
	if err := ValidatePaperID(id); err != nil {
		return Paper{}, err
	}
	if content == "" {
		return Paper{}, fmt.Errorf("text is required")
	}
	if len(content) > MaxContentSize {
		return Paper{}, fmt.Errorf("text too large (max %d bytes)", MaxContentSize)
	}
	switch contentType {
	case "":
		contentType = ContentTypePlain
	case ContentTypePlain, ContentTypeHTML:
	default:
		return Paper{}, fmt.Errorf("unsupported content type %q", contentType)
	}

	return Paper{id: id, title: title, content: content, contentType: contentType}, nil
}

// Reconstruct creates a Paper without validation (storage hydration).
func Reconstruct(
	id, title, content, contentType string, summary domain.Summary,
	vector []float32, createdAt, updatedAt int64,
) Paper {
	return Paper{
		id: id, title: title, content: content, contentType: contentType,
		summary: summary, vector: vector, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ValidateID checks a paper id or collection name: ^[a-zA-Z0-9_-]+$, 1-256 chars.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("ID is required")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("ID must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// ValidatePaperID applies ValidateID and rejects ids that collide with static
// routes under a collection (currently "batch").
func ValidatePaperID(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if reservedIDs[id] {
		return fmt.Errorf("paper ID %q is reserved", id)
	}
	return nil
}

// ID returns the paper identifier.
func (p *Paper) ID() string { return p.id }

// Title returns the optional paper title.
func (p *Paper) Title() string { return p.title }

// Content returns the raw paper text.
func (p *Paper) Content() string { return p.content }

// ContentType returns the media type of Content.
func (p *Paper) ContentType() string { return p.contentType }

// Summary returns the pipeline analysis.
func (p *Paper) Summary() domain.Summary { return p.summary }

// Vector returns the embedding vector.
func (p *Paper) Vector() []float32 { return p.vector }

// CreatedAt returns the creation timestamp (unix millis).
func (p *Paper) CreatedAt() int64 { return p.createdAt }

// UpdatedAt returns the last update timestamp (unix millis).
func (p *Paper) UpdatedAt() int64 { return p.updatedAt }

// WithContent returns a copy with the text replaced (sanitizing, truncation).
func (p *Paper) WithContent(content string) Paper {
	c := *p
	c.content = content
	return c
}

// WithAnalysis returns a copy carrying the pipeline output.
func (p *Paper) WithAnalysis(s domain.Summary, v []float32) Paper {
	c := *p
	c.summary = s
	c.vector = v
	return c
}

// WithTimestamps returns a copy with creation and update times set.
func (p *Paper) WithTimestamps(createdAt, updatedAt int64) Paper {
	c := *p
	c.createdAt = createdAt
	c.updatedAt = updatedAt
	return c
}
