package paper

import (
	"github.com/kailas-cloud/paperlens/internal/domain"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	"github.com/kailas-cloud/paperlens/internal/embedding"
)

// paperJSON is the stored JSON document.
// The vector is kept as little-endian float32 bytes (base64 in JSON).
type paperJSON struct {
	ID          string      `json:"id"`
	Collection  string      `json:"collection"`
	Title       string      `json:"title,omitempty"`
	Text        string      `json:"text"`
	ContentType string      `json:"content_type"`
	Summary     summaryJSON `json:"summary"`
	Vector      []byte      `json:"vector,omitempty"`
	CreatedAt   int64       `json:"created_at"`
	UpdatedAt   int64       `json:"updated_at"`
}

type summaryJSON struct {
	Short          string   `json:"short"`
	Methodology    string   `json:"methodology"`
	Findings       string   `json:"findings"`
	Limitations    string   `json:"limitations"`
	Keywords       []string `json:"keywords"`
	SuggestedTags  []string `json:"suggested_tags"`
	Source         string   `json:"source"`
	FallbackReason string   `json:"fallback_reason,omitempty"`
	Model          string   `json:"model,omitempty"`
	GeneratedAt    int64    `json:"generated_at"`
}

func toPaperJSON(collection string, p *dompaper.Paper) paperJSON {
	return paperJSON{
		ID:          p.ID(),
		Collection:  collection,
		Title:       p.Title(),
		Text:        p.Content(),
		ContentType: p.ContentType(),
		Summary:     toSummaryJSON(p.Summary()),
		Vector:      embedding.Encode(p.Vector()),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toSummaryJSON(s domain.Summary) summaryJSON {
	return summaryJSON{
		Short:          s.Short,
		Methodology:    s.Methodology,
		Findings:       s.Findings,
		Limitations:    s.Limitations,
		Keywords:       s.Keywords,
		SuggestedTags:  s.SuggestedTags,
		Source:         string(s.Source),
		FallbackReason: s.FallbackReason,
		Model:          s.Model,
		GeneratedAt:    s.GeneratedAt,
	}
}

func (j *paperJSON) toDomain() (dompaper.Paper, error) {
	vec, err := embedding.Decode(j.Vector)
	if err != nil {
		return dompaper.Paper{}, err
	}
	return dompaper.Reconstruct(
		j.ID, j.Title, j.Text, j.ContentType, j.Summary.toDomain(), vec, j.CreatedAt, j.UpdatedAt,
	), nil
}

func (j *summaryJSON) toDomain() domain.Summary {
	return domain.Summary{
		Short:          j.Short,
		Methodology:    j.Methodology,
		Findings:       j.Findings,
		Limitations:    j.Limitations,
		Keywords:       j.Keywords,
		SuggestedTags:  j.SuggestedTags,
		Source:         domain.SummarySource(j.Source),
		FallbackReason: j.FallbackReason,
		Model:          j.Model,
		GeneratedAt:    j.GeneratedAt,
	}
}
