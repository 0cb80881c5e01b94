// Package paper stores papers as JSON documents, one key per paper.
package paper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/paperlens/internal/db"
	"github.com/kailas-cloud/paperlens/internal/domain"
	dompaper "github.com/kailas-cloud/paperlens/internal/domain/paper"
	"github.com/kailas-cloud/paperlens/internal/embedding"
)

// store is the consumer interface for papers (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string, path string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/paper.Repository.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a paper repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Upsert creates or replaces a paper. Returns true if created.
// Replacing keeps the original creation time.
func (r *Repo) Upsert(ctx context.Context, collection string, p *dompaper.Paper) (bool, error) {
	key := paperKey(collection, p.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	now := r.now().UnixMilli()
	createdAt := now
	if exists {
		if prev, err := r.createdAt(ctx, key); err == nil && prev > 0 {
			createdAt = prev
		}
	}

	stored := p.WithTimestamps(createdAt, now)
	data, err := json.Marshal(toPaperJSON(collection, &stored))
	if err != nil {
		return false, fmt.Errorf("marshal paper: %w", err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}
	return !exists, nil
}

// Get returns a paper by ID.
func (r *Repo) Get(ctx context.Context, collection, id string) (dompaper.Paper, error) {
	key := paperKey(collection, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return dompaper.Paper{}, domain.ErrPaperNotFound
		}
		return dompaper.Paper{}, fmt.Errorf("json.get %s: %w", key, err)
	}

	// JSONPath "$" wraps the document in an array.
	var docs []paperJSON
	if err := json.Unmarshal(raw, &docs); err != nil {
		return dompaper.Paper{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	if len(docs) == 0 {
		return dompaper.Paper{}, domain.ErrPaperNotFound
	}

	p, err := docs[0].toDomain()
	if err != nil {
		return dompaper.Paper{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return p, nil
}

// Delete removes a paper.
func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	key := paperKey(collection, id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrPaperNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// UpdateSummary replaces only the summary of a stored paper.
func (r *Repo) UpdateSummary(ctx context.Context, collection, id string, s domain.Summary) error {
	key := paperKey(collection, id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrPaperNotFound
	}

	data, err := json.Marshal(toSummaryJSON(s))
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := r.store.JSONSet(ctx, key, "$.summary", data); err != nil {
		return fmt.Errorf("json.set %s $.summary: %w", key, err)
	}

	updated := strconv.AppendInt(nil, r.now().UnixMilli(), 10)
	if err := r.store.JSONSet(ctx, key, "$.updated_at", updated); err != nil {
		return fmt.Errorf("json.set %s $.updated_at: %w", key, err)
	}
	return nil
}

// List returns the ids of every paper in a collection, sorted.
func (r *Repo) List(ctx context.Context, collection string) ([]string, error) {
	keys, err := r.store.Scan(ctx, paperPattern(collection))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}

	prefix := paperPrefix(collection)
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

// Vectors returns every paper vector in a collection, sorted by id.
// Papers without a vector are skipped.
func (r *Repo) Vectors(ctx context.Context, collection string) ([]embedding.Candidate, error) {
	ids, err := r.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = paperKey(collection, id)
	}

	raws, err := r.store.JSONGetMulti(ctx, keys, "$.vector")
	if err != nil {
		return nil, fmt.Errorf("json.get vectors %s: %w", collection, err)
	}

	out := make([]embedding.Candidate, 0, len(ids))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		var encoded [][]byte
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("unmarshal vector %s: %w", keys[i], err)
		}
		if len(encoded) == 0 || len(encoded[0]) == 0 {
			continue
		}
		vec, err := embedding.Decode(encoded[0])
		if err != nil {
			return nil, fmt.Errorf("decode vector %s: %w", keys[i], err)
		}
		out = append(out, embedding.Candidate{ID: ids[i], Vector: vec})
	}
	return out, nil
}

func (r *Repo) createdAt(ctx context.Context, key string) (int64, error) {
	raw, err := r.store.JSONGet(ctx, key, "$.created_at")
	if err != nil {
		return 0, fmt.Errorf("json.get %s $.created_at: %w", key, err)
	}
	var vals []int64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return 0, fmt.Errorf("parse created_at of %s: %w", key, err)
	}
	if len(vals) == 0 {
		return 0, nil
	}
	return vals[0], nil
}

func paperPrefix(collection string) string {
	return fmt.Sprintf("%s%s:paper:", domain.KeyPrefix, collection)
}

func paperKey(collection, id string) string {
	return paperPrefix(collection) + id
}

func paperPattern(collection string) string {
	return paperPrefix(collection) + "*"
}
