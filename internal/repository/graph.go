package repository

import (
	"context"

	"github.com/studypup/studypup/internal/entity"
)

// ListGraphQuery carries filtering and ordering for graph listings. Filter
// fields are populated by pkg/filterexpr from a caller-supplied expression.
type ListGraphQuery struct {
	OwnerID string

	// Filter bindings.
	SourceType   string
	SourceTypes  []string
	CreatedAfter string // RFC3339; bound from timestamp() literals
	TitlePrefix  string

	// Ordering bindings.
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

// KnowledgeGraphRepository defines the local-cache-first store for graphs.
// The local store is the sole source of truth; every operation is safe to
// call against an empty store (nil/empty results, not errors).
type KnowledgeGraphRepository interface {
	// Save upserts by id and makes the graph discoverable by listing.
	Save(ctx context.Context, graph *entity.KnowledgeGraph) error
	Get(ctx context.Context, id string) (*entity.KnowledgeGraph, error)
	// GetByContentHash returns the owner's first graph whose source hash
	// matches, or nil. Duplicates should not occur given the save-once
	// graph lifecycle; the tie-break is undefined if they do.
	GetByContentHash(ctx context.Context, ownerID, hash string) (*entity.KnowledgeGraph, error)
	List(ctx context.Context, query *ListGraphQuery) ([]*entity.KnowledgeGraph, error)
	Delete(ctx context.Context, id string) error
}

// RemoteSyncer is the extension point for a remote backing store behind the
// local cache. No implementation exists yet; stores accept a nil syncer and
// skip the remote path entirely, so a remote layer can be added later
// without changing callers.
type RemoteSyncer interface {
	SyncGraph(ctx context.Context, graph *entity.KnowledgeGraph) error
	SyncMaterialSet(ctx context.Context, set *entity.StudyMaterialSet) error
}
