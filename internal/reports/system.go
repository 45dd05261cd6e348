package reports

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/sweep/pkg/pagination"
	"github.com/JaimeStill/sweep/pkg/storage"
)

// System defines the public contract for report operations.
type System interface {
	Handler() *Handler

	Create(ctx context.Context, cmd CreateCommand) (*Report, error)
	AttachEvidence(ctx context.Context, cmd EvidenceCommand) (*Report, error)
	RemoveEvidence(ctx context.Context, id uuid.UUID) (*Report, error)
	MarkClean(ctx context.Context, id uuid.UUID) (*Report, error)
	Delete(ctx context.Context, id uuid.UUID) (*Report, error)

	Find(ctx context.Context, id uuid.UUID) (*Report, error)
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Report], error)
	All(ctx context.Context, filters Filters) ([]Report, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)

	// OpenEvidence streams a stored evidence photo by storage key.
	OpenEvidence(ctx context.Context, key string) (*storage.Blob, error)
}
