package reports

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/sweep/internal/geocode"
	"github.com/JaimeStill/sweep/internal/vision"
	"github.com/JaimeStill/sweep/pkg/metrics"
	"github.com/JaimeStill/sweep/pkg/pagination"
	"github.com/JaimeStill/sweep/pkg/query"
	"github.com/JaimeStill/sweep/pkg/repository"
	"github.com/JaimeStill/sweep/pkg/storage"
)

const evidencePrefix = "evidence/"

var domainErrors = repository.Errors{
	NotFound:   ErrNotFound,
	Constraint: ErrValidation,
}

// Enrichment bundles the optional lookups applied on write. Nil resolvers
// produce skipped outcomes.
type Enrichment struct {
	Geocoder   *geocode.Resolver
	Recognizer *vision.Recognizer
	Metrics    *metrics.Metrics
}

// Evidence configures evidence photo handling.
type Evidence struct {
	// BaseURL is prepended to a storage key to form the public image URL.
	BaseURL string
	MaxSize int64
}

// URL returns the public URL serving key.
func (e Evidence) URL(key string) string {
	return strings.TrimRight(e.BaseURL, "/") + "/" + key
}

type repo struct {
	db         *sql.DB
	storage    storage.System
	enrich     Enrichment
	evidence   Evidence
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a report repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	enrich Enrichment,
	evidence Evidence,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		enrich:     enrich,
		evidence:   evidence,
		logger:     logger.With("system", "reports"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.evidence.MaxSize)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Report, error) {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	lat, lon := cmd.Latitude.Float(), cmd.Longitude.Float()
	loc := geocode.Location{Town: cmd.Town, County: cmd.County, Country: cmd.Country}

	if cmd.needsLookup() {
		result := r.enrich.Geocoder.Resolve(ctx, lat, lon)
		r.enrich.Metrics.ObserveEnrichment("geocode", result.Status.String())
		loc = resolveLocation(loc, result)
	}

	q := `
		INSERT INTO reports(id, latitude, longitude, town, county, country, priority, email, recognized_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + returning

	args := []any{
		uuid.New(),
		lat,
		lon,
		loc.Town,
		loc.County,
		loc.Country,
		cmd.Priority,
		cmd.Email,
		CategoryPending,
	}

	rep, err := repository.QueryOne(ctx, r.db, q, args, scanReport)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", repository.MapError(err, domainErrors))
	}

	r.logger.Info("report created", "id", rep.ID, "priority", rep.Priority, "town", rep.Town)
	return &rep, nil
}

func (r *repo) AttachEvidence(ctx context.Context, cmd EvidenceCommand) (*Report, error) {
	if r.evidence.MaxSize > 0 && int64(len(cmd.Data)) > r.evidence.MaxSize {
		return nil, tooLarge(r.evidence.MaxSize)
	}
	if len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if !strings.HasPrefix(cmd.ContentType, "image/") {
		return nil, fmt.Errorf("%w: content type %q", ErrInvalidImage, cmd.ContentType)
	}

	existing, err := r.Find(ctx, cmd.ReportID)
	if err != nil {
		return nil, err
	}

	key := buildEvidenceKey(cmd.ReportID, cmd.Filename)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), int64(len(cmd.Data)), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload evidence: %w", err)
	}

	imageURL := r.evidence.URL(key)
	result := r.enrich.Recognizer.Recognize(ctx, vision.Image{
		URL:         imageURL,
		Data:        cmd.Data,
		ContentType: cmd.ContentType,
	})
	r.enrich.Metrics.ObserveEnrichment("vision", result.Status.String())

	q := `
		UPDATE reports
		SET image_url = $2, evidence_key = $3, recognized_category = $4
		WHERE id = $1
		RETURNING ` + returning

	args := []any{cmd.ReportID, imageURL, key, categoryFor(result)}

	rep, err := repository.QueryOne(ctx, r.db, q, args, scanReport)
	if err != nil {
		r.deleteBlob(ctx, key, "compensating blob delete failed")
		return nil, repository.MapError(err, domainErrors)
	}

	if existing.EvidenceKey != nil && *existing.EvidenceKey != key {
		r.deleteBlob(ctx, *existing.EvidenceKey, "replaced blob delete failed")
	}

	r.logger.Info("evidence attached", "id", rep.ID, "key", key, "category", rep.RecognizedCategory)
	return &rep, nil
}

func (r *repo) RemoveEvidence(ctx context.Context, id uuid.UUID) (*Report, error) {
	q := `
		WITH prev AS (SELECT evidence_key AS prev_key FROM reports WHERE id = $1)
		UPDATE reports
		SET image_url = NULL, evidence_key = NULL, recognized_category = $2
		FROM prev
		WHERE id = $1 AND image_url IS NOT NULL
		RETURNING ` + returning + `, prev.prev_key`

	rel, err := repository.QueryOne(ctx, r.db, q, []any{id, CategoryPending}, scanReleased)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := r.Find(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNoEvidence
	}
	if err != nil {
		return nil, repository.MapError(err, domainErrors)
	}

	if rel.previousKey != nil {
		r.deleteBlob(ctx, *rel.previousKey, "evidence blob delete failed")
	}

	r.logger.Info("evidence removed", "id", id)
	return &rel.Report, nil
}

func (r *repo) MarkClean(ctx context.Context, id uuid.UUID) (*Report, error) {
	q := `
		WITH prev AS (SELECT evidence_key AS prev_key FROM reports WHERE id = $1)
		UPDATE reports
		SET is_clean = TRUE, image_url = NULL, evidence_key = NULL, recognized_category = $2
		FROM prev
		WHERE id = $1
		RETURNING ` + returning + `, prev.prev_key`

	rel, err := repository.QueryOne(ctx, r.db, q, []any{id, CategoryCleaned}, scanReleased)
	if err != nil {
		return nil, repository.MapError(err, domainErrors)
	}

	if rel.previousKey != nil {
		r.deleteBlob(ctx, *rel.previousKey, "evidence blob delete failed")
	}

	r.logger.Info("report marked clean", "id", id)
	return &rel.Report, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) (*Report, error) {
	q := `DELETE FROM reports WHERE id = $1 RETURNING ` + returning

	rep, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanReport)
	if err != nil {
		return nil, repository.MapError(err, domainErrors)
	}

	if rep.EvidenceKey != nil {
		r.deleteBlob(ctx, *rep.EvidenceKey, "blob delete failed after DB delete")
	}

	r.logger.Info("report deleted", "id", id)
	return &rep, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rep, err := repository.QueryOne(ctx, r.db, q, args, scanReport)
	if err != nil {
		return nil, repository.MapError(err, domainErrors)
	}
	return &rep, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Report], error) {
	qb := query.NewBuilder(projection, newestFirst...)
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count reports: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReport)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context, filters Filters) ([]Report, error) {
	qb := query.NewBuilder(projection, newestFirst...)
	filters.Apply(qb)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanReport)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	return items, nil
}

func (r *repo) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	q := `
		SELECT email,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE priority = 'high') AS high,
			COUNT(*) FILTER (WHERE priority = 'medium') AS medium,
			COUNT(*) FILTER (WHERE priority = 'low') AS low,
			COUNT(*) FILTER (WHERE is_clean) AS cleaned
		FROM reports
		GROUP BY email
		ORDER BY total DESC, email ASC`

	entries, err := repository.QueryMany(ctx, r.db, q, nil, scanLeaderboardEntry)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	return entries, nil
}

func (r *repo) OpenEvidence(ctx context.Context, key string) (*storage.Blob, error) {
	if !strings.HasPrefix(key, evidencePrefix) {
		return nil, ErrNotFound
	}

	blob, err := r.storage.Download(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download evidence: %w", err)
	}
	return blob, nil
}

// deleteBlob removes key best-effort. A missing blob is not an error.
func (r *repo) deleteBlob(ctx context.Context, key, msg string) {
	if err := r.storage.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Info("evidence blob already absent", "key", key)
			return
		}
		r.logger.Warn(msg, "key", key, "error", err)
	}
}

func buildEvidenceKey(reportID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s%s/%s-%s", evidencePrefix, reportID, uuid.New(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "image"
	}

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteByte('-')
		}
	}

	out := b.String()
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", ".")
	}
	out = strings.Trim(out, ".-")
	if out == "" {
		return "image"
	}
	return out
}
