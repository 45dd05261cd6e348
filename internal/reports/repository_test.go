package reports_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/JaimeStill/sweep/internal/geocode"
	"github.com/JaimeStill/sweep/internal/reports"
	"github.com/JaimeStill/sweep/internal/vision"
	"github.com/JaimeStill/sweep/pkg/lifecycle"
	"github.com/JaimeStill/sweep/pkg/pagination"
	"github.com/JaimeStill/sweep/pkg/storage"
)

var columns = []string{
	"id", "latitude", "longitude", "town", "county", "country", "priority", "email",
	"reported_at", "image_url", "evidence_key", "recognized_category", "is_clean",
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func reportRows(reps ...reports.Report) *sqlmock.Rows {
	rows := sqlmock.NewRows(columns)
	for _, r := range reps {
		var imageURL, key any
		if r.ImageURL != nil {
			imageURL = *r.ImageURL
		}
		if r.EvidenceKey != nil {
			key = *r.EvidenceKey
		}
		rows.AddRow(
			r.ID.String(), r.Latitude, r.Longitude, r.Town, r.County, r.Country, string(r.Priority), r.Email,
			r.ReportedAt, imageURL, key, r.RecognizedCategory, r.IsClean,
		)
	}
	return rows
}

type memoryStorage struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: map[string][]byte{}}
}

func (s *memoryStorage) Start(*lifecycle.Coordinator) error { return nil }

func (s *memoryStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}

func (s *memoryStorage) Download(_ context.Context, key string) (*storage.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.Blob{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   "image/jpeg",
		ContentLength: int64(len(data)),
	}, nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	if _, ok := s.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.blobs, key)
	return nil
}

func (s *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok, nil
}

type stubGeocoder struct {
	loc geocode.Location
	err error
}

func (g stubGeocoder) Reverse(context.Context, float64, float64) (geocode.Location, error) {
	return g.loc, g.err
}

type stubAnalyzer struct {
	analysis vision.Analysis
	err      error
}

func (a stubAnalyzer) Analyze(context.Context, vision.Image) (vision.Analysis, error) {
	return a.analysis, a.err
}

type fixture struct {
	sys   reports.System
	mock  sqlmock.Sqlmock
	store *memoryStorage
}

func newFixture(t *testing.T, enrich reports.Enrichment) fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})

	store := newMemoryStorage()
	sys := reports.New(
		db,
		store,
		enrich,
		reports.Evidence{BaseURL: "https://sweep.example.com/api", MaxSize: 1024},
		discardLogger(),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)

	return fixture{sys: sys, mock: mock, store: store}
}

func sampleReport() reports.Report {
	return reports.Report{
		ID:                 uuid.MustParse("5b1f4a9e-6f0e-4d1c-9b7a-1f2e3d4c5b6a"),
		Latitude:           53.8,
		Longitude:          -1.55,
		Town:               "Leeds",
		County:             "West Yorkshire",
		Country:            "United Kingdom",
		Priority:           reports.PriorityHigh,
		Email:              "a@x.com",
		ReportedAt:         time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC),
		RecognizedCategory: reports.CategoryPending,
	}
}

var insertSQL = regexp.QuoteMeta("INSERT INTO reports(id, latitude, longitude, town, county, country, priority, email, recognized_category)")

func TestCreate(t *testing.T) {
	t.Run("normalizes email and uses supplied location", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})
		want := sampleReport()

		f.mock.ExpectQuery(insertSQL).
			WithArgs(sqlmock.AnyArg(), 53.8, -1.55, "Leeds", "West Yorkshire", "United Kingdom", "high", "a@x.com", reports.CategoryPending).
			WillReturnRows(reportRows(want))

		got, err := f.sys.Create(context.Background(), reports.CreateCommand{
			Latitude:  coord(53.8),
			Longitude: coord(-1.55),
			Town:      "Leeds",
			County:    "West Yorkshire",
			Country:   "United Kingdom",
			Priority:  "high",
			Email:     "A@X.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.IsClean {
			t.Error("new report is clean")
		}
		if got.ImageURL != nil {
			t.Errorf("imageUrl = %v, want nil", *got.ImageURL)
		}
		if got.ReportedAt.IsZero() {
			t.Error("reportedAt not assigned")
		}
	})

	tests := []struct {
		name     string
		geocoder geocode.Client
		want     [3]string
	}{
		{
			"geocoded",
			stubGeocoder{loc: geocode.Location{Town: "Leeds", Country: "United Kingdom"}},
			[3]string{"Leeds", reports.LocationUnknown, "United Kingdom"},
		},
		{
			"network failure",
			stubGeocoder{err: errors.New("dial tcp: i/o timeout")},
			[3]string{reports.LocationNetworkError, reports.LocationNetworkError, reports.LocationNetworkError},
		},
		{
			"failure with partial address",
			stubGeocoder{loc: geocode.Location{Town: "Leeds"}, err: errors.New("read: connection reset")},
			[3]string{reports.LocationNetworkError, reports.LocationNetworkError, reports.LocationNetworkError},
		},
		{
			"no address",
			stubGeocoder{err: geocode.ErrNoResult},
			[3]string{reports.LocationLookupFailed, reports.LocationLookupFailed, reports.LocationLookupFailed},
		},
		{
			"not configured",
			nil,
			[3]string{reports.LocationUnknown, reports.LocationUnknown, reports.LocationUnknown},
		},
	}

	for _, tt := range tests {
		t.Run("lookup "+tt.name, func(t *testing.T) {
			var resolver *geocode.Resolver
			if tt.geocoder != nil {
				resolver = geocode.NewResolver(tt.geocoder, time.Second, discardLogger())
			}
			f := newFixture(t, reports.Enrichment{Geocoder: resolver})

			row := sampleReport()
			row.Town, row.County, row.Country = tt.want[0], tt.want[1], tt.want[2]

			f.mock.ExpectQuery(insertSQL).
				WithArgs(sqlmock.AnyArg(), 53.8, -1.55, tt.want[0], tt.want[1], tt.want[2], "high", "a@x.com", reports.CategoryPending).
				WillReturnRows(reportRows(row))

			_, err := f.sys.Create(context.Background(), reports.CreateCommand{
				Latitude:  coord(53.8),
				Longitude: coord(-1.55),
				Town:      "unknown",
				Priority:  "high",
				Email:     "a@x.com",
			})
			if err != nil {
				t.Fatalf("create must not fail on enrichment: %v", err)
			}
		})
	}

	t.Run("validation failure skips insert", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})

		_, err := f.sys.Create(context.Background(), reports.CreateCommand{
			Latitude:  coord(91),
			Longitude: coord(0),
			Priority:  "low",
			Email:     "a@x.com",
		})
		if !errors.Is(err, reports.ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})
}

var (
	findSQL   = regexp.QuoteMeta("FROM public.reports r WHERE r.id = $1")
	updateSQL = regexp.QuoteMeta("UPDATE reports")
)

func TestAttachEvidence(t *testing.T) {
	jpeg := []byte("\xff\xd8\xff\xe0 fake jpeg")

	t.Run("uploads, analyzes and replaces previous blob", func(t *testing.T) {
		recognizer := vision.NewRecognizer(
			stubAnalyzer{analysis: vision.Analysis{Tags: []vision.Tag{{Name: "litter", Confidence: 0.9}}}},
			time.Second, discardLogger(),
		)
		f := newFixture(t, reports.Enrichment{Recognizer: recognizer})

		existing := sampleReport()
		existing.EvidenceKey = ptr("evidence/old.jpg")
		existing.ImageURL = ptr("https://sweep.example.com/api/evidence/old.jpg")
		f.store.blobs["evidence/old.jpg"] = []byte("old")

		updated := existing
		updated.ImageURL = ptr("https://sweep.example.com/api/evidence/new.jpg")
		updated.EvidenceKey = ptr("evidence/new.jpg")
		updated.RecognizedCategory = "litter"

		f.mock.ExpectQuery(findSQL).WithArgs(existing.ID).WillReturnRows(reportRows(existing))
		f.mock.ExpectQuery(updateSQL).
			WithArgs(existing.ID, sqlmock.AnyArg(), sqlmock.AnyArg(), "litter").
			WillReturnRows(reportRows(updated))

		got, err := f.sys.AttachEvidence(context.Background(), reports.EvidenceCommand{
			ReportID:    existing.ID,
			Filename:    "../My Photo.jpg",
			ContentType: "image/jpeg",
			Data:        jpeg,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.RecognizedCategory != "litter" {
			t.Errorf("category = %q, want litter", got.RecognizedCategory)
		}
		if _, ok := f.store.blobs["evidence/old.jpg"]; ok {
			t.Error("previous blob not deleted")
		}
		if len(f.store.blobs) != 1 {
			t.Fatalf("blobs = %d, want 1", len(f.store.blobs))
		}
		for key := range f.store.blobs {
			pattern := regexp.MustCompile(`^evidence/` + existing.ID.String() + `/[0-9a-f-]{36}-My-Photo\.jpg$`)
			if !pattern.MatchString(key) {
				t.Errorf("key = %q does not match %s", key, pattern)
			}
		}
	})

	t.Run("analyzer failure stores sentinel", func(t *testing.T) {
		recognizer := vision.NewRecognizer(stubAnalyzer{err: errors.New("503")}, time.Second, discardLogger())
		f := newFixture(t, reports.Enrichment{Recognizer: recognizer})
		existing := sampleReport()

		f.mock.ExpectQuery(findSQL).WithArgs(existing.ID).WillReturnRows(reportRows(existing))
		f.mock.ExpectQuery(updateSQL).
			WithArgs(existing.ID, sqlmock.AnyArg(), sqlmock.AnyArg(), reports.CategoryFailed).
			WillReturnRows(reportRows(existing))

		if _, err := f.sys.AttachEvidence(context.Background(), reports.EvidenceCommand{
			ReportID: existing.ID, Filename: "a.jpg", ContentType: "image/jpeg", Data: jpeg,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("analyzer not configured", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})
		existing := sampleReport()

		f.mock.ExpectQuery(findSQL).WithArgs(existing.ID).WillReturnRows(reportRows(existing))
		f.mock.ExpectQuery(updateSQL).
			WithArgs(existing.ID, sqlmock.AnyArg(), sqlmock.AnyArg(), reports.CategorySkipped).
			WillReturnRows(reportRows(existing))

		if _, err := f.sys.AttachEvidence(context.Background(), reports.EvidenceCommand{
			ReportID: existing.ID, Filename: "a.jpg", ContentType: "image/jpeg", Data: jpeg,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("vanished row deletes uploaded blob", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})
		existing := sampleReport()

		f.mock.ExpectQuery(findSQL).WithArgs(existing.ID).WillReturnRows(reportRows(existing))
		f.mock.ExpectQuery(updateSQL).WillReturnError(sql.ErrNoRows)

		_, err := f.sys.AttachEvidence(context.Background(), reports.EvidenceCommand{
			ReportID: existing.ID, Filename: "a.jpg", ContentType: "image/jpeg", Data: jpeg,
		})
		if !errors.Is(err, reports.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
		if len(f.store.blobs) != 0 {
			t.Errorf("blobs = %d, want 0 after compensation", len(f.store.blobs))
		}
	})

	t.Run("missing report", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})
		id := uuid.New()

		f.mock.ExpectQuery(findSQL).WithArgs(id).WillReturnError(sql.ErrNoRows)

		_, err := f.sys.AttachEvidence(context.Background(), reports.EvidenceCommand{
			ReportID: id, Filename: "a.jpg", ContentType: "image/jpeg", Data: jpeg,
		})
		if !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		if len(f.store.blobs) != 0 {
			t.Error("blob uploaded for missing report")
		}
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})

		_, err := f.sys.AttachEvidence(context.Background(), reports.EvidenceCommand{
			ReportID: uuid.New(), Filename: "a.jpg", ContentType: "image/jpeg", Data: make([]byte, 2048),
		})
		if !errors.Is(err, reports.ErrPayloadTooLarge) {
			t.Errorf("err = %v, want ErrPayloadTooLarge", err)
		}
		if err != nil && !strings.Contains(err.Error(), "limit 1 KB") {
			t.Errorf("err = %q, want configured limit", err)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})

		_, err := f.sys.AttachEvidence(context.Background(), reports.EvidenceCommand{
			ReportID: uuid.New(), Filename: "a.txt", ContentType: "text/plain", Data: []byte("hello"),
		})
		if !errors.Is(err, reports.ErrInvalidImage) {
			t.Errorf("err = %v, want ErrInvalidImage", err)
		}
	})
}

var releaseSQL = regexp.QuoteMeta("WITH prev AS (SELECT evidence_key AS prev_key FROM reports WHERE id = $1)")

func releasedRows(r reports.Report, prevKey any) *sqlmock.Rows {
	var imageURL, key any
	if r.ImageURL != nil {
		imageURL = *r.ImageURL
	}
	if r.EvidenceKey != nil {
		key = *r.EvidenceKey
	}
	return sqlmock.NewRows(append(columns, "prev_key")).AddRow(
		r.ID.String(), r.Latitude, r.Longitude, r.Town, r.County, r.Country, string(r.Priority), r.Email,
		r.ReportedAt, imageURL, key, r.RecognizedCategory, r.IsClean, prevKey,
	)
}

func TestRemoveEvidence(t *testing.T) {
	t.Run("clears image and resets category", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})

		current := sampleReport()
		f.store.blobs["evidence/a.jpg"] = []byte("a")

		f.mock.ExpectQuery(releaseSQL + ".*" + regexp.QuoteMeta("AND image_url IS NOT NULL")).
			WithArgs(current.ID, reports.CategoryPending).
			WillReturnRows(releasedRows(current, "evidence/a.jpg"))

		got, err := f.sys.RemoveEvidence(context.Background(), current.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ImageURL != nil || got.RecognizedCategory != reports.CategoryPending {
			t.Errorf("got imageUrl=%v category=%q", got.ImageURL, got.RecognizedCategory)
		}
		if len(f.store.blobs) != 0 {
			t.Error("evidence blob not deleted")
		}
	})

	t.Run("no evidence", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})
		current := sampleReport()

		f.mock.ExpectQuery(releaseSQL).WithArgs(current.ID, reports.CategoryPending).WillReturnError(sql.ErrNoRows)
		f.mock.ExpectQuery(findSQL).WithArgs(current.ID).WillReturnRows(reportRows(current))

		_, err := f.sys.RemoveEvidence(context.Background(), current.ID)
		if !errors.Is(err, reports.ErrNoEvidence) {
			t.Errorf("err = %v, want ErrNoEvidence", err)
		}
		if len(f.store.deleted) != 0 {
			t.Errorf("deleted = %v, want none", f.store.deleted)
		}
	})

	t.Run("missing report", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})
		id := uuid.New()

		f.mock.ExpectQuery(releaseSQL).WithArgs(id, reports.CategoryPending).WillReturnError(sql.ErrNoRows)
		f.mock.ExpectQuery(findSQL).WithArgs(id).WillReturnError(sql.ErrNoRows)

		_, err := f.sys.RemoveEvidence(context.Background(), id)
		if !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestMarkCleanTwice(t *testing.T) {
	f := newFixture(t, reports.Enrichment{})

	f.store.blobs["evidence/a.jpg"] = []byte("a")

	clean := sampleReport()
	clean.IsClean = true
	clean.RecognizedCategory = reports.CategoryCleaned

	for _, prev := range []any{"evidence/a.jpg", nil} {
		f.mock.ExpectQuery(releaseSQL + ".*" + regexp.QuoteMeta("SET is_clean = TRUE")).
			WithArgs(clean.ID, reports.CategoryCleaned).
			WillReturnRows(releasedRows(clean, prev))
	}

	for i := range 2 {
		got, err := f.sys.MarkClean(context.Background(), clean.ID)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i+1, err)
		}
		if !got.IsClean || got.ImageURL != nil || got.RecognizedCategory != reports.CategoryCleaned {
			t.Errorf("call %d: got isClean=%v imageUrl=%v category=%q", i+1, got.IsClean, got.ImageURL, got.RecognizedCategory)
		}
	}

	if len(f.store.blobs) != 0 {
		t.Error("evidence blob not deleted")
	}
	if len(f.store.deleted) != 1 {
		t.Errorf("deleted = %v, want one delete", f.store.deleted)
	}
}

func TestMarkCleanMissing(t *testing.T) {
	f := newFixture(t, reports.Enrichment{})
	id := uuid.New()

	f.mock.ExpectQuery(releaseSQL).WithArgs(id, reports.CategoryCleaned).WillReturnError(sql.ErrNoRows)

	_, err := f.sys.MarkClean(context.Background(), id)
	if !errors.Is(err, reports.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	t.Run("removes row and blob", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})

		rep := sampleReport()
		rep.EvidenceKey = ptr("evidence/a.jpg")
		rep.ImageURL = ptr("https://sweep.example.com/api/evidence/a.jpg")
		f.store.blobs["evidence/a.jpg"] = []byte("a")

		f.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM reports WHERE id = $1 RETURNING")).
			WithArgs(rep.ID).
			WillReturnRows(reportRows(rep))

		got, err := f.sys.Delete(context.Background(), rep.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != rep.ID {
			t.Errorf("id = %s, want %s", got.ID, rep.ID)
		}
		if len(f.store.blobs) != 0 {
			t.Error("evidence blob not deleted")
		}
	})

	t.Run("missing blob is tolerated", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})

		rep := sampleReport()
		rep.EvidenceKey = ptr("evidence/gone.jpg")

		f.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM reports")).WithArgs(rep.ID).WillReturnRows(reportRows(rep))

		if _, err := f.sys.Delete(context.Background(), rep.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.store.deleted) != 1 {
			t.Errorf("delete attempts = %d, want 1", len(f.store.deleted))
		}
	})

	t.Run("missing report", func(t *testing.T) {
		f := newFixture(t, reports.Enrichment{})
		id := uuid.New()

		f.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM reports")).WithArgs(id).WillReturnError(sql.ErrNoRows)

		if _, err := f.sys.Delete(context.Background(), id); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestList(t *testing.T) {
	f := newFixture(t, reports.Enrichment{})
	rep := sampleReport()

	f.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM public.reports r WHERE r.email = $1 AND r.is_clean = $2")).
		WithArgs("a@x.com", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	f.mock.ExpectQuery(regexp.QuoteMeta("WHERE r.email = $1 AND r.is_clean = $2 ORDER BY r.reported_at DESC, r.id DESC LIMIT 10 OFFSET 0")).
		WithArgs("a@x.com", false).
		WillReturnRows(reportRows(rep))

	open := false
	got, err := f.sys.List(
		context.Background(),
		pagination.PageRequest{Page: 1, PageSize: 10},
		reports.Filters{Email: ptr("a@x.com"), IsClean: &open},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Total != 1 || len(got.Data) != 1 {
		t.Fatalf("total=%d len=%d, want 1/1", got.Total, len(got.Data))
	}
	if got.Data[0].Email != "a@x.com" {
		t.Errorf("email = %q, want a@x.com", got.Data[0].Email)
	}
	if got.TotalPages != 1 {
		t.Errorf("totalPages = %d, want 1", got.TotalPages)
	}
}

func TestAll(t *testing.T) {
	f := newFixture(t, reports.Enrichment{})

	f.mock.ExpectQuery(regexp.QuoteMeta("FROM public.reports r ORDER BY r.reported_at DESC, r.id DESC")).
		WillReturnRows(reportRows(sampleReport(), sampleReport()))

	got, err := f.sys.All(context.Background(), reports.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t, reports.Enrichment{})

	f.mock.ExpectQuery(regexp.QuoteMeta("GROUP BY email")).
		WillReturnRows(sqlmock.NewRows([]string{"email", "total", "high", "medium", "low", "cleaned"}).
			AddRow("a@x.com", 5, 2, 2, 1, 3).
			AddRow("b@x.com", 1, 0, 0, 1, 0))

	got, err := f.sys.Leaderboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []reports.LeaderboardEntry{
		{Email: "a@x.com", Total: 5, High: 2, Medium: 2, Low: 1, Cleaned: 3},
		{Email: "b@x.com", Total: 1, Low: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestOpenEvidence(t *testing.T) {
	f := newFixture(t, reports.Enrichment{})
	f.store.blobs["evidence/a/b.jpg"] = []byte("jpeg")

	blob, err := f.sys.OpenEvidence(context.Background(), "evidence/a/b.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blob.Body.Close()

	for _, key := range []string{"evidence/missing.jpg", "other/a/b.jpg"} {
		if _, err := f.sys.OpenEvidence(context.Background(), key); !errors.Is(err, reports.ErrNotFound) {
			t.Errorf("OpenEvidence(%q) err = %v, want ErrNotFound", key, err)
		}
	}
}
