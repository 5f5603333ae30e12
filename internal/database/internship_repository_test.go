package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/easyinterns/internal/database"
	"github.com/jonesrussell/easyinterns/internal/domain"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

// internshipColumns lists the columns returned by internship SELECT queries.
var internshipColumns = []string{
	"key", "source", "company", "title", "location", "apply_url", "description",
	"posted_at", "deadline", "remote", "modality", "field_tag", "external_id",
	"salary_min", "salary_max", "government", "tags", "relevance_score",
	"is_active", "first_seen_at", "last_seen_at", "last_checked_at", "created_at",
}

func newInternshipRepo(t *testing.T) (*database.InternshipRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db := sqlx.NewDb(mockDB, "postgres")
	repo := database.NewInternshipRepository(db, logger.NewNoOp())

	return repo, mock, func() { mockDB.Close() }
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func sampleInternship(now time.Time) domain.Internship {
	return domain.Internship{
		Key:           domain.IdentityKey("Acme", "Software Intern", "https://example.com/1"),
		Source:        "greenhouse",
		Company:       "Acme",
		Title:         "Software Intern",
		Location:      "Toronto, ON",
		ApplyURL:      "https://example.com/1",
		Modality:      domain.ModalityOnsite,
		FieldTag:      domain.FieldSoftwareEngineering,
		IsActive:      true,
		FirstSeenAt:   now,
		LastSeenAt:    now,
		LastCheckedAt: now,
	}
}

func TestInternshipRepository_UpsertBatch(t *testing.T) {
	repo, mock, cleanup := newInternshipRepo(t)
	defer cleanup()

	now := time.Now()
	rows := []domain.Internship{sampleInternship(now)}

	mock.ExpectExec("INSERT INTO internships").
		WillReturnResult(sqlmock.NewResult(0, 1))

	written, err := repo.UpsertBatch(context.Background(), rows)
	if err != nil {
		t.Fatalf("UpsertBatch() error = %v", err)
	}
	if written != 1 {
		t.Errorf("expected 1 row written, got %d", written)
	}

	expectationsMet(t, mock)
}

func TestInternshipRepository_UpsertBatch_SkipsFailingRow(t *testing.T) {
	repo, mock, cleanup := newInternshipRepo(t)
	defer cleanup()

	now := time.Now()
	bad := sampleInternship(now)
	good := sampleInternship(now)
	good.Key = domain.IdentityKey("Globex", "Data Intern", "https://example.com/2")
	good.Company = "Globex"

	mock.ExpectExec("INSERT INTO internships").
		WillReturnError(errors.New("value too long"))
	mock.ExpectExec("INSERT INTO internships").
		WillReturnResult(sqlmock.NewResult(0, 1))

	written, err := repo.UpsertBatch(context.Background(), []domain.Internship{bad, good})
	if err != nil {
		t.Fatalf("UpsertBatch() error = %v", err)
	}
	if written != 1 {
		t.Errorf("expected 1 row written, got %d", written)
	}

	expectationsMet(t, mock)
}

func TestInternshipRepository_UpsertBatch_AllFail(t *testing.T) {
	repo, mock, cleanup := newInternshipRepo(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO internships").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.UpsertBatch(context.Background(), []domain.Internship{sampleInternship(time.Now())})
	if err == nil {
		t.Fatal("expected error when every upsert fails")
	}

	expectationsMet(t, mock)
}

func TestInternshipRepository_GetByKey_NotFound(t *testing.T) {
	repo, mock, cleanup := newInternshipRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM internships WHERE key").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(internshipColumns))

	_, err := repo.GetByKey(context.Background(), "missing")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestInternshipRepository_Search(t *testing.T) {
	repo, mock, cleanup := newInternshipRepo(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("greenhouse").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .+ FROM internships").
		WithArgs("greenhouse", 50, 0).
		WillReturnRows(sqlmock.NewRows(internshipColumns).AddRow(
			"acme|software intern|https://example.com/1", "greenhouse", "Acme",
			"Software Intern", "Toronto, ON", "https://example.com/1", "",
			now, nil, false, "onsite", "software_engineering", "",
			nil, nil, false, nil, 0.8, true, now, now, now, now,
		))

	rows, total, err := repo.Search(context.Background(), database.Filter{Source: "greenhouse"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if total != 1 {
		t.Errorf("expected total=1, got %d", total)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Company != "Acme" {
		t.Errorf("expected Company=Acme, got %s", rows[0].Company)
	}

	expectationsMet(t, mock)
}

func TestInternshipRepository_MarkInactive(t *testing.T) {
	repo, mock, cleanup := newInternshipRepo(t)
	defer cleanup()

	cutoff := time.Now().AddDate(0, 0, -14)
	mock.ExpectExec("UPDATE internships SET is_active").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkInactive(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("MarkInactive() error = %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 rows retired, got %d", n)
	}

	expectationsMet(t, mock)
}
