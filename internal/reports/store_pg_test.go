package reports

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"recruit-backend/internal/scoring"
)

func TestPGStoreSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	report := scoring.Report{OverallScore: 84, Provider: scoring.ProviderHeuristic}

	mock.ExpectExec("INSERT INTO analysis_reports").
		WithArgs("resume-1", sqlmock.AnyArg(), scoring.ProviderHeuristic).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(context.Background(), "resume-1", report); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGetDecodesReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	raw, _ := json.Marshal(scoring.Report{OverallScore: 91, Summary: "strong"})

	mock.ExpectQuery("SELECT report").
		WithArgs("resume-1").
		WillReturnRows(sqlmock.NewRows([]string{"report"}).AddRow(raw))

	report, err := store.Get(context.Background(), "resume-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if report.OverallScore != 91 || report.Summary != "strong" {
		t.Fatalf("report = %+v", report)
	}
}

func TestPGStoreGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}

	mock.ExpectQuery("SELECT report").
		WithArgs("absent").
		WillReturnRows(sqlmock.NewRows([]string{"report"}))

	if _, err := store.Get(context.Background(), "absent"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
