package tasks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func taskRows(ts ...*models.Task) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "owner_id", "description", "completed", "created_at", "updated_at"})
	for _, task := range ts {
		rows.AddRow(task.ID, task.OwnerID, task.Description, task.Completed, task.CreatedAt, task.UpdatedAt)
	}
	return rows
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+tasks\b.*RETURNING\s+created_at,\s*updated_at\s*$`).
		WithArgs("t1", "acc-1", "buy milk", false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := repo.Create(context.Background(), &models.Task{
		ID: "t1", OwnerID: "acc-1", Description: "buy milk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("expected timestamps from db, got %+v", got)
	}
}

func TestGetByID_ScopedToOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*owner_id,.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("t1", "acc-1").
		WillReturnRows(taskRows(&models.Task{
			ID: "t1", OwnerID: "acc-1", Description: "buy milk", CreatedAt: now, UpdatedAt: now,
		}))

	got, err := repo.GetByID(context.Background(), "t1", "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OwnerID != "acc-1" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

// A task owned by somebody else yields the same signal as a missing task.
func TestGetByID_OtherOwnerIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("t1", "acc-2").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "t1", "acc-2")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestListByOwner_Defaults(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+tasks\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+ASC\s*$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("acc-1").
		WillReturnRows(taskRows(
			&models.Task{ID: "t1", OwnerID: "acc-1", CreatedAt: now, UpdatedAt: now},
			&models.Task{ID: "t2", OwnerID: "acc-1", CreatedAt: now, UpdatedAt: now},
		))

	got, err := repo.ListByOwner(context.Background(), "acc-1", ListOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
}

func TestListByOwner_FilterPaginationSort(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)WHERE\s+owner_id\s*=\s*\$1\s+AND\s+completed\s*=\s*\$2\s+ORDER\s+BY\s+created_at\s+DESC\s+LIMIT\s+\$3\s+OFFSET\s+\$4`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("acc-1", true, 5, 10).
		WillReturnRows(taskRows(&models.Task{ID: "t9", OwnerID: "acc-1", Completed: true, CreatedAt: now, UpdatedAt: now}))

	completed := true
	got, err := repo.ListByOwner(context.Background(), "acc-1", ListOptions{
		Filter: ListFilter{Completed: &completed},
		Limit:  5,
		Skip:   10,
		SortBy: SortByCreatedAt,
		Desc:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t9" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestListByOwner_RejectsUnknownSortKey(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.ListByOwner(context.Background(), "acc-1", ListOptions{
		SortBy: SortKey("owner_id; DROP TABLE tasks"),
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("expected validation error for unknown sort key, got %v", err)
	}
}

func TestUpdate_ScansBackUpdatedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	dbNow := time.Now().Add(3 * time.Second)
	mock.ExpectQuery(`(?s)UPDATE\s+tasks\s+SET\s+description\s*=\s*\$3,.*WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s+RETURNING\s+updated_at`).
		WithArgs("t1", "acc-1", "buy milk", true).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(dbNow))

	task := &models.Task{ID: "t1", OwnerID: "acc-1", Description: "buy milk", Completed: true}
	if err := repo.Update(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The struct must carry the database's timestamp, not a client-side
	// approximation, so the update response agrees with a later read.
	if !task.UpdatedAt.Equal(dbNow) {
		t.Fatalf("expected updated_at from db, got %v", task.UpdatedAt)
	}
}

func TestUpdate_OtherOwnerIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)UPDATE\s+tasks\s+SET\s+description\s*=\s*\$3,.*WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("t1", "acc-2", "hijack", true).
		WillReturnError(sql.ErrNoRows)

	err := repo.Update(context.Background(), &models.Task{
		ID: "t1", OwnerID: "acc-2", Description: "hijack", Completed: true,
	})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2`).
		WithArgs("t1", "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "t1", "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteByOwner_ZeroRowsIsFine(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+tasks\s+WHERE\s+owner_id\s*=\s*\$1`).
		WithArgs("acc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByOwner(context.Background(), "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
