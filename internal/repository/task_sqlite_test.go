package repository

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"task_manager/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

const testTaskID = "65f0c0ffee65f0c0ffee00aa"

func newMockTaskRepo(t *testing.T) (*TaskSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return NewTaskSQLite(db), mock, cleanup
}

func taskColumns() []string {
	return []string{"id", "title", "description", "due_date", "priority", "status", "assigned_to", "created_by", "created_at", "updated_at"}
}

func sampleTask() *models.Task {
	ts := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	return &models.Task{
		ID:          testTaskID,
		Title:       "Write report",
		Description: "Quarterly numbers",
		DueDate:     time.Date(2025, time.March, 5, 17, 30, 0, 0, time.FixedZone("UTC+2", 2*3600)),
		Priority:    models.PriorityHigh,
		Status:      "todo",
		AssignedTo:  "alice",
		CreatedBy:   testUserID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func TestTaskSQLite_Create_StoresUTCText(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(testTaskID, "Write report", "Quarterly numbers",
			"2025-03-05T15:30:00.000Z", // 17:30 +02 -> 15:30Z
			"high", "todo", "alice", testUserID, testStamp, testStamp).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), sampleTask()); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestTaskSQLite_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock, cleanup := newMockTaskRepo(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
			WithArgs(testTaskID).
			WillReturnRows(sqlmock.NewRows(taskColumns()).AddRow(
				testTaskID, "Write report", "Quarterly numbers", "2025-03-05T15:30:00.000Z",
				"high", "todo", "alice", testUserID, testStamp, testStamp))

		got, err := repo.GetByID(context.Background(), testTaskID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got == nil || got.AssignedTo != "alice" || got.CreatedBy != testUserID {
			t.Fatalf("unexpected task: %+v", got)
		}
		if !got.DueDate.Equal(time.Date(2025, time.March, 5, 15, 30, 0, 0, time.UTC)) {
			t.Fatalf("unexpected due date: %v", got.DueDate)
		}
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, cleanup := newMockTaskRepo(t)
		defer cleanup()

		mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
			WithArgs(testTaskID).
			WillReturnRows(sqlmock.NewRows(taskColumns()))

		got, err := repo.GetByID(context.Background(), testTaskID)
		if err != nil || got != nil {
			t.Fatalf("expected (nil, nil), got (%+v, %v)", got, err)
		}
	})
}

func TestTaskSQLite_ReplaceAndDelete_ReportExistence(t *testing.T) {
	cases := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"existing", 1, true},
		{"missing", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, cleanup := newMockTaskRepo(t)
			defer cleanup()

			task := sampleTask()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET")).
				WithArgs(task.Title, task.Description, "2025-03-05T15:30:00.000Z", task.Priority, task.Status,
					task.AssignedTo, task.CreatedBy, testStamp, task.ID).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))
			mock.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
				WithArgs(task.ID).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			ok, err := repo.Replace(context.Background(), task)
			if err != nil || ok != tc.want {
				t.Fatalf("Replace = (%v, %v), want (%v, nil)", ok, err, tc.want)
			}
			ok, err = repo.Delete(context.Background(), task.ID)
			if err != nil || ok != tc.want {
				t.Fatalf("Delete = (%v, %v), want (%v, nil)", ok, err, tc.want)
			}
		})
	}
}

func TestTaskSQLite_Delete_ExecError(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).WillReturnError(errors.New("locked"))

	if _, err := repo.Delete(context.Background(), testTaskID); err == nil || !strings.Contains(err.Error(), "delete task") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestBuildTaskQuery(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		filter    TaskFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "no filter",
			filter:    TaskFilter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "created by",
			filter:    TaskFilter{CreatedBy: testUserID},
			wantWhere: " WHERE created_by = ?",
			wantArgs:  []any{testUserID},
		},
		{
			name:      "overdue",
			filter:    TaskFilter{AssignedTo: "alice", DueBefore: now, ExcludeStatus: models.StatusDone},
			wantWhere: " WHERE assigned_to = ? AND due_date < ? AND status <> ?",
			wantArgs:  []any{"alice", "2025-03-10T12:00:00.000Z", "done"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, args := buildTaskQuery(tc.filter)
			want := selectTaskColumnsSQL + tc.wantWhere + " ORDER BY created_at ASC, id ASC"
			if q != want {
				t.Fatalf("query:\n got %q\nwant %q", q, want)
			}
			if !reflect.DeepEqual(args, tc.wantArgs) {
				t.Fatalf("args: got %v, want %v", args, tc.wantArgs)
			}
		})
	}
}

func TestTaskSQLite_List_ScanError(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectTaskColumnsSQL)).
		WillReturnRows(sqlmock.NewRows(taskColumns()).AddRow(
			testTaskID, "t", "d", "not-a-time", "low", "todo", "alice", testUserID, testStamp, testStamp))

	if _, err := repo.List(context.Background(), TaskFilter{}); err == nil || !strings.Contains(err.Error(), "scan task") {
		t.Fatalf("expected scan error, got %v", err)
	}
}
