package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ogonek-app/backend/internal/apperror"
)

func newMockRepo(t *testing.T) (TaskRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskRepository(db), mock
}

func taskRows(tasks ...*Task) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "title", "content", "priority", "completed", "due_date",
		"file_id", "assignee_id", "created_at", "updated_at",
	})
	for _, task := range tasks {
		rows.AddRow(task.ID, task.Title, task.Content, task.Priority, task.Completed,
			task.DueDate, task.FileID, task.AssigneeID, task.CreatedAt, task.UpdatedAt)
	}
	return rows
}

func sampleTask() *Task {
	now := time.Now().UTC()
	return &Task{
		ID:         "01J8ZK3V9XPQR5T7W2Y4A6C8E0",
		Title:      "irregular verbs",
		Content:    "review past tense forms",
		Priority:   2,
		AssigneeID: "user-1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestFindByID_BindsAssignee(t *testing.T) {
	repo, mock := newMockRepo(t)
	task := sampleTask()

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE id = \? AND assignee_id = \?`).
		WithArgs(task.ID, "user-1").
		WillReturnRows(taskRows(task))

	got, err := repo.FindByID(context.Background(), "user-1", task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != task.Title {
		t.Errorf("expected %q, got %q", task.Title, got.Title)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// A task owned by someone else matches zero rows, which must surface as
// NotFound -- exactly like a task that does not exist.
func TestFindByID_OtherUsersTaskIsInvisible(t *testing.T) {
	repo, mock := newMockRepo(t)
	task := sampleTask()

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE id = \? AND assignee_id = \?`).
		WithArgs(task.ID, "user-2").
		WillReturnRows(taskRows())

	_, err := repo.FindByID(context.Background(), "user-2", task.ID)
	if !apperror.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestList_BindsAssignee(t *testing.T) {
	repo, mock := newMockRepo(t)
	task := sampleTask()

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE assignee_id = \?`).
		WithArgs("user-1").
		WillReturnRows(taskRows(task))

	tasks, err := repo.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != task.ID {
		t.Errorf("unexpected result: %+v", tasks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestList_EmptyForNewUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM tasks WHERE assignee_id = \?`).
		WithArgs("user-1").
		WillReturnRows(taskRows())

	tasks, err := repo.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	task := sampleTask()

	mock.ExpectExec(`INSERT INTO tasks`).
		WithArgs(task.ID, task.Title, task.Content, task.Priority, task.Completed,
			task.DueDate, task.FileID, task.AssigneeID, task.CreatedAt, task.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newMockRepo(t)
	task := sampleTask()

	mock.ExpectExec(`INSERT INTO tasks`).
		WillReturnError(errors.New("connection lost"))

	if err := repo.Create(context.Background(), task); err == nil {
		t.Fatal("expected an error")
	}
}

func TestUpdate_ZeroRowsIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	task := sampleTask()
	task.AssigneeID = "user-2"

	mock.ExpectExec(`UPDATE tasks SET .+ WHERE id = \? AND assignee_id = \?`).
		WithArgs(task.Title, task.Content, task.Priority, task.DueDate, task.FileID,
			task.ID, "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), task)
	if !apperror.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestSetCompleted_BindsAssignee(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE tasks SET completed = \?, updated_at = NOW\(\) WHERE id = \? AND assignee_id = \?`).
		WithArgs(true, "task-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetCompleted(context.Background(), "user-1", "task-1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFileExists_BindsAssignee(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM files WHERE id = \? AND assignee_id = \?\)`).
		WithArgs("file-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.FileExists(context.Background(), "user-1", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected the owned file to exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFileExists_FalseForForeignFile(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM files WHERE id = \? AND assignee_id = \?\)`).
		WithArgs("file-1", "user-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.FileExists(context.Background(), "user-2", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("a file owned by someone else must not resolve")
	}
}

func TestDelete_OtherUsersTaskIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM tasks WHERE id = \? AND assignee_id = \?`).
		WithArgs("task-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "user-2", "task-1")
	if !apperror.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}
