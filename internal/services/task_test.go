package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/testutil"
)

func registerOwner(t *testing.T) uint {
	t.Helper()
	return testutil.RegisterUser(t, "Owner", "owner@x.com", "secret1").User.ID
}

func TestCreateTaskDefaultsToTodo(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	task, err := services.CreateTask(ownerID, services.CreateTaskInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if task.Status != models.TaskStatusTodo {
		t.Errorf("status = %q, want %q", task.Status, models.TaskStatusTodo)
	}

	if task.OwnerID != ownerID {
		t.Errorf("owner = %d, want %d", task.OwnerID, ownerID)
	}

	if task.ID == 0 {
		t.Error("no ID assigned")
	}

	if task.CreatedAt.IsZero() {
		t.Error("no creation timestamp assigned")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	tests := []struct {
		name  string
		input services.CreateTaskInput
	}{
		{
			name:  "title too short",
			input: services.CreateTaskInput{Title: "ab"},
		},
		{
			name:  "title empty",
			input: services.CreateTaskInput{Title: "   "},
		},
		{
			name:  "title too long",
			input: services.CreateTaskInput{Title: strings.Repeat("x", 256)},
		},
		{
			name:  "unknown status",
			input: services.CreateTaskInput{Title: "Valid title", Status: "Done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.CreateTask(ownerID, tt.input)

			var validationErr *apperrors.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("CreateTask() error = %v, want ValidationError", err)
			}
		})
	}

	var count int64
	db.DB.Model(&models.Task{}).Where("owner_id = ?", ownerID).Count(&count)

	if count != 0 {
		t.Errorf("tasks persisted by failed creates = %d, want 0", count)
	}
}

func TestCreateTaskExplicitStatus(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	for _, status := range models.TaskStatuses {
		task, err := services.CreateTask(ownerID, services.CreateTaskInput{
			Title:  "Task in " + status,
			Status: status,
		})
		if err != nil {
			t.Fatalf("create with status %q: %v", status, err)
		}
		if task.Status != status {
			t.Errorf("status = %q, want %q", task.Status, status)
		}
	}
}

func TestListTasksNewestFirst(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	titles := []string{"oldest task", "middle task", "newest task"}
	base := time.Now().Add(-time.Hour)

	for i, title := range titles {
		task, err := services.CreateTask(ownerID, services.CreateTaskInput{Title: title})
		if err != nil {
			t.Fatalf("create %q: %v", title, err)
		}

		// Spread creation times a minute apart so the order is unambiguous.
		createdAt := base.Add(time.Duration(i) * time.Minute)
		if err := db.DB.Model(&models.Task{}).Where("id = ?", task.ID).Update("created_at", createdAt).Error; err != nil {
			t.Fatalf("backdate task: %v", err)
		}
	}

	tasks, err := services.ListTasks(ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}

	want := []string{"newest task", "middle task", "oldest task"}
	for i, task := range tasks {
		if task.Title != want[i] {
			t.Errorf("tasks[%d].Title = %q, want %q", i, task.Title, want[i])
		}
	}
}

func TestListTasksEmpty(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	tasks, err := services.ListTasks(ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(tasks) != 0 {
		t.Errorf("len = %d, want 0", len(tasks))
	}
}

func TestTaskStatsSumMatchesList(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	plan := map[string]int{
		models.TaskStatusTodo:       3,
		models.TaskStatusInProgress: 2,
	}

	for status, n := range plan {
		for i := 0; i < n; i++ {
			if _, err := services.CreateTask(ownerID, services.CreateTaskInput{
				Title:  "A task",
				Status: status,
			}); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
	}

	stats, err := services.TaskStatsFor(ownerID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Todo != 3 || stats.InProgress != 2 || stats.Completed != 0 {
		t.Errorf("stats = %+v, want Todo:3 InProgress:2 Completed:0", stats)
	}

	tasks, err := services.ListTasks(ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if sum := stats.Todo + stats.InProgress + stats.Completed; sum != int64(len(tasks)) {
		t.Errorf("stats sum = %d, list length = %d", sum, len(tasks))
	}
}

func TestOwnershipIsolation(t *testing.T) {
	testutil.SetupDB(t)

	alice := testutil.RegisterUser(t, "Alice", "alice@x.com", "secret1")
	bob := testutil.RegisterUser(t, "Bob", "bob@x.com", "secret2")

	task, err := services.CreateTask(alice.User.ID, services.CreateTaskInput{Title: "Alice's task"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tasks, err := services.ListTasks(bob.User.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("bob sees %d of alice's tasks", len(tasks))
	}

	stats, err := services.TaskStatsFor(bob.User.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Todo+stats.InProgress+stats.Completed != 0 {
		t.Errorf("bob's stats count alice's tasks: %+v", stats)
	}

	// Guessing the ID reports not-found, never forbidden.
	newTitle := "Hijacked"
	_, err = services.UpdateTask(bob.User.ID, task.ID, services.UpdateTaskInput{Title: &newTitle})

	var notFoundErr *apperrors.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("update of foreign task error = %v, want NotFoundError", err)
	}

	err = services.DeleteTask(bob.User.ID, task.ID)
	if !errors.As(err, &notFoundErr) {
		t.Errorf("delete of foreign task error = %v, want NotFoundError", err)
	}

	// The task is untouched.
	stored, err := services.UpdateTask(alice.User.ID, task.ID, services.UpdateTaskInput{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if stored.Title != "Alice's task" {
		t.Errorf("title = %q after foreign update attempt", stored.Title)
	}
}

func TestUpdateTaskRoundTrip(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	task, err := services.CreateTask(ownerID, services.CreateTaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := models.TaskStatusCompleted
	updated, err := services.UpdateTask(ownerID, task.ID, services.UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Status != models.TaskStatusCompleted {
		t.Errorf("status = %q, want Completed", updated.Status)
	}

	if updated.Title != "Buy milk" {
		t.Errorf("title = %q, want unchanged", updated.Title)
	}

	tasks, err := services.ListTasks(ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(tasks) != 1 || tasks[0].Status != models.TaskStatusCompleted || tasks[0].Title != "Buy milk" {
		t.Errorf("stored task = %+v, want Completed/Buy milk", tasks[0])
	}
}

func TestUpdateTaskInvalidTitleLeavesTaskUnchanged(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	task, err := services.CreateTask(ownerID, services.CreateTaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	short := "ab"
	_, err = services.UpdateTask(ownerID, task.ID, services.UpdateTaskInput{Title: &short})

	var validationErr *apperrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("update error = %v, want ValidationError", err)
	}

	var stored models.Task
	if err := db.DB.First(&stored, task.ID).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if stored.Title != "Buy milk" {
		t.Errorf("title = %q, want unchanged", stored.Title)
	}
}

func TestUpdateTaskArbitraryTransitions(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	task, err := services.CreateTask(ownerID, services.CreateTaskInput{
		Title:  "Jump around",
		Status: models.TaskStatusCompleted,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The service accepts any transition, including Completed straight
	// back to Todo.
	status := models.TaskStatusTodo
	updated, err := services.UpdateTask(ownerID, task.ID, services.UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Status != models.TaskStatusTodo {
		t.Errorf("status = %q, want Todo", updated.Status)
	}
}

func TestUpdateTaskLastWriteWinsPerField(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	task, err := services.CreateTask(ownerID, services.CreateTaskInput{Title: "Original title"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Two sessions updating different fields both land; there is no
	// optimistic-concurrency token.
	title := "Renamed title"
	if _, err := services.UpdateTask(ownerID, task.ID, services.UpdateTaskInput{Title: &title}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	status := models.TaskStatusInProgress
	updated, err := services.UpdateTask(ownerID, task.ID, services.UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if updated.Title != "Renamed title" || updated.Status != models.TaskStatusInProgress {
		t.Errorf("task = %q/%q, want both updates applied", updated.Title, updated.Status)
	}
}

func TestDeleteTaskTwice(t *testing.T) {
	testutil.SetupDB(t)
	ownerID := registerOwner(t)

	task, err := services.CreateTask(ownerID, services.CreateTaskInput{Title: "Ephemeral"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := services.DeleteTask(ownerID, task.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	err = services.DeleteTask(ownerID, task.ID)

	var notFoundErr *apperrors.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("second delete error = %v, want NotFoundError", err)
	}
}
