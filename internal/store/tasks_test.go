package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"taskpilot/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTaskStore(t *testing.T) (*TaskStore, *gorm.DB) {
	t.Helper()
	db, err := OpenTaskDB(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewTaskStore(db, slog.New(slog.NewTextHandler(io.Discard, nil))), db
}

func TestTaskLifecycle(t *testing.T) {
	s, _ := newTaskStore(t)
	ctx := context.Background()

	require.True(t, s.AddTask(ctx, "alice", "buy milk", TaskOptions{}))

	tasks := s.GetUserTasks(ctx, "alice")
	require.Len(t, tasks, 1)
	require.Equal(t, "buy milk", tasks[0].Description)
	require.Equal(t, model.StatusPending, tasks[0].Status)
	require.Nil(t, tasks[0].CompletedAt)

	id := tasks[0].ID

	require.True(t, s.UpdateTaskStatus(ctx, id, model.StatusCompleted))
	tasks = s.GetUserTasks(ctx, "alice")
	require.Equal(t, model.StatusCompleted, tasks[0].Status)
	require.NotNil(t, tasks[0].CompletedAt)

	require.True(t, s.UpdateTaskStatus(ctx, id, model.StatusPending))
	tasks = s.GetUserTasks(ctx, "alice")
	require.Equal(t, model.StatusPending, tasks[0].Status)
	require.Nil(t, tasks[0].CompletedAt)

	require.True(t, s.DeleteTask(ctx, id))
	require.Empty(t, s.GetUserTasks(ctx, "alice"))
}

func TestGetUserTasks_Ordering(t *testing.T) {
	s, db := newTaskStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	rows := []model.Task{
		{Username: "alice", Description: "low old", Status: model.StatusPending, Priority: 1, CreatedAt: base},
		{Username: "alice", Description: "high old", Status: model.StatusPending, Priority: 5, CreatedAt: base},
		{Username: "alice", Description: "high new", Status: model.StatusPending, Priority: 5, CreatedAt: base.Add(10 * time.Minute)},
		{Username: "bob", Description: "not mine", Status: model.StatusPending, Priority: 9, CreatedAt: base},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	tasks := s.GetUserTasks(ctx, "alice")
	require.Len(t, tasks, 3)
	require.Equal(t, "high new", tasks[0].Description)
	require.Equal(t, "high old", tasks[1].Description)
	require.Equal(t, "low old", tasks[2].Description)
}

func TestGetUserTasks_Idempotent(t *testing.T) {
	s, _ := newTaskStore(t)
	ctx := context.Background()

	require.True(t, s.AddTask(ctx, "alice", "one", TaskOptions{Priority: 2}))
	require.True(t, s.AddTask(ctx, "alice", "two", TaskOptions{Priority: 1}))

	first := s.GetUserTasks(ctx, "alice")
	second := s.GetUserTasks(ctx, "alice")
	require.Equal(t, first, second)
}

func TestAddTask_Options(t *testing.T) {
	s, _ := newTaskStore(t)
	ctx := context.Background()

	due := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.True(t, s.AddTask(ctx, "alice", "report", TaskOptions{Priority: 3, Category: "Work", DueDate: &due}))

	tasks := s.GetUserTasks(ctx, "alice")
	require.Len(t, tasks, 1)
	require.Equal(t, 3, tasks[0].Priority)
	require.Equal(t, "Work", tasks[0].Category)
	require.NotNil(t, tasks[0].DueDate)
}

func TestUpdateTaskStatus_MissingTask(t *testing.T) {
	s, _ := newTaskStore(t)
	require.False(t, s.UpdateTaskStatus(context.Background(), 9999, model.StatusCompleted))
}

func TestDeleteTask_MissingTask(t *testing.T) {
	s, _ := newTaskStore(t)
	require.False(t, s.DeleteTask(context.Background(), 9999))
}
