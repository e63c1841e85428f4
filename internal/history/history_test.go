package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/opius/internal/plan"
	"github.com/joss/opius/internal/task"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() (*task.Task, *plan.Plan) {
	tk := &task.Task{
		Description: "Build a React portfolio website",
		Category:    task.CategoryTechnical,
		Complexity:  task.Moderate,
	}
	p := &plan.Plan{
		Title: "Portfolio",
		Metadata: plan.Metadata{
			TemplateID: "technical-web-app",
			Attempts:   1,
		},
	}
	return tk, p
}

func TestRecordAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	tk, p := sampleRun()
	id, err := s.Record(ctx, tk, p, true, "# Portfolio\n")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, tk.Description, got.Description)
	assert.Equal(t, task.CategoryTechnical, got.Category)
	assert.Equal(t, task.Moderate, got.Complexity)
	assert.Equal(t, "technical-web-app", got.TemplateID)
	assert.True(t, got.Passed)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "# Portfolio\n", got.Markdown)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var nfe *NotFoundError
	require.True(t, errors.As(err, &nfe))
	assert.Equal(t, "nope", nfe.ID)
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	tk, p := sampleRun()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := s.Record(ctx, tk, p, true, "#\n")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// ULIDs are lexically time-ordered; newest first.
	assert.Equal(t, ids[2], entries[0].ID)
	assert.Equal(t, ids[0], entries[2].ID)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	tk, p := sampleRun()

	id, err := s.Record(ctx, tk, p, false, "#\n")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
