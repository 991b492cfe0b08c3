//go:build cgo

package faqrepo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "faqs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, repo.Save(context.Background(), sampleEntries()))
	got, err = repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, []string{"pw", "ship"}, []string{got[0].ID, got[1].ID})
	require.Equal(t, []string{"account"}, got[0].Tags)
	require.Equal(t, []string{}, got[1].Tags)
	require.True(t, sampleEntries()[1].UpdatedAt.Equal(got[1].UpdatedAt))

	reversed := sampleEntries()
	reversed[0], reversed[1] = reversed[1], reversed[0]
	require.NoError(t, repo.Save(context.Background(), reversed[:1]))
	got, err = repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ship", got[0].ID)
}
