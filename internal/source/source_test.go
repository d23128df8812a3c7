package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/hoax-insight/pkg/types"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var articleColumns = []string{
	"id", "title", "description", "content", "author", "source_url", "status", "fact",
	"published_at", "categories", "classifications", "references",
}

// --- Postgres ---

func TestPostgresArticlesAggregatesRelations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	published := time.Date(2023, 3, 14, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT a.id").
		WillReturnRows(pgxmock.NewRows(articleColumns).
			AddRow(int64(1), "[HOAKS] Banjir Surabaya", "", "Beredar kabar banjir", "Tim Cek Fakta",
				"https://example.org/1", "published", "Faktanya video lama", &published,
				[]string{"bencana"}, []string{"hoaks", "konten menyesatkan"}, []string{"https://ref.example/a"}).
			AddRow(int64(2), "[SALAH] Pesan berantai", "", "Pesan berantai", "", "", "", "", nil,
				[]string{}, []string{}, []string{}))

	src := NewPostgresWithPool(mock)
	got, err := src.Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, []string{"bencana"}, got[0].Categories)
	assert.Equal(t, []string{"hoaks", "konten menyesatkan"}, got[0].Classifications)
	assert.Equal(t, []string{"https://ref.example/a"}, got[0].References)
	require.NotNil(t, got[0].PublishedAt)
	assert.True(t, published.Equal(*got[0].PublishedAt))

	assert.Nil(t, got[1].PublishedAt)
	assert.Empty(t, got[1].Classifications)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresArticlesQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT a.id").WillReturnError(errors.New("connection refused"))

	_, err = NewPostgresWithPool(mock).Articles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCheck(t *testing.T) {
	tests := []struct {
		name   string
		expect func(mock pgxmock.PgxPoolIface)
		want   Health
	}{
		{
			name: "healthy",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM articles`).
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))
			},
			want: Health{Status: StatusHealthy, Articles: 12},
		},
		{
			name: "empty",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM articles`).
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
			},
			want: Health{Status: StatusEmpty},
		},
		{
			name: "error",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM articles`).
					WillReturnError(errors.New("relation \"articles\" does not exist"))
			},
			want: Health{Status: StatusError},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.expect(mock)

			got := NewPostgresWithPool(mock).Check(context.Background())
			assert.Equal(t, tt.want.Status, got.Status)
			assert.Equal(t, tt.want.Articles, got.Articles)
			assert.NotEmpty(t, got.Message)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// --- File ---

const articlesYAML = `
- id: 1
  title: "[HOAKS] Banjir Surabaya"
  content: Beredar kabar banjir besar di Surabaya, Jawa Timur
  published_at: 2023-03-14T08:00:00Z
  categories: [bencana]
  classifications: [hoaks]
- id: 2
  title: "[SALAH] Pesan berantai"
  content: Pesan berantai
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileArticles(t *testing.T) {
	src := NewFile(writeFile(t, "articles.yaml", articlesYAML))
	got, err := src.Articles(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Beredar kabar banjir besar di Surabaya, Jawa Timur", got[0].Content)
	assert.Equal(t, []string{"hoaks"}, got[0].Classifications)
	require.NotNil(t, got[0].PublishedAt)
	assert.Equal(t, 2023, got[0].PublishedAt.Year())
	assert.Nil(t, got[1].PublishedAt)
}

func TestFileArticlesJSON(t *testing.T) {
	src := NewFile(writeFile(t, "articles.json", `[{"id": 5, "title": "Judul", "content": "Isi"}]`))
	got, err := src.Articles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.Article{{ID: 5, Title: "Judul", Content: "Isi"}}, got)
}

func TestFileCheck(t *testing.T) {
	assert.Equal(t, StatusHealthy, NewFile(writeFile(t, "a.yaml", articlesYAML)).Check(context.Background()).Status)
	assert.Equal(t, StatusEmpty, NewFile(writeFile(t, "b.yaml", "[]")).Check(context.Background()).Status)
	assert.Equal(t, StatusError, NewFile(filepath.Join(t.TempDir(), "missing.yaml")).Check(context.Background()).Status)
	assert.Equal(t, StatusError, NewFile(writeFile(t, "c.yaml", "id: [")).Check(context.Background()).Status)
}

// --- New ---

func TestNew(t *testing.T) {
	src, err := New(context.Background(), types.SourceConfig{Driver: types.SourceFile, Path: "articles.yaml"})
	require.NoError(t, err)
	assert.IsType(t, &File{}, src)

	_, err = New(context.Background(), types.SourceConfig{Driver: types.SourceFile})
	assert.Error(t, err)

	_, err = New(context.Background(), types.SourceConfig{Driver: types.SourcePostgres})
	assert.Error(t, err)

	_, err = New(context.Background(), types.SourceConfig{Driver: "mysql"})
	assert.Error(t, err)
}
