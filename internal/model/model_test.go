package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategoryID_Normalizes(t *testing.T) {
	t.Parallel()
	require.Equal(t, "helloworld", CategoryID("Hello World"))
	require.Equal(t, CategoryID("Hello World"), CategoryID("  hello   world"))
	require.Equal(t, "tab", CategoryID("\tT a\nB "))
}

func TestWordID_Lowercases(t *testing.T) {
	t.Parallel()
	require.Equal(t, WordID("Apple"), WordID("apple"))
	require.Equal(t, "apple pie", WordID("  Apple Pie "))
}

func TestPageQuery_Normalize(t *testing.T) {
	t.Parallel()

	q := PageQuery{}.Normalize()
	require.Equal(t, DefaultPageSize, q.PageSize)
	require.Equal(t, SortByCreatedAt, q.SortField)
	require.Equal(t, SortDesc, q.SortDir)

	q = PageQuery{PageSize: 1000, SearchWord: " Cat "}.Normalize()
	require.Equal(t, MaxPageSize, q.PageSize)
	require.Equal(t, "cat", q.SearchWord)
}

func TestLangAndSortValid(t *testing.T) {
	t.Parallel()
	require.True(t, LangEN.Valid())
	require.True(t, LangZH.Valid())
	require.False(t, Lang("fr").Valid())
	require.True(t, SortByWord.Valid())
	require.False(t, SortField("id").Valid())
	require.True(t, SortAsc.Valid())
	require.False(t, SortDirection("up").Valid())
}
