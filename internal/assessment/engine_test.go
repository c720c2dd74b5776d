package assessment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	qs := Questions()
	require.Len(t, qs, 5)
	for _, q := range qs {
		require.Len(t, q.Options, 5)
		require.Equal(t, "a", q.Options[0].ID)
		require.Equal(t, 5, q.Options[0].Score)
		require.Equal(t, "e", q.Options[4].ID)
		require.Equal(t, 1, q.Options[4].Score)
	}
}

func TestEngineCompletes(t *testing.T) {
	e := NewEngine()
	picks := []string{"a", "b", "c", "d", "e"}
	for i, id := range picks {
		idx, total := e.Progress()
		require.Equal(t, i, idx)
		require.Equal(t, 5, total)
		require.NoError(t, e.Answer(id))
	}

	require.Equal(t, StatusComplete, e.Status())
	results := e.Results()
	require.Len(t, results, 5)
	require.Equal(t, Results{
		"Leadership":      5,
		"Public Speaking": 4,
		"Problem Solving": 3,
		"Time Management": 2,
		"Teamwork":        1,
	}, results)

	require.ErrorIs(t, e.Answer("a"), ErrComplete)
	require.Len(t, e.Answers(), 5)
	require.ErrorIs(t, e.Skip(), ErrComplete)
	_, ok := e.Current()
	require.False(t, ok)
}

func TestEngineSkip(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Answer("a"))
	require.NoError(t, e.Answer("b"))
	idx, _ := e.Progress()
	require.Equal(t, 2, idx)

	require.NoError(t, e.Skip())
	require.Equal(t, StatusSkipped, e.Status())
	require.Nil(t, e.Results())

	require.ErrorIs(t, e.Answer("c"), ErrSkipped)
	require.Len(t, e.Answers(), 2)
}

func TestEngineUnknownOption(t *testing.T) {
	e := NewEngine()
	require.ErrorIs(t, e.Answer("z"), ErrUnknownOption)
	require.Empty(t, e.Answers())
	q, ok := e.Current()
	require.True(t, ok)
	require.Equal(t, "Leadership", q.Skill)
}

func TestEngineLastWriteWins(t *testing.T) {
	qs := []Question{
		{ID: 1, Skill: "Leadership", Options: options("x", "y")},
		{ID: 2, Skill: "Leadership", Options: options("x", "y")},
	}
	e := newEngine(qs)
	require.NoError(t, e.Answer("a"))
	require.NoError(t, e.Answer("b"))
	require.Equal(t, Results{"Leadership": 1}, e.Results())
}

func TestFormatResults(t *testing.T) {
	got := FormatResults(Results{"Teamwork": 4, "Leadership": 5})
	require.Contains(t, got, "Here are your results:\n\nLeadership: 5/5\nTeamwork: 4/5\n\nBased on these results")
}
