package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulestack/rulestack/internal/rule"
)

func doc(id string, prio int, source rule.Source) rule.Document {
	return rule.Document{
		Identifier: id,
		Priority:   prio,
		Source:     source,
		Body:       "body of " + id,
	}
}

func TestAddAndGet(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))

	got, ok := s.Get("100-a.rule")
	require.True(t, ok)
	assert.Equal(t, "body of 100-a.rule", got.Body)
	assert.Equal(t, 1, s.Len())
}

func TestAddStrictDuplicateFails(t *testing.T) {
	s := New(Options{Strict: true})
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))

	err := s.Add(doc("100-a.rule", 100, rule.SourceRemote))
	require.Error(t, err)
	assert.True(t, rule.IsKind(err, rule.KindDuplicateIdentifier))
}

func TestAddNonStrictLastWins(t *testing.T) {
	s := New(Options{})
	first := doc("100-a.rule", 100, rule.SourceRemote)
	second := doc("100-a.rule", 100, rule.SourceRemote)
	second.Body = "replacement"

	require.NoError(t, s.Add(first))
	require.NoError(t, s.Add(second))

	got, _ := s.Get("100-a.rule")
	assert.Equal(t, "replacement", got.Body)
	assert.Equal(t, 1, s.Len())
}

func TestReplaceBypassesStrict(t *testing.T) {
	s := New(Options{Strict: true})
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))

	replacement := doc("100-a.rule", 100, rule.SourceRemote)
	replacement.Body = "explicit replace"
	s.Replace(replacement)

	got, _ := s.Get("100-a.rule")
	assert.Equal(t, "explicit replace", got.Body)
}

func TestLocalShadowsRemoteEitherOrder(t *testing.T) {
	// Local added second.
	s := New(Options{Strict: true})
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceLocal)))
	got, _ := s.Get("100-a.rule")
	assert.Equal(t, rule.SourceLocal, got.Source)

	// Local added first.
	s = New(Options{Strict: true})
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceLocal)))
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))
	got, _ = s.Get("100-a.rule")
	assert.Equal(t, rule.SourceLocal, got.Source)
	assert.Equal(t, 1, s.Len())
}

func TestRemoveIdempotent(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))

	s.Remove("100-a.rule")
	assert.Equal(t, 0, s.Len())

	// Removing again must not panic or error.
	s.Remove("100-a.rule")
	s.Remove("never-existed.rule")
	assert.Equal(t, 0, s.Len())
}

func TestListOrder(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Add(doc("100-b.rule", 100, rule.SourceRemote)))
	require.NoError(t, s.Add(doc("200-c.rule", 200, rule.SourceRemote)))
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))
	unprefixed := doc("aaa.md", rule.UnprefixedPriority, rule.SourceRemote)
	require.NoError(t, s.Add(unprefixed))

	var ids []string
	for d := range s.List("") {
		ids = append(ids, d.Identifier)
	}
	assert.Equal(t, []string{"100-a.rule", "100-b.rule", "200-c.rule", "aaa.md"}, ids)
}

func TestListScopeFilter(t *testing.T) {
	s := New(Options{})
	css := doc("100-css.md", 100, rule.SourceRemote)
	css.Scopes = []string{"*.css"}
	js := doc("200-js.md", 200, rule.SourceRemote)
	js.Scopes = []string{"*.js"}
	global := doc("000-global.md", 0, rule.SourceRemote)
	global.AlwaysApply = true
	require.NoError(t, s.Add(css))
	require.NoError(t, s.Add(js))
	require.NoError(t, s.Add(global))

	var ids []string
	for d := range s.List("app.css") {
		ids = append(ids, d.Identifier)
	}
	assert.Equal(t, []string{"000-global.md", "100-css.md"}, ids)
}

func TestListRestartable(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.Add(doc("100-a.rule", 100, rule.SourceRemote)))
	require.NoError(t, s.Add(doc("200-b.rule", 200, rule.SourceRemote)))

	seq := s.List("")

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, 2, count())
	assert.Equal(t, 2, count(), "sequence can be ranged again")

	// Early break must not poison later iteration.
	for range seq {
		break
	}
	assert.Equal(t, 2, count())
}
