//go:build unit

package patcher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/sourcepatch/internal/patcher"
)

func TestFindBlockEnd(t *testing.T) {
	t.Parallel()

	t.Run("should ignore braces and quotes inside single-quoted strings", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{ input: '}"', output: { dir: 'out' } } rest`

		// when
		end, ok := patcher.FindBlockEnd(text, 0)

		// then
		assert.True(t, ok)
		assert.Equal(t, strings.Index(text, " rest")-1, end)
	})

	t.Run("should ignore braces inside template literals", func(t *testing.T) {
		t.Parallel()

		// given
		text := "{ banner: `/* } */`, x: \"{\" } rest"

		// when
		end, ok := patcher.FindBlockEnd(text, 0)

		// then
		assert.True(t, ok)
		assert.Equal(t, strings.Index(text, " rest")-1, end)
	})
}

func TestFindObjectEnd(t *testing.T) {
	t.Parallel()

	t.Run("should ignore a brace right after an escaped quote inside a string", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"a": "x\"}y", "b": 1}`

		// when
		end, ok := patcher.FindObjectEnd(text, 0)

		// then
		assert.True(t, ok)
		assert.Equal(t, len(text)-1, end)
	})

	t.Run("should match nested objects", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"a": {"b": {"c": "}"}}, "d": {}} trailing`

		// when
		end, ok := patcher.FindObjectEnd(text, 0)

		// then
		assert.True(t, ok)
		assert.Equal(t, strings.Index(text, " trailing")-1, end)
	})

	t.Run("should start from an inner object", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"outer": {"inner": 1}, "x": 2}`
		start := strings.Index(text, `{"inner"`)

		// when
		end, ok := patcher.FindObjectEnd(text, start)

		// then
		assert.True(t, ok)
		assert.Equal(t, strings.Index(text, "}, "), end)
	})

	t.Run("should report not found when the text ends first", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"a": {"b": 1}`

		// when
		_, ok := patcher.FindObjectEnd(text, 0)

		// then
		assert.False(t, ok)
	})

	t.Run("should report not found when start is not an opening brace", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"a": 1}`

		// when
		_, ok := patcher.FindObjectEnd(text, 1)

		// then
		assert.False(t, ok)
	})
}

func TestDepthAt(t *testing.T) {
	t.Parallel()

	t.Run("should count only structural braces", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"a": "{{", "b": {"c": 1}}`

		// when
		top := patcher.DepthAt(text, strings.Index(text, `"b"`))
		nested := patcher.DepthAt(text, strings.Index(text, `"c"`))

		// then
		assert.Equal(t, 1, top)
		assert.Equal(t, 2, nested)
	})
}

func TestOutsideString(t *testing.T) {
	t.Parallel()

	t.Run("should tell string content from keys", func(t *testing.T) {
		t.Parallel()

		// given
		text := `{"note": "dependencies", "dependencies": {}}`

		// when
		inValue := patcher.OutsideString(text, strings.Index(text, "dependencies"))
		asKey := patcher.OutsideString(text, strings.Index(text, `"dependencies":`))

		// then
		assert.False(t, inValue)
		assert.True(t, asKey)
	})
}
