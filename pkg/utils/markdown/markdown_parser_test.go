package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/extension"
)

func TestParseMD(t *testing.T) {
	t.Parallel()

	out, err := ParseMD("**bold**")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>bold</strong>")

	out, err = ParseMD("line one\nline two")
	require.NoError(t, err)
	assert.Contains(t, out, "<br")
}

func TestParseMD_NoRawHTML(t *testing.T) {
	t.Parallel()

	out, err := ParseMD("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestParseMD_HeadingIDs(t *testing.T) {
	t.Parallel()

	out, err := ParseMD("# Hello World")
	require.NoError(t, err)
	assert.Contains(t, out, `id="hello-world"`)
}

func TestNew_ExtraExtensions(t *testing.T) {
	t.Parallel()

	const src = "Claim[^1]\n\n[^1]: Source."

	plain, err := New().Parse(src)
	require.NoError(t, err)
	assert.NotContains(t, plain, "footnote-ref")

	withNotes, err := New(extension.Footnote).Parse(src)
	require.NoError(t, err)
	assert.Contains(t, withNotes, "footnote-ref")
	assert.Contains(t, withNotes, "Source.")
}
