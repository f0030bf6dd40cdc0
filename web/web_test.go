package web

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTemplates(t *testing.T) {
	fsys, err := TemplateFS("")
	require.NoError(t, err)

	for _, name := range []string{"page.html", "conversation_card.html", "message_bubble.html"} {
		data, err := afero.ReadFile(fsys, name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "data-slot", name)
	}
}

func TestTemplateDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "message_bubble.html"), []byte(`<p data-slot="text"></p>`), 0o644))

	fsys, err := TemplateFS(dir)
	require.NoError(t, err)

	data, err := afero.ReadFile(fsys, "message_bubble.html")
	require.NoError(t, err)
	assert.Equal(t, `<p data-slot="text"></p>`, string(data))

	_, err = afero.ReadFile(fsys, "page.html")
	assert.Error(t, err)

	assert.Error(t, afero.WriteFile(fsys, "x.html", []byte("x"), 0o644))
}
