package webui

import (
	"bytes"
	"testing"
)

func TestIndexIsEmbedded(t *testing.T) {
	t.Parallel()
	page := Index()
	if !bytes.Contains(page, []byte(`<pre class="highlighted-prompt"`)) {
		t.Fatal("preview element missing from index page")
	}
	if !bytes.Contains(page, []byte("/v1/styles.css")) {
		t.Fatal("stylesheet link missing from index page")
	}
}
