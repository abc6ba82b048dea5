package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextStripsMarkup(t *testing.T) {
	assert.Equal(t, "oi", Text("<script>alert(1)</script>oi"))
	assert.Equal(t, "bold", Text("<b>bold</b>"))
}

func TestTextTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "Ana", Text("  Ana \n"))
}

func TestTextPlainPassesThrough(t *testing.T) {
	assert.Equal(t, "tudo bem?", Text("tudo bem?"))
}
