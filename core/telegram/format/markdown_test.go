package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeMarkdownV2(t *testing.T) {
	got, err := EscapeMarkdown("¡Hola! Escribe 'Hola' para empezar.", MarkdownV2)
	require.NoError(t, err)
	require.Equal(t, `¡Hola\! Escribe 'Hola' para empezar\.`, got)
}

func TestEscapeMarkdownV1(t *testing.T) {
	got, err := EscapeMarkdown("a_b*c[d`e", MarkdownV1)
	require.NoError(t, err)
	require.Equal(t, "a\\_b\\*c\\[d\\`e", got)
}

func TestEscapeMarkdownUnsupportedVersion(t *testing.T) {
	_, err := EscapeMarkdown("x", 3)
	require.Error(t, err)
}
