package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<td><span>GPT</span>-<b>4o</b></td>`,
	))
	require.NoError(t, err)
	require.Equal(t, "GPT-4o", GetText(doc))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "1445 +5/-6", CleanText("  1445\n\t  +5/-6  "))
	require.Equal(t, "abc", CleanText("abc"))
}
