package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestRowCells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
<table><tr id="row">
	<td>&nbsp;Linares&nbsp;Open</td>
	<td> ESP </td>
	<td><b>6.5</b></td>
</tr></table>`))
	require.NoError(t, err)

	cells := RowCells(doc.Find("#row"))
	require.Equal(t, []string{"LinaresOpen", "ESP", "6.5"}, cells)
}

func TestFlatText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<div id=\"a\">\nIndividual\nCalculations\r\n</div>",
	))
	require.NoError(t, err)

	require.Equal(t, "IndividualCalculations", FlatText(doc.Find("#a")))
}
