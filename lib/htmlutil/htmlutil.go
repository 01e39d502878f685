package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const nbsp = "\u00a0"

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CellText returns the text of a table cell with non-breaking spaces removed
// and surrounding whitespace trimmed.
func CellText(node *html.Node) string {
	text := strings.ReplaceAll(GetText(node), nbsp, "")
	return strings.Trim(text, " \t\r\n")
}

// RowCells returns the text of every element child of a table row, whitespace-only
// text nodes between cells are ignored.
func RowCells(row *goquery.Selection) []string {
	var cells []string
	for _, n := range row.Nodes {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			cells = append(cells, CellText(child))
		}
	}
	return cells
}

// FlatText returns the text of a selection with newlines removed, this is how the
// header regions of a page are compared against known strings.
func FlatText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	text := strings.ReplaceAll(buffer.String(), "\r", "")
	return strings.ReplaceAll(text, "\n", "")
}
