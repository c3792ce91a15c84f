package htmlutil

import (
	"bytes"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Missing is what an optional text or link field holds when the page leaves it blank.
const Missing = "-"

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

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

// Normalize collapses every whitespace run (newlines included) into a single
// space and trims both ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(removeNonPrintable(text)), " ")
}

// Text is the normalized text content of the selection.
func Text(sel *goquery.Selection) string {
	return Normalize(sel.Text())
}

// TextOr is Text, but blank values become the given placeholder.
func TextOr(sel *goquery.Selection, placeholder string) string {
	text := Text(sel)
	if text == "" {
		return placeholder
	}
	return text
}

// NextSiblingText returns, for each node in sel, the normalized text of the
// siblings that follow it up to the next <br> or icon (<i>). This is how the
// portal lays out "icon + value" pairs. Empty values are dropped.
func NextSiblingText(sel *goquery.Selection) []string {
	out := []string{}
	for _, n := range sel.Nodes {
		var buffer bytes.Buffer
		for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode && (sib.Data == "br" || sib.Data == "i") {
				break
			}
			getTextRecursive(sib, &buffer)
		}
		text := Normalize(buffer.String())
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

// Resolve makes href absolute against base. An empty href resolves to "".
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	link, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return link.String()
	}
	return base.ResolveReference(link).String()
}

// HrefOr returns the absolute href of the first anchor in sel, or the
// placeholder when there is no anchor or it has no href.
func HrefOr(base *url.URL, sel *goquery.Selection, placeholder string) string {
	href, ok := sel.Find("a[href]").AddBack().Filter("a[href]").First().Attr("href")
	if !ok {
		return placeholder
	}
	resolved := Resolve(base, href)
	if resolved == "" {
		return placeholder
	}
	return resolved
}
