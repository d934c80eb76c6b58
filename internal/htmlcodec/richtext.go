package htmlcodec

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/bb-io/notion-html/internal/models"
)

const (
	attrHref        = "href"
	attrStyle       = "data-style"
	attrMentionID   = "data-mention-id"
	attrMentionType = "data-mention-type"
)

// EncodeRun renders one rich text run as a <p> element
func EncodeRun(run models.RichText) *html.Node {
	p := &html.Node{Type: html.ElementNode, DataAtom: atom.P, Data: "p"}

	if url := run.LinkURL(); url != "" && url != "#" {
		setAttr(p, attrHref, url)
	}

	if run.Type == models.RichTextTypeMention && run.Mention != nil {
		setAttr(p, attrMentionID, run.Mention.ID)
		setAttr(p, attrMentionType, run.Mention.Type)
	} else {
		content := run.PlainText
		if run.Text != nil {
			content = run.Text.Content
		}
		if content != "" {
			p.AppendChild(&html.Node{Type: html.TextNode, Data: content})
		}
	}

	if run.Annotations != nil {
		setAttr(p, attrStyle, encodeAnnotations(*run.Annotations))
	}

	return p
}

// DecodeRun rebuilds a rich text run from an element written by EncodeRun
func DecodeRun(s *goquery.Selection) models.RichText {
	var run models.RichText

	if id, ok := s.Attr(attrMentionID); ok {
		mentionType, _ := s.Attr(attrMentionType)
		run = models.RichText{
			Type:    models.RichTextTypeMention,
			Mention: &models.Mention{Type: mentionType, ID: id},
		}
	} else {
		run = models.RichText{
			Type: models.RichTextTypeText,
			Text: &models.Text{Content: s.Text()},
		}
		if href, ok := s.Attr(attrHref); ok && href != "" && href != "#" {
			run.Text.Link = &models.Link{URL: href}
		}
	}

	if style, ok := s.Attr(attrStyle); ok {
		run.Annotations = decodeAnnotations(style)
	}

	return run
}

func encodeAnnotations(a models.Annotations) string {
	pairs := []string{
		"bold=" + strconv.FormatBool(a.Bold),
		"italic=" + strconv.FormatBool(a.Italic),
		"strikethrough=" + strconv.FormatBool(a.Strikethrough),
		"underline=" + strconv.FormatBool(a.Underline),
		"code=" + strconv.FormatBool(a.Code),
		"color=" + a.Color,
	}
	return strings.Join(pairs, ";")
}

func decodeAnnotations(style string) *models.Annotations {
	a := &models.Annotations{}
	for _, pair := range strings.Split(style, ";") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "color" {
			a.Color = value
			continue
		}
		flag, err := strconv.ParseBool(value)
		if err != nil {
			continue
		}
		switch key {
		case "bold":
			a.Bold = flag
		case "italic":
			a.Italic = flag
		case "strikethrough":
			a.Strikethrough = flag
		case "underline":
			a.Underline = flag
		case "code":
			a.Code = flag
		}
	}
	return a
}

func setAttr(n *html.Node, key, value string) {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}
