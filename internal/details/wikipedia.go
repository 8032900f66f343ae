// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package details

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/DervinEvolve/ArtHistoryNavigator/internal/sources"
	"github.com/DervinEvolve/ArtHistoryNavigator/internal/upstream"
)

// wikipediaNoise lists article elements removed before conversion.
var wikipediaNoise = []string{
	"script",
	"style",
	".reference",
	".mw-editsection",
	"table.infobox",
	".navbox",
}

func newMarkdownConverter() *md.Converter {
	return md.NewConverter("", true, nil)
}

type wikipediaLookup struct {
	baseURL   string
	endpoint  *upstream.Endpoint
	converter *md.Converter
}

func (l *wikipediaLookup) lookup(ctx context.Context, id string) (*Detail, error) {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: wikipedia page id must be numeric", ErrNotFound)
	}

	reqURL, err := upstream.NewRequest(l.baseURL).
		Set("action", "parse").
		Set("pageid", id).
		Set("format", "json").
		URL()
	if err != nil {
		return nil, err
	}

	body, err := l.endpoint.Fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	title, html, err := parseWikipediaPage(body)
	if err != nil {
		return nil, err
	}

	summary, markdown, err := renderArticle(l.converter, html)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Source:  sources.Wikipedia,
		ID:      id,
		Title:   title,
		Summary: summary,
		Content: markdown,
		URL:     "https://en.wikipedia.org/?curid=" + id,
	}, nil
}

// parseWikipediaPage extracts parse.title and parse.text["*"]. A response
// without a parse object (the API reports missing pages that way) is
// ErrNotFound.
func parseWikipediaPage(body []byte) (title, html string, err error) {
	var resp struct {
		Parse *struct {
			Title string            `json:"title"`
			Text  map[string]string `json:"text"`
		} `json:"parse"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := upstream.DecodeJSON(body, &resp); err != nil {
		return "", "", err
	}
	if resp.Parse == nil {
		code := "missing parse"
		if resp.Error != nil {
			code = resp.Error.Code
		}
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return resp.Parse.Title, resp.Parse.Text["*"], nil
}

// renderArticle strips editorial noise from the article HTML and returns the
// first paragraph as plain text plus the whole body as Markdown.
func renderArticle(converter *md.Converter, html string) (summary, markdown string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	for _, sel := range wikipediaNoise {
		doc.Find(sel).Remove()
	}

	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return true
		}
		summary = strings.Join(strings.Fields(text), " ")
		return false
	})

	content := doc.Find("body")
	if content.Length() == 0 {
		content = doc.Selection
	}
	cleaned, err := content.Html()
	if err != nil {
		return "", "", fmt.Errorf("failed to get cleaned HTML: %w", err)
	}

	markdown, err = converter.ConvertString(cleaned)
	if err != nil {
		return "", "", fmt.Errorf("failed to convert to markdown: %w", err)
	}
	return summary, strings.TrimSpace(markdown), nil
}
