// Package monitor watches external listing pages for newly published
// items, scores them for relevance and escalates sources that keep
// failing to scrape.
package monitor

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Item is one listing entry extracted from a source page or feed.
type Item struct {
	Title string
	Date  string
	URL   string
}

var (
	dateShapeRe         = regexp.MustCompile(`\d{2}[./]\d{2}[./]\d{4}|\d{4}[-/]\d{2}[-/]\d{2}`)
	announcementClassRe = regexp.MustCompile(`(?i)circular|news|announcement|item`)
	contentClassRe      = regexp.MustCompile(`(?i)content|main|body`)
)

var listingHrefTerms = []string{"circular", "announcement", "news", "pdf", "document"}

const minListingTitleLen = 10

// parseListing extracts items from a listing page. Three strategies run in
// order and the first that yields anything wins: table rows with a
// date-shaped cell, announcement-classed list items, then a generic anchor
// sweep over main-content containers.
func parseListing(body []byte, baseURL string) []Item {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	if items := parseTables(doc, baseURL); len(items) > 0 {
		return items
	}
	if items := parseAnnouncementLists(doc, baseURL); len(items) > 0 {
		return items
	}
	return parseContentAnchors(doc, baseURL)
}

func parseTables(doc *goquery.Document, baseURL string) []Item {
	var items []Item
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		link := row.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}

		var date string
		cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			text := strings.TrimSpace(cell.Text())
			if dateShapeRe.MatchString(text) {
				date = text
				return false
			}
			return true
		})

		items = append(items, Item{Title: title, Date: date, URL: normalizeURL(href, baseURL)})
	})
	return items
}

func parseAnnouncementLists(doc *goquery.Document, baseURL string) []Item {
	var items []Item
	doc.Find("li, div").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !announcementClassRe.MatchString(class) {
			return
		}
		link := sel.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}

		date := dateShapeRe.FindString(sel.Text())
		items = append(items, Item{Title: title, Date: date, URL: normalizeURL(href, baseURL)})
	})
	return items
}

func parseContentAnchors(doc *goquery.Document, baseURL string) []Item {
	var items []Item
	doc.Find("main, article, section, div").Each(func(_ int, area *goquery.Selection) {
		class, _ := area.Attr("class")
		if !contentClassRe.MatchString(class) {
			return
		}
		area.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			href, _ := link.Attr("href")
			lower := strings.ToLower(href)
			hit := false
			for _, term := range listingHrefTerms {
				if strings.Contains(lower, term) {
					hit = true
					break
				}
			}
			if !hit {
				return
			}
			title := strings.TrimSpace(link.Text())
			if len(title) <= minListingTitleLen {
				// Button and icon captions
				return
			}
			items = append(items, Item{Title: title, URL: normalizeURL(href, baseURL)})
		})
	})
	return items
}

// normalizeURL makes relative listing links absolute against the source's
// base URL.
func normalizeURL(href, baseURL string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return href
		}
		return parsed.Scheme + "://" + parsed.Host + href
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
}
