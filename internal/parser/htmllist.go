package parser

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gpwtool/gpwmon/internal/convert"
	"github.com/gpwtool/gpwmon/internal/table"
)

// espiDateFormat matches the feed's dd-mm-YYYY HH:MM:SS timestamps.
const espiDateFormat = "02-01-2006 15:04:05"

// isinPattern extracts an ISIN embedded in parentheses inside an issuer name.
var isinPattern = regexp.MustCompile(`\((.+)\)`)

// HTMLList extracts the exchange-notification feed rendered as an HTML list.
// Each item yields the columns [name, isin, date, title, url].
type HTMLList struct {
	// BaseURL absolutizes the relative report links.
	BaseURL string
	// ItemSelector defaults to "li".
	ItemSelector string
}

// Parse implements Parser.
func (p *HTMLList) Parse(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	selector := p.ItemSelector
	if selector == "" {
		selector = "li"
	}

	t := table.New("name", "isin", "date", "title", "url")
	doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
		name := convert.Trim(item.Find(".name").Text())
		title := convert.Trim(item.Find("a").Text())
		if name == "" && title == "" {
			return
		}

		var isin any
		if m := isinPattern.FindStringSubmatch(name); m != nil {
			isin = m[1]
		}

		// Anything after the pipe is a feed annotation, not part of the date.
		rawDate := item.Find(".date").Text()
		if i := strings.Index(rawDate, "|"); i >= 0 {
			rawDate = rawDate[:i]
		}
		var date any
		if ts, err := time.Parse(espiDateFormat, convert.Trim(rawDate)); err == nil {
			date = ts
		}

		var url any
		if href, ok := item.Find("a").Attr("href"); ok {
			url = absoluteURL(p.BaseURL, href)
		}

		t.Append(textOrNil(name), isin, date, textOrNil(title), url)
	})

	return t, nil
}

// absoluteURL prepends base to relative hrefs, leaving absolute ones alone.
func absoluteURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}
