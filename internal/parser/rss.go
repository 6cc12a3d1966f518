package parser

import (
	"os"

	"github.com/mmcdole/gofeed"

	"github.com/gpwtool/gpwmon/internal/convert"
	"github.com/gpwtool/gpwmon/internal/table"
)

// RSSList reads a downloaded notification RSS feed into the same column shape
// as HTMLList: [name, isin, date, title, url]. The exchange publishes its
// announcement stream in both renderings; the feed is the fallback when the
// HTML layout shifts.
type RSSList struct{}

// Parse implements Parser.
func (p *RSSList) Parse(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	feed, err := gofeed.NewParser().Parse(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	t := table.New("name", "isin", "date", "title", "url")
	for _, item := range feed.Items {
		title := convert.Trim(item.Title)
		name := title
		var isin any
		if m := isinPattern.FindStringSubmatch(title); m != nil {
			isin = m[1]
		}
		var date any
		if item.PublishedParsed != nil {
			date = *item.PublishedParsed
		}
		t.Append(textOrNil(name), isin, date, textOrNil(title), textOrNil(item.Link))
	}
	return t, nil
}
