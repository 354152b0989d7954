package thread

import (
	"strings"
	"time"

	"threadwatch/core/utils"
	"threadwatch/feature/thread/models"

	"github.com/PuerkitoBio/goquery"
)

// ParsePageCount extracts the total page count from the pagination element
// of a thread page. Pages without a pager, or with an unparsable count,
// default to a single page.
func ParsePageCount(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1
	}
	pager := doc.Find("div.pager").First()
	count, exists := pager.Attr("data-pagecount")
	if !exists {
		return 1
	}
	pages := utils.ToInt(count, 1)
	if pages < 1 {
		return 1
	}
	return pages
}

// ParseRecords extracts the ordered list of records from one thread page.
// Elements without a data-id attribute are skipped here; everything else is
// coerced into a Record and left to the validator.
func ParseRecords(html string, capturedAt time.Time) []models.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var records []models.Record
	doc.Find("ul#entry-item-list > li[data-id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-id")
		if id == "" {
			return
		}

		author := utils.CleanLine(sel.AttrOr("data-author", ""))
		if author == "" {
			author = models.AuthorUnknown
		}

		// A missing date anchor still yields a record; the sentinel keeps
		// the field present so validation concerns itself with ids only.
		timestamp := utils.FirstNonEmpty(
			utils.CleanLine(sel.Find("a.entry-date").First().Text()),
			models.AuthorUnknown,
		)
		content := utils.CleanText(sel.Find("div.content").First().Text())

		records = append(records, models.Record{
			ID:         id,
			Author:     author,
			Timestamp:  timestamp,
			Content:    content,
			CapturedAt: capturedAt,
		})
	})
	return records
}
