package thread

import (
	"testing"
	"time"

	"threadwatch/feature/thread/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageFixture = `<!DOCTYPE html>
<html>
<body>
  <div class="pager" data-currentpage="1" data-pagecount="7"></div>
  <ul id="entry-item-list">
    <li data-id="101" data-author="gecekusu">
      <div class="content">
        ilk   entry    metni
      </div>
      <footer><a class="entry-date" href="/entry/101">12.04.2024 10:15</a></footer>
    </li>
    <li data-id="102">
      <div class="content">author attribute missing here</div>
      <footer><a class="entry-date" href="/entry/102">12.04.2024 11:20 ~ 13.04.2024</a></footer>
    </li>
    <li data-id="103" data-author="sabahci">
      <div class="content">no date anchor on this one</div>
    </li>
    <li>
      <div class="content">no data-id, skipped entirely</div>
    </li>
  </ul>
</body>
</html>`

func TestParsePageCount(t *testing.T) {
	assert.Equal(t, 7, ParsePageCount(pageFixture))
}

func TestParsePageCount_Defaults(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"no pager element", `<html><body><ul id="entry-item-list"></ul></body></html>`},
		{"pager without count attribute", `<html><div class="pager"></div></html>`},
		{"unparsable count", `<html><div class="pager" data-pagecount="lots"></div></html>`},
		{"zero count", `<html><div class="pager" data-pagecount="0"></div></html>`},
		{"negative count", `<html><div class="pager" data-pagecount="-2"></div></html>`},
		{"empty document", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1, ParsePageCount(tt.html))
		})
	}
}

func TestParseRecords(t *testing.T) {
	capturedAt := time.Date(2024, 4, 13, 9, 0, 0, 0, time.UTC)

	records := ParseRecords(pageFixture, capturedAt)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "101", first.ID)
	assert.Equal(t, "gecekusu", first.Author)
	assert.Equal(t, "12.04.2024 10:15", first.Timestamp)
	// Inner whitespace runs collapse, surrounding whitespace trims.
	assert.Equal(t, "ilk entry metni", first.Content)
	assert.Equal(t, capturedAt, first.CapturedAt)

	second := records[1]
	assert.Equal(t, "102", second.ID)
	assert.Equal(t, models.AuthorUnknown, second.Author)
	assert.Equal(t, "12.04.2024 11:20 ~ 13.04.2024", second.Timestamp)

	third := records[2]
	assert.Equal(t, "103", third.ID)
	assert.Equal(t, "sabahci", third.Author)
	assert.Equal(t, models.AuthorUnknown, third.Timestamp)
	assert.Equal(t, "no date anchor on this one", third.Content)
}

func TestParseRecords_EmptyPage(t *testing.T) {
	records := ParseRecords(`<html><body><ul id="entry-item-list"></ul></body></html>`, time.Now())
	assert.Empty(t, records)

	records = ParseRecords("", time.Now())
	assert.Empty(t, records)
}

func TestValidateBatch(t *testing.T) {
	capturedAt := time.Now()
	valid := func(id string) models.Record {
		return models.Record{ID: id, Author: "a", Timestamp: "t", Content: "c", CapturedAt: capturedAt}
	}

	batch := []models.Record{
		valid("1"),
		{Author: "a", Timestamp: "t", Content: "no id", CapturedAt: capturedAt},
		valid("2"),
		valid("1"), // duplicate, first occurrence wins
		{ID: "3", Author: "a", Content: "no timestamp", CapturedAt: capturedAt},
	}

	accepted, rejections := ValidateBatch(batch)

	require.Len(t, accepted, 2)
	assert.Equal(t, "1", accepted[0].ID)
	assert.Equal(t, "2", accepted[1].ID)

	require.Len(t, rejections, 3)
	assert.Equal(t, "unknown", rejections[0].ID)
	assert.Equal(t, "1", rejections[1].ID)
	assert.Contains(t, rejections[1].Reason, "duplicate")
	assert.Equal(t, "3", rejections[2].ID)
}

func TestValidateBatch_EmptyContentIsAccepted(t *testing.T) {
	accepted, rejections := ValidateBatch([]models.Record{
		{ID: "1", Author: models.AuthorUnknown, Timestamp: "t", Content: "", CapturedAt: time.Now()},
	})
	assert.Len(t, accepted, 1)
	assert.Empty(t, rejections)
}

func TestValidateBatch_NothingSurvives(t *testing.T) {
	accepted, rejections := ValidateBatch([]models.Record{{}, {}})
	assert.Empty(t, accepted)
	assert.Len(t, rejections, 2)
}
