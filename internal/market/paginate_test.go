package market

import (
	"strconv"
	"strings"
	"testing"
)

func TestTotalPages(t *testing.T) {
	p := NewPaginator(10)
	cases := []struct{ n, want int }{
		{0, 1}, {1, 1}, {9, 1}, {10, 1}, {11, 2}, {100, 10}, {101, 11},
	}
	for _, c := range cases {
		if got := p.TotalPages(c.n); got != c.want {
			t.Errorf("TotalPages(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

// Concatenating every page slice in order must reconstruct the full set
// exactly once each.
func TestSlicePartition(t *testing.T) {
	records := make([]Record, 23)
	for i := range records {
		records[i].Commodity = strconv.Itoa(i)
	}

	p := NewPaginator(10)
	var rebuilt []Record
	for page := 1; page <= p.TotalPages(len(records)); page++ {
		if !p.SetPage(page, len(records)) {
			t.Fatalf("SetPage(%d) rejected", page)
		}
		rebuilt = append(rebuilt, p.Slice(records)...)
	}

	if len(rebuilt) != len(records) {
		t.Fatalf("partition rebuilt %d records, want %d", len(rebuilt), len(records))
	}
	for i := range records {
		if rebuilt[i].Commodity != records[i].Commodity {
			t.Fatalf("record %d out of place", i)
		}
	}
}

func TestSetPageClamping(t *testing.T) {
	p := NewPaginator(10)
	n := 25 // 3 pages

	if p.SetPage(0, n) {
		t.Error("page 0 accepted")
	}
	if p.SetPage(4, n) {
		t.Error("page past the end accepted")
	}
	if p.Page != 1 {
		t.Errorf("rejected requests moved the page to %d", p.Page)
	}
	if !p.SetPage(3, n) {
		t.Error("last page rejected")
	}
}

func TestButtonsSmallSet(t *testing.T) {
	p := NewPaginator(10)
	p.Page = 2
	buttons := p.Buttons(30) // 3 pages

	if len(buttons) != 3 {
		t.Fatalf("got %d buttons, want 3: %v", len(buttons), labels(buttons))
	}
	if !buttons[1].Current {
		t.Error("current page not flagged")
	}
}

func TestButtonsSlidingWindow(t *testing.T) {
	p := NewPaginator(10)
	p.Page = 10
	buttons := p.Buttons(200) // 20 pages

	got := strings.Join(labels(buttons), " ")
	want := "1 … 8 9 10 11 12 … 20"
	if got != want {
		t.Errorf("buttons = %q, want %q", got, want)
	}
}

func TestButtonsWindowAtEdges(t *testing.T) {
	p := NewPaginator(10)

	p.Page = 1
	if got := strings.Join(labels(p.Buttons(200)), " "); got != "1 2 3 4 5 … 20" {
		t.Errorf("left edge buttons = %q", got)
	}

	p.Page = 20
	if got := strings.Join(labels(p.Buttons(200)), " "); got != "1 … 16 17 18 19 20" {
		t.Errorf("right edge buttons = %q", got)
	}
}

func labels(buttons []PageButton) []string {
	out := make([]string, len(buttons))
	for i, b := range buttons {
		out[i] = b.Label
	}
	return out
}
