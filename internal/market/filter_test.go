package market

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(county, market, commodity, classification, day string) Record {
	return Record{
		County:         county,
		Market:         market,
		Commodity:      commodity,
		Classification: classification,
		Wholesale:      decimal.NewFromInt(50),
		Retail:         decimal.NewFromInt(60),
		Date:           date(day),
		Currency:       "KES",
	}
}

var filterFixture = []Record{
	rec("Nairobi", "Wakulima", "Maize", "Cereals", "2024-03-15"),
	rec("Nairobi", "Gikomba", "Beans", "Legumes", "2024-03-10"),
	rec("Kisumu", "Kibuye", "Fish", "Fisheries", "2024-03-01"),
	rec("Kisumu", "Kibuye", "Maize", "Cereals", "2024-02-01"),
}

func TestFilterEmptyStateIsIdentity(t *testing.T) {
	got := Filter(filterFixture, FilterState{}, date("2024-03-15"))
	if !reflect.DeepEqual(got, filterFixture) {
		t.Errorf("empty filter changed the record set:\n got %v\nwant %v", got, filterFixture)
	}
}

func TestFilterExactMatches(t *testing.T) {
	now := date("2024-03-15")

	got := Filter(filterFixture, FilterState{County: "Kisumu"}, now)
	if len(got) != 2 {
		t.Fatalf("county filter: got %d records, want 2", len(got))
	}

	got = Filter(filterFixture, FilterState{County: "Kisumu", Commodity: "Maize"}, now)
	if len(got) != 1 || got[0].Date != date("2024-02-01") {
		t.Errorf("AND of county+commodity: got %v", got)
	}

	// Partial value must not match: exact match against the full value.
	got = Filter(filterFixture, FilterState{County: "Nairo"}, now)
	if len(got) != 0 {
		t.Errorf("partial county matched: %v", got)
	}
}

func TestFilterSearch(t *testing.T) {
	now := date("2024-03-15")

	// Case-insensitive, matches any of the four descriptive fields.
	got := Filter(filterFixture, FilterState{Search: "CEREAL"}, now)
	if len(got) != 2 {
		t.Errorf("classification search: got %d, want 2", len(got))
	}

	got = Filter(filterFixture, FilterState{Search: "kibuye"}, now)
	if len(got) != 2 {
		t.Errorf("market search: got %d, want 2", len(got))
	}

	got = Filter(filterFixture, FilterState{Search: "zz"}, now)
	if len(got) != 0 {
		t.Errorf("non-matching search: got %d, want 0", len(got))
	}
}

func TestFilterDateRanges(t *testing.T) {
	now := date("2024-03-15")

	cases := []struct {
		dr   DateRange
		want int
	}{
		{DateAny, 4},
		{DateToday, 1},
		{DateWeek, 2},  // 2024-03-15 and 2024-03-10
		{DateMonth, 3}, // everything from 2024-02-15 on
	}
	for _, c := range cases {
		got := Filter(filterFixture, FilterState{Range: c.dr}, now)
		if len(got) != c.want {
			t.Errorf("range %q: got %d records, want %d", c.dr, len(got), c.want)
		}
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	now := date("2024-03-15")
	got := Filter(filterFixture, FilterState{Commodity: "Maize"}, now)
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].County != "Nairobi" || got[1].County != "Kisumu" {
		t.Errorf("relative order not preserved: %v", got)
	}
}
