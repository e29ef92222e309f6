package selector

import (
	"reflect"
	"testing"

	"agridash/internal/refdata"
)

func testMap(t *testing.T) *refdata.Map {
	t.Helper()
	m, err := refdata.ParseMap([]byte(`{
		"county_markets": {
			"Nairobi": ["Wakulima", "Gikomba"],
			"Kisumu": ["Kibuye"]
		},
		"commodities": {
			"Nairobi": {
				"Wakulima": ["Maize", "Beans"],
				"Gikomba": ["Maize"]
			},
			"Kisumu": {
				"Kibuye": ["Fish"]
			}
		}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCascadeNarrowing(t *testing.T) {
	c := New(testMap(t))

	if c.Stage() != NoneSelected {
		t.Fatalf("initial stage = %v", c.Stage())
	}
	if c.MarketOptions() != nil || c.CommodityOptions() != nil {
		t.Fatal("descendant options should be empty before a county is chosen")
	}

	c.SetCounty("Nairobi")
	if c.Stage() != CountySelected {
		t.Errorf("stage = %v, want CountySelected", c.Stage())
	}
	if got, want := c.MarketOptions(), []string{"Wakulima", "Gikomba"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MarketOptions = %v, want %v", got, want)
	}

	c.SetMarket("Wakulima")
	c.SetCommodity("Maize")
	if c.Stage() != CommoditySelected {
		t.Errorf("stage = %v, want CommoditySelected", c.Stage())
	}
	if got, want := c.CommodityOptions(), []string{"Maize", "Beans"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CommodityOptions = %v, want %v", got, want)
	}
}

func TestChangingParentClearsDescendants(t *testing.T) {
	c := New(testMap(t))
	c.SetCounty("Nairobi")
	c.SetMarket("Wakulima")
	c.SetCommodity("Beans")

	c.SetCounty("Kisumu")
	if c.Market() != "" || c.Commodity() != "" {
		t.Errorf("descendants not cleared: market=%q commodity=%q", c.Market(), c.Commodity())
	}
	if got, want := c.MarketOptions(), []string{"Kibuye"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MarketOptions = %v, want %v", got, want)
	}
}

func TestEmptyValueDeselects(t *testing.T) {
	c := New(testMap(t))
	c.SetCounty("Nairobi")
	c.SetMarket("Gikomba")
	c.SetCommodity("Maize")

	c.SetCounty("")
	if c.Stage() != NoneSelected {
		t.Errorf("stage = %v, want NoneSelected", c.Stage())
	}
	if c.MarketOptions() != nil || c.CommodityOptions() != nil {
		t.Error("options should reset to unconstrained state")
	}
}

func TestDescendantSetWithoutParentIgnored(t *testing.T) {
	c := New(testMap(t))
	c.SetMarket("Wakulima")
	if c.Market() != "" {
		t.Error("SetMarket without county should be a no-op")
	}
	c.SetCommodity("Maize")
	if c.Commodity() != "" {
		t.Error("SetCommodity without parents should be a no-op")
	}
}
