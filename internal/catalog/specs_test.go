package catalog

import (
	"testing"

	"catalogcms/internal/models"
)

func TestSpecModelsOrdering(t *testing.T) {
	groups := []models.ProductSpecModel{
		{ID: 2, Title: "Large", SortOrder: 1, Items: []models.ProductSpecItem{
			{ID: 9, Name: "Power", Value: "5", Unit: "kW", SortOrder: 0},
		}},
		{ID: 1, Title: "Small", SortOrder: 0, Items: []models.ProductSpecItem{
			{ID: 4, Name: "Weight", Value: "10", SortOrder: 1},
			{ID: 3, Name: "Power", Value: "2", SortOrder: 0},
		}},
	}

	got := marshal(t, SpecModels(groups))
	want := `[{"name":"Small","specs":[{"label":"Power","value":"2"},{"label":"Weight","value":"10"}]},{"name":"Large","specs":[{"label":"Power","value":"5"}]}]`
	if got != want {
		t.Errorf("SpecModels = %s, want %s", got, want)
	}
}

func TestSpecModelsEmptyGroup(t *testing.T) {
	got := marshal(t, SpecModels([]models.ProductSpecModel{{Title: "Bare"}}))
	if got != `[{"name":"Bare","specs":[]}]` {
		t.Errorf("SpecModels = %s", got)
	}
}

func TestFlatSpecGroups(t *testing.T) {
	rows := []models.ProductSpecification{
		{ID: 1, Name: "Flow", Value: "30", Unit: "m3/h", SortOrder: 1},
		{ID: 2, Name: "Head", Value: "12", Unit: "m", SortOrder: 0},
		{ID: 3, Name: "Material", Value: "Steel", SortOrder: 2},
		{ID: 4, Name: "Depth", Value: "40", Unit: "m", SortOrder: 3},
	}

	flat := marshal(t, FlatSpecGroups(rows, false))
	wantFlat := `[{"name":"","specs":[{"label":"Head","value":"12 m"},{"label":"Flow","value":"30 m3/h"},{"label":"Material","value":"Steel"},{"label":"Depth","value":"40 m"}]}]`
	if flat != wantFlat {
		t.Errorf("flat = %s, want %s", flat, wantFlat)
	}

	grouped := marshal(t, FlatSpecGroups(rows, true))
	wantGrouped := `[{"name":"m","specs":[{"label":"Head","value":"12"},{"label":"Depth","value":"40"}]},{"name":"m3/h","specs":[{"label":"Flow","value":"30"}]},{"name":"","specs":[{"label":"Material","value":"Steel"}]}]`
	if grouped != wantGrouped {
		t.Errorf("grouped = %s, want %s", grouped, wantGrouped)
	}

	if got := marshal(t, FlatSpecGroups(nil, true)); got != `[]` {
		t.Errorf("empty = %s, want []", got)
	}
}

func TestFAQs(t *testing.T) {
	items := []models.ProductFaqItem{
		{ID: 2, Question: "B?", AnswerHTML: "b", SortOrder: 1},
		{ID: 1, Question: "A?", AnswerHTML: "<p>a</p>", SortOrder: 1},
		{ID: 3, Question: "First?", AnswerHTML: "", SortOrder: 0},
	}
	got := FAQs(items)
	wantQ := []string{"First?", "A?", "B?"}
	if len(got) != len(wantQ) {
		t.Fatalf("FAQs = %+v", got)
	}
	for i, q := range wantQ {
		if got[i].Question != q {
			t.Errorf("FAQs[%d].Question = %q, want %q", i, got[i].Question, q)
		}
	}
	if got[1].Answer != "<p>a</p>" {
		t.Errorf("answer = %q", got[1].Answer)
	}
}

func TestPivotSpecTable(t *testing.T) {
	cells := []SpecCell{
		{Variant: "V2", Label: "Power", Value: "5 kW"},
		{Variant: "V1", Label: "Power", Value: "2 kW"},
		{Variant: "V1", Label: "Weight", Value: "10 kg"},
		{Variant: "V3", Label: "Noise", Value: "60 dB"},
	}

	table := PivotSpecTable(cells)

	wantCols := []string{"V2", "V1", "V3"}
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", table.Columns, wantCols)
	}
	for i, c := range wantCols {
		if table.Columns[i] != c {
			t.Errorf("columns[%d] = %q, want %q", i, table.Columns[i], c)
		}
	}

	wantRows := []string{"Power", "Weight", "Noise"}
	if len(table.Rows) != len(wantRows) {
		t.Fatalf("rows = %+v", table.Rows)
	}
	for i, l := range wantRows {
		if table.Rows[i].Label != l {
			t.Errorf("rows[%d].Label = %q, want %q", i, table.Rows[i].Label, l)
		}
	}

	// Missing cells stay absent rather than null.
	if _, ok := table.Rows[1].Values["V2"]; ok {
		t.Error("Weight/V2 should be absent")
	}
	if got := marshal(t, table.Rows[1]); got != `{"label":"Weight","values":{"V1":"10 kg"}}` {
		t.Errorf("weight row = %s", got)
	}
}

func TestPivotSpecTableEmpty(t *testing.T) {
	if got := marshal(t, PivotSpecTable(nil)); got != `{"columns":[],"rows":[]}` {
		t.Errorf("empty pivot = %s", got)
	}
}

func TestSpecCellsFromModels(t *testing.T) {
	groups := []models.ProductSpecModel{
		{ID: 1, Title: "A", Items: []models.ProductSpecItem{{ID: 1, Name: "Power", Value: "2", Unit: "kW"}}},
		{ID: 2, Title: "B", Items: []models.ProductSpecItem{{ID: 2, Name: "Power", Value: "3", Unit: "kW"}}},
	}
	table := PivotSpecTable(SpecCellsFromModels(groups))
	if got := marshal(t, table); got != `{"columns":["A","B"],"rows":[{"label":"Power","values":{"A":"2 kW","B":"3 kW"}}]}` {
		t.Errorf("table = %s", got)
	}
}
