// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"slices"
	"strings"

	"catalogcms/internal/models"
)

// SpecPair is one labelled value.
type SpecPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SpecModel is a named group of spec pairs.
type SpecModel struct {
	Name  string     `json:"name"`
	Specs []SpecPair `json:"specs"`
}

// FAQ is one question and its answer.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SpecModels flattens named spec groups, ordering groups and their rows
// by (sort_order, id).
func SpecModels(groups []models.ProductSpecModel) []SpecModel {
	sorted := slices.Clone(groups)
	slices.SortStableFunc(sorted, func(a, b models.ProductSpecModel) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})

	out := make([]SpecModel, 0, len(sorted))
	for _, g := range sorted {
		items := sortedSpecItems(g.Items)
		specs := make([]SpecPair, 0, len(items))
		for _, it := range items {
			specs = append(specs, SpecPair{Label: it.Name, Value: it.Value})
		}
		out = append(out, SpecModel{Name: g.Title, Specs: specs})
	}
	return out
}

// FlatSpecGroups adapts flat specification rows into spec groups. With
// groupByUnit each distinct unit becomes a group named after it, in order
// of first appearance; otherwise all rows form one unnamed group and the
// unit is appended to the value. No rows yields an empty list.
func FlatSpecGroups(rows []models.ProductSpecification, groupByUnit bool) []SpecModel {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b models.ProductSpecification) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})
	if len(sorted) == 0 {
		return []SpecModel{}
	}

	if !groupByUnit {
		specs := make([]SpecPair, 0, len(sorted))
		for _, r := range sorted {
			specs = append(specs, SpecPair{Label: r.Name, Value: withUnit(r.Value, r.Unit)})
		}
		return []SpecModel{{Name: "", Specs: specs}}
	}

	var out []SpecModel
	index := make(map[string]int)
	for _, r := range sorted {
		i, ok := index[r.Unit]
		if !ok {
			i = len(out)
			index[r.Unit] = i
			out = append(out, SpecModel{Name: r.Unit, Specs: []SpecPair{}})
		}
		out[i].Specs = append(out[i].Specs, SpecPair{Label: r.Name, Value: r.Value})
	}
	return out
}

func withUnit(value, unit string) string {
	if unit == "" {
		return value
	}
	return strings.TrimSpace(value + " " + unit)
}

// FAQs flattens FAQ rows in (sort_order, id) order.
func FAQs(items []models.ProductFaqItem) []FAQ {
	sorted := sortedFAQs(items)
	out := make([]FAQ, 0, len(sorted))
	for _, it := range sorted {
		out = append(out, FAQ{Question: it.Question, Answer: it.AnswerHTML})
	}
	return out
}

// SpecCell is one (variant, label, value) observation fed to the pivot.
type SpecCell struct {
	Variant string
	Label   string
	Value   string
}

// SpecTableRow is one label with its value per variant. Variants without
// a value for the label are absent from Values.
type SpecTableRow struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// SpecTable is a spec comparison pivoted by variant.
type SpecTable struct {
	Columns []string       `json:"columns"`
	Rows    []SpecTableRow `json:"rows"`
}

// PivotSpecTable pivots cells by variant. Columns and rows keep the order
// in which each variant and label is first seen. A repeated
// (variant, label) pair keeps its last value.
func PivotSpecTable(cells []SpecCell) SpecTable {
	t := SpecTable{Columns: []string{}, Rows: []SpecTableRow{}}
	seenCol := make(map[string]bool)
	rowIdx := make(map[string]int)

	for _, c := range cells {
		if !seenCol[c.Variant] {
			seenCol[c.Variant] = true
			t.Columns = append(t.Columns, c.Variant)
		}
		i, ok := rowIdx[c.Label]
		if !ok {
			i = len(t.Rows)
			rowIdx[c.Label] = i
			t.Rows = append(t.Rows, SpecTableRow{Label: c.Label, Values: map[string]string{}})
		}
		t.Rows[i].Values[c.Variant] = c.Value
	}
	return t
}

// SpecCellsFromModels lists the cells of named spec groups: the group
// title is the variant, the row name the label and the value carries its
// unit.
func SpecCellsFromModels(groups []models.ProductSpecModel) []SpecCell {
	sorted := slices.Clone(groups)
	slices.SortStableFunc(sorted, func(a, b models.ProductSpecModel) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})

	var cells []SpecCell
	for _, g := range sorted {
		for _, it := range sortedSpecItems(g.Items) {
			cells = append(cells, SpecCell{Variant: g.Title, Label: it.Name, Value: withUnit(it.Value, it.Unit)})
		}
	}
	return cells
}

func sortedSpecItems(in []models.ProductSpecItem) []models.ProductSpecItem {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.ProductSpecItem) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})
	return out
}
