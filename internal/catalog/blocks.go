// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"encoding/json"
	"slices"

	"catalogcms/internal/models"
)

// blockAliases maps older block type names onto current ones.
var blockAliases = map[models.BlockType]models.BlockType{
	"text":  models.BlockParagraph,
	"html":  models.BlockParagraph,
	"table": models.BlockList,
}

// NormalizeType resolves a stored block type through the alias table.
func NormalizeType(t models.BlockType) models.BlockType {
	if n, ok := blockAliases[t]; ok {
		return n
	}
	return t
}

type payloadKind int

const (
	payloadTypeOnly payloadKind = iota
	payloadText
	payloadItems
	payloadMedia
)

// ContentBlock is one normalized block. Its JSON shape depends on the
// type: {type, text} for headings and paragraphs, {type, items} for
// lists, {type, src, alt} for image and video blocks with linked media,
// and {type} for anything else.
type ContentBlock struct {
	Type  string
	Text  string
	Items []string
	Src   *string
	Alt   string

	kind payloadKind
}

// MarshalJSON emits only the fields that belong to the block's shape.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case payloadText:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{b.Type, b.Text})
	case payloadItems:
		items := b.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(struct {
			Type  string   `json:"type"`
			Items []string `json:"items"`
		}{b.Type, items})
	case payloadMedia:
		return json.Marshal(struct {
			Type string  `json:"type"`
			Src  *string `json:"src"`
			Alt  string  `json:"alt"`
		}{b.Type, b.Src, b.Alt})
	default:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{b.Type})
	}
}

// NormalizeBlock shapes a single stored block.
func NormalizeBlock(blk *models.ProductContentBlock, urls URLBuilder) ContentBlock {
	t := NormalizeType(blk.BlockType)
	out := ContentBlock{Type: string(t)}

	switch t {
	case models.BlockHeading:
		out.kind = payloadText
		out.Text = firstNonEmpty(blk.Title, blk.Body)
	case models.BlockParagraph:
		out.kind = payloadText
		out.Text = blk.Body
	case models.BlockList:
		out.kind = payloadItems
		out.Items = listItems(blk.Items)
	case models.BlockImage, models.BlockVideo:
		if blk.Media != nil {
			out.kind = payloadMedia
			out.Src = urls.MediaURL(blk.Media)
			out.Alt = blk.Media.AltText
		}
	}
	return out
}

// listItems returns the non-empty label-or-value strings in item order.
func listItems(items []models.ProductContentBlockItem) []string {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b models.ProductContentBlockItem) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})

	out := []string{}
	for _, it := range sorted {
		if s := firstNonEmpty(it.Label, it.Value); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Sections holds the normalized blocks of the three page sections. Each
// slice is non-nil.
type Sections struct {
	Intro         []ContentBlock
	Specification []ContentBlock
	Video         []ContentBlock
}

// NormalizeBlocks partitions blocks by section, orders each partition by
// (sort_order, id) and shapes every block. Blocks in unknown sections are
// dropped.
func NormalizeBlocks(blocks []models.ProductContentBlock, urls URLBuilder) Sections {
	sorted := slices.Clone(blocks)
	slices.SortStableFunc(sorted, func(a, b models.ProductContentBlock) int {
		return byOrder(a.SortOrder, a.ID, b.SortOrder, b.ID)
	})

	s := Sections{
		Intro:         []ContentBlock{},
		Specification: []ContentBlock{},
		Video:         []ContentBlock{},
	}
	for i := range sorted {
		blk := &sorted[i]
		switch blk.Section {
		case models.SectionIntro:
			s.Intro = append(s.Intro, NormalizeBlock(blk, urls))
		case models.SectionSpecification:
			s.Specification = append(s.Specification, NormalizeBlock(blk, urls))
		case models.SectionVideo:
			s.Video = append(s.Video, NormalizeBlock(blk, urls))
		}
	}
	return s
}
