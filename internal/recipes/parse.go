// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package recipes loads canonical Spanish recipes from markdown files.
package recipes

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/olegiv/recipe-l10n/internal/model"
)

// Recipe is a parsed markdown recipe.
type Recipe struct {
	Filename string
	model.Fields
}

// sectionFields maps H2 heading keys to the field they fill.
var sectionFields = map[string]string{
	"descripcion":   model.FieldDescription,
	"description":   model.FieldDescription,
	"ingredientes":  model.FieldIngredients,
	"ingredients":   model.FieldIngredients,
	"preparacion":   model.FieldInstructions,
	"instrucciones": model.FieldInstructions,
	"instructions":  model.FieldInstructions,
}

// thematicBreak ends a section early, as recipe files close with a footer
// separated by "---".
var thematicBreak = regexp.MustCompile(`(?m)^ {0,3}(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)

// setextUnderline is the line under a setext heading.
var setextUnderline = regexp.MustCompile(`^ {0,3}(?:=+|-+)[ \t]*(?:\n|$)`)

var mdParser = goldmark.New().Parser()

type heading struct {
	level int
	text  string
	start int // offset of the heading's first line
	end   int // offset just past the heading
}

// Parse extracts a recipe from markdown source. The first H1 is the title,
// falling back to the file name. H2 sections named Descripción, Ingredientes
// and Preparación (or their English names) fill the matching fields; each
// section runs until the next H1 or H2 or a thematic break. The category is
// derived from keywords.
func Parse(filename string, source []byte) Recipe {
	r := Recipe{Filename: filename}

	doc := mdParser.Parse(text.NewReader(source))
	headings := collectHeadings(doc, source)

	for i, h := range headings {
		if h.level == 1 {
			if r.Title == "" {
				r.Title = h.text
			}
			continue
		}

		field, ok := sectionFields[headingKey(h.text)]
		if !ok {
			continue
		}
		stop := len(source)
		if i+1 < len(headings) {
			stop = headings[i+1].start
		}
		body := source[h.end:stop]
		if loc := thematicBreak.FindIndex(body); loc != nil {
			body = body[:loc[0]]
		}
		if current, _ := r.Get(field); current == "" {
			_ = r.Set(field, strings.TrimSpace(string(body)))
		}
	}

	if r.Title == "" {
		r.Title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	r.Category = Categorize(r.Title, r.Description, r.Ingredients)
	return r
}

// collectHeadings returns the top-level H1 and H2 headings in source order.
func collectHeadings(doc ast.Node, source []byte) []heading {
	var out []heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > 2 || h.Lines().Len() == 0 {
			continue
		}

		lines := h.Lines()
		first, last := lines.At(0), lines.At(lines.Len()-1)

		var buf bytes.Buffer
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}

		start := lineStart(source, first.Start)
		end := lineEnd(source, last.Stop)
		atx := bytes.HasPrefix(bytes.TrimLeft(source[start:], " "), []byte("#"))
		if !atx {
			if loc := setextUnderline.FindIndex(source[end:]); loc != nil {
				end += loc[1]
			}
		}

		out = append(out, heading{
			level: h.Level,
			text:  strings.TrimSpace(buf.String()),
			start: start,
			end:   end,
		})
	}
	return out
}

func lineStart(source []byte, pos int) int {
	return bytes.LastIndexByte(source[:pos], '\n') + 1
}

func lineEnd(source []byte, pos int) int {
	if i := bytes.IndexByte(source[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(source)
}
