// Package filler substitutes collected answers into a document template.
// The template is mutated in memory only; the caller saves the result to
// a fresh output path.
package filler

import (
	"sort"
	"strings"

	"github.com/beevik/etree"

	"docbot/internal/docx"
	"docbot/internal/fields"
	"docbot/pkg/registry"
)

// Fill replaces every field label in the document with its mapped value.
//
// Two passes per paragraph. First, per-run substitution: runs in the
// distinguished style (red) — or, under the marker convention, any run
// whose text contains a token — get every label occurrence replaced.
// Second, split-run repair for labels a rendering engine fragmented
// across run boundaries, so that no single run matched in pass one. The
// repair never widens the substitution scope: under the red-run
// convention it works on each maximal sequence of consecutive red runs
// (a fragmented red label keeps its color on every fragment), so a
// caption in a plain run that happens to repeat the label text is left
// untouched. Under the marker convention the whole paragraph is the
// scope, as markers carry no style.
func Fill(doc *docx.Document, answers map[string]string, conv registry.Convention) {
	labels := sortedLabels(answers)

	for _, p := range doc.Paragraphs() {
		fillParagraph(p, labels, answers, conv)
	}
}

func fillParagraph(p *etree.Element, labels []string, answers map[string]string, conv registry.Convention) {
	runs := docx.Runs(p)

	for _, r := range runs {
		if conv == registry.ConventionRedRun && docx.RunColor(r) != fields.RedColor {
			continue
		}
		text := docx.RunText(r)
		replaced := replaceLabels(text, labels, answers)
		if replaced != text {
			docx.SetRunText(r, replaced)
		}
	}

	if conv != registry.ConventionRedRun {
		repairRuns(runs, labels, answers)
		return
	}
	start := -1
	for i := 0; i <= len(runs); i++ {
		red := i < len(runs) && docx.RunColor(runs[i]) == fields.RedColor
		if red && start < 0 {
			start = i
		}
		if !red && start >= 0 {
			repairRuns(runs[start:i], labels, answers)
			start = -1
		}
	}
}

// repairRuns substitutes labels split across run boundaries. After the
// per-run pass, any label still present in the joined text cannot sit
// inside a single run, so the joined result is written into the first
// run and the remaining runs are blanked.
func repairRuns(runs []*etree.Element, labels []string, answers map[string]string) {
	if len(runs) < 2 {
		return
	}

	var b strings.Builder
	for _, r := range runs {
		b.WriteString(docx.RunText(r))
	}
	joined := b.String()
	if !containsAnyLabel(joined, labels) {
		return
	}
	repaired := replaceLabels(joined, labels, answers)
	if repaired == joined {
		return
	}
	docx.SetRunText(runs[0], repaired)
	for _, r := range runs[1:] {
		docx.SetRunText(r, "")
	}
}

// replaceLabels substitutes longest labels first so a label that is a
// substring of another can never clobber it.
func replaceLabels(text string, labels []string, answers map[string]string) string {
	for _, label := range labels {
		if strings.Contains(text, label) {
			text = strings.ReplaceAll(text, label, answers[label])
		}
	}
	return text
}

func containsAnyLabel(text string, labels []string) bool {
	for _, label := range labels {
		if strings.Contains(text, label) {
			return true
		}
	}
	return false
}

func sortedLabels(answers map[string]string) []string {
	labels := make([]string, 0, len(answers))
	for label := range answers {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) > len(labels[j])
		}
		return labels[i] < labels[j]
	})
	return labels
}
