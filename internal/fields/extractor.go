// Package fields discovers fillable field labels in document templates.
package fields

import (
	"regexp"
	"strings"

	"docbot/internal/docx"
	"docbot/pkg/registry"
)

// RedColor is the distinguished run color that marks a fillable field.
const RedColor = "FF0000"

// Extract returns the template's field labels under the given convention.
//
// For the marker convention the labels are declared in the registry, no
// scanning happens. For the red-run convention every paragraph (body and
// table cells) is scanned for runs in the distinguished color; duplicate
// labels collapse into one, first-seen order is kept so repeated
// extraction yields the same list.
func Extract(doc *docx.Document, tpl *registry.Template) []string {
	if tpl.Convention == registry.ConventionMarker {
		labels := make([]string, 0, len(tpl.Questions))
		for _, q := range tpl.Questions {
			labels = append(labels, q.Label)
		}
		return labels
	}
	return ExtractRed(doc)
}

var markerPattern = regexp.MustCompile(`\{\{[^{}]+\}\}`)

// ExtractMarkers scans paragraph text for literal {{TOKEN}} markers.
// Markers split across runs are still found because the scan works on
// joined paragraph text. Used by tooling to audit marker templates; the
// conversation flow takes marker labels from the registry instead.
func ExtractMarkers(doc *docx.Document) []string {
	var labels []string
	seen := make(map[string]bool)

	for _, p := range doc.Paragraphs() {
		for _, m := range markerPattern.FindAllString(docx.ParagraphText(p), -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			labels = append(labels, m)
		}
	}
	return labels
}

// ExtractRed scans for red-run field labels.
func ExtractRed(doc *docx.Document) []string {
	var labels []string
	seen := make(map[string]bool)

	for _, p := range doc.Paragraphs() {
		for _, r := range docx.Runs(p) {
			if docx.RunColor(r) != RedColor {
				continue
			}
			label := strings.TrimSpace(docx.RunText(r))
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}
