package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"navhub/internal/domain"
)

// Export returns the document in its export shape: categories without
// sites are dropped (except the personal category) and missing ids are
// filled in.
func Export(doc domain.NavDocument) domain.NavDocument {
	out := doc.PruneEmpty()
	out.Normalize()
	out.BackfillIDs()
	return out
}

// ExportJSON serializes the export shape with two-space indentation
func ExportJSON(doc domain.NavDocument) ([]byte, error) {
	data, err := json.MarshalIndent(Export(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// ExportFilename returns NavHub-Export-<source>-<YYYY-MM-DD>.json
func ExportFilename(sourceName string, now time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(sourceName))
	if name == "" {
		name = "export"
	}
	return fmt.Sprintf("NavHub-Export-%s-%s.json", name, now.Format("2006-01-02"))
}
