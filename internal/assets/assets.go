// Package assets embeds the built-in catalogs and the web search engine list.
package assets

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"navhub/internal/application"
	"navhub/internal/domain"
)

// EnginesPath is the location of the engine list, both embedded and inside a data directory
const EnginesPath = "search/engines.json"

//go:embed data/*.json search/engines.json
var catalogs embed.FS

// Catalogs returns the built-in catalogs keyed by their source paths (data/*.json)
func Catalogs() fs.FS {
	return catalogs
}

// Engines decodes the engine list at EnginesPath in fsys. A nil fsys reads the embedded copy.
func Engines(fsys fs.FS) (domain.EngineCatalog, error) {
	if fsys == nil {
		fsys = catalogs
	}
	data, err := fs.ReadFile(fsys, EnginesPath)
	if err != nil {
		return domain.EngineCatalog{}, fmt.Errorf("failed to read %s: %w", EnginesPath, err)
	}
	return ParseEngines(data)
}

// ParseEngines decodes an engine list. Groups without a value and engines
// without a URL are dropped.
func ParseEngines(data []byte) (domain.EngineCatalog, error) {
	var raw domain.EngineCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.EngineCatalog{}, fmt.Errorf("engine list: %v: %w", err, application.ErrDecode)
	}

	out := domain.EngineCatalog{Engines: make(map[string][]domain.SearchEngine)}
	for _, g := range raw.Categories {
		if g.Value == "" {
			continue
		}
		if g.Label == "" {
			g.Label = g.Value
		}
		out.Categories = append(out.Categories, g)
		for _, e := range raw.Engines[g.Value] {
			if e.URL == "" {
				continue
			}
			if e.Name == "" {
				e.Name = e.URL
			}
			out.Engines[g.Value] = append(out.Engines[g.Value], e)
		}
	}
	return out, nil
}
