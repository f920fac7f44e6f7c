package domain

// DefaultSourcePath is the identifier of the canonical default built-in source.
// It is the only built-in whose base document is cached locally.
const DefaultSourcePath = "data/04-media.json"

// BuiltinSources is the compiled-in catalog list, in display order
var BuiltinSources = []DataSource{
	{Name: "Cloud Resources", Path: "data/00-cloud.json"},
	{Name: "Online Services", Path: "data/01-services.json"},
	{Name: "Tools", Path: "data/02-tools.json"},
	{Name: "Software", Path: "data/03-software.json"},
	{Name: "Media & Entertainment", Path: DefaultSourcePath},
	{Name: "Productivity", Path: "data/05-productivity.json"},
	{Name: "News & Reading", Path: "data/06-news.json"},
}

// DataSource is either a built-in catalog (Path set, content fetched from a
// static location) or a custom one (Data embedded and owned by local state).
type DataSource struct {
	Name string       `json:"name"`
	Path string       `json:"path,omitempty"`
	Data *NavDocument `json:"data,omitempty"`
}

// Key returns the lookup identifier: the path for built-ins, the name otherwise
func (s DataSource) Key() string {
	if s.Path != "" {
		return s.Path
	}
	return s.Name
}

// IsBuiltin reports whether the source is a read-only built-in catalog
func (s DataSource) IsBuiltin() bool {
	return s.Path != ""
}

// IsDefault reports whether the source is the canonical default built-in
func (s DataSource) IsDefault() bool {
	return s.Path == DefaultSourcePath
}

// Clone returns a copy whose embedded document does not alias s
func (s DataSource) Clone() DataSource {
	out := DataSource{Name: s.Name, Path: s.Path}
	if s.Data != nil {
		doc := s.Data.Clone()
		out.Data = &doc
	}
	return out
}

// Document returns a deep copy of the embedded document (empty for built-ins)
func (s DataSource) Document() NavDocument {
	if s.Data == nil {
		return NavDocument{Categories: []Category{}}
	}
	return s.Data.Clone()
}
