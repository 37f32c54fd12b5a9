package mustache

import (
	"os"
	"path"
	"regexp"
	"strings"
)

// PartialProvider is the external collaborator of spec.md §6:
// load_partial(name) -> text | NotFound. Get returns ("", false) when the
// partial cannot be found; the engine then treats that as empty output in
// lenient mode, or a PartialNotFoundStrict RenderError in strict mode.
type PartialProvider interface {
	Get(name string) (string, bool)
}

// FileProvider implements PartialProvider by reading partials from the
// filesystem, searching each of Paths for NAME followed by any of
// Extensions. It is the direct descendant of the teacher's FileProvider
// (hoisie-mustache/partials.go), adapted to the PartialProvider contract's
// (text, bool) shape instead of (*Template, error).
type FileProvider struct {
	Paths      []string
	Extensions []string
}

// Get reads the named partial from disk.
func (fp *FileProvider) Get(name string) (string, bool) {
	cleanName := path.Clean(name)
	if strings.HasPrefix(cleanName, ".") {
		return "", false
	}

	paths := fp.Paths
	if paths == nil {
		paths = []string{""}
	}
	exts := fp.Extensions
	if exts == nil {
		exts = []string{"", ".mustache", ".stache"}
	}

	for _, p := range paths {
		for _, e := range exts {
			data, err := os.ReadFile(path.Join(p, cleanName+e))
			if err == nil {
				return string(data), true
			}
		}
	}
	return "", false
}

var _ PartialProvider = (*FileProvider)(nil)

// StaticProvider implements PartialProvider from an in-memory map, mirroring
// the teacher's StaticProvider. It is the provider used by the spec
// conformance test suite, where partials are supplied inline as test data.
type StaticProvider struct {
	Partials map[string]string
}

// Get looks the partial up in the map.
func (sp *StaticProvider) Get(name string) (string, bool) {
	if sp.Partials == nil {
		return "", false
	}
	data, ok := sp.Partials[name]
	return data, ok
}

var _ PartialProvider = (*StaticProvider)(nil)

// indentLineRE matches each non-empty line of a partial's text; it is the
// same trick hayeah-mustache/partials.go uses to apply partial indentation,
// kept verbatim: it prepends indent to every non-empty line and leaves
// every empty line, interior or trailing, without indent.
var indentLineRE = regexp.MustCompile(`(?m:^(.+)$)`)

func applyIndent(text, indent string) string {
	if indent == "" {
		return text
	}
	return indentLineRE.ReplaceAllString(text, indent+"$1")
}
