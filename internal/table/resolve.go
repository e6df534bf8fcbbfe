package table

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var aliasYAML []byte

// AliasTable maps each logical field to an ordered priority list of
// acceptable header names, most preferred first.
type AliasTable map[string][]string

// DefaultAliases returns the embedded alias table.
func DefaultAliases() (AliasTable, error) {
	var t AliasTable
	if err := yaml.Unmarshal(aliasYAML, &t); err != nil {
		return nil, eris.Wrap(err, "table: parse alias table")
	}
	return t, nil
}

// Resolution maps logical field names to the actual input column index.
// Fields with no matching header are absent from the map.
type Resolution map[string]int

// Resolve matches input headers against the alias table, case-insensitively,
// taking the first alias present for each logical field. Headers are trimmed
// before matching. A field with no matching header simply stays unresolved;
// the normalizer fills its documented default.
func Resolve(headers []string, aliases AliasTable) Resolution {
	byName := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, seen := byName[name]; !seen {
			byName[name] = i
		}
	}

	res := make(Resolution, len(aliases))
	for logical, candidates := range aliases {
		for _, cand := range candidates {
			if idx, ok := byName[strings.ToLower(cand)]; ok {
				res[logical] = idx
				break
			}
		}
	}
	return res
}

// MissingRequired returns the required logical fields absent from the
// resolution, in RequiredFields order.
func (r Resolution) MissingRequired() []string {
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := r[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
