// Package schema validates package parts against the standards schemas for
// their part type and applies the narrow auto-repair pass that precedes
// validation.
//
// Schemas are loaded from a directory of .xsd files laid out as the
// standards bundle ships them. A missing or unparsable schema degrades to
// "no schema check for this part" rather than failing the pipeline.
package schema

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// schemaFiles maps a part selector to the schema file inside the schemas
// directory. Selectors are consulted in order: explicit filename, the
// .rels suffix, directory rules for charts and themes, then the generic
// rule for anything under ppt/.
var schemaFiles = map[string]string{
	"ppt":                 "ISO-IEC29500-4_2016/pml.xsd",
	"[Content_Types].xml": "ecma/fouth-edition/opc-contentTypes.xsd",
	"app.xml":             "ISO-IEC29500-4_2016/shared-documentPropertiesExtended.xsd",
	"core.xml":            "ecma/fouth-edition/opc-coreProperties.xsd",
	"custom.xml":          "ISO-IEC29500-4_2016/shared-documentPropertiesCustom.xsd",
	".rels":               "ecma/fouth-edition/opc-relationships.xsd",
	"chart":               "ISO-IEC29500-4_2016/dml-chart.xsd",
	"theme":               "ISO-IEC29500-4_2016/dml-main.xsd",
}

// FileFor returns the schema file (relative to the schemas directory) for a
// part path, or false when the part type has no schema and is skipped.
func FileFor(partPath string) (string, bool) {
	base := path.Base(partPath)
	if f, ok := schemaFiles[base]; ok {
		return f, true
	}
	if strings.HasSuffix(partPath, ".rels") {
		return schemaFiles[".rels"], true
	}
	if strings.Contains(partPath, "charts/") && strings.HasPrefix(base, "chart") {
		return schemaFiles["chart"], true
	}
	if strings.Contains(partPath, "theme/") && strings.HasPrefix(base, "theme") {
		return schemaFiles["theme"], true
	}
	if strings.HasPrefix(partPath, "ppt/") {
		return schemaFiles["ppt"], true
	}
	return "", false
}

// EnvSchemaDir is the environment variable naming the schemas directory.
const EnvSchemaDir = "DECKPACK_SCHEMA_DIR"

// ErrNoSchemaDir indicates no schemas directory could be located.
var ErrNoSchemaDir = errors.New("schemas directory not found")

// FindSchemaDir locates the directory holding the .xsd bundle: the explicit
// path if given, then the environment variable, then "schemas" under the
// working directory.
func FindSchemaDir(explicit string) (string, error) {
	candidates := []string{explicit, os.Getenv(EnvSchemaDir), "schemas"}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return filepath.Clean(c), nil
		}
	}
	return "", ErrNoSchemaDir
}
