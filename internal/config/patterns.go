package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/uivet/uivet/pkg/frameworks"
	"github.com/uivet/uivet/pkg/imports"
)

// ErrInvalidPatternFile reports a custom pattern file that failed schema
// validation.
var ErrInvalidPatternFile = errors.New("invalid pattern file")

// patternFileSchema validates custom import-pattern files before they
// are merged into the builtin vocabulary. Rejecting malformed files at
// load time keeps hand-edited YAML from silently dropping patterns.
const patternFileSchema = `{
  "type": "object",
  "required": ["patterns"],
  "additionalProperties": false,
  "properties": {
    "patterns": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["usage", "import"],
          "additionalProperties": false,
          "properties": {
            "usage":  {"type": "string", "minLength": 1},
            "import": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`

// patternFile is the YAML shape of a custom pattern file.
type patternFile struct {
	Patterns map[string][]imports.Pattern `yaml:"patterns"`
}

// LoadPatterns returns the import vocabulary: the builtin table, merged
// with the custom pattern file named in cfg when one is configured.
func LoadPatterns(cfg PatternsConfig) (imports.Table, error) {
	builtin := imports.Builtin()

	if cfg.File == "" {
		return builtin, nil
	}

	extra, err := readPatternFile(cfg.File)
	if err != nil {
		return nil, err
	}

	return builtin.Merge(extra), nil
}

// readPatternFile loads, schema-validates and parses one pattern file.
func readPatternFile(path string) (imports.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	var doc any

	unmarshalErr := yaml.Unmarshal(raw, &doc)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("parse pattern file %s: %w", path, unmarshalErr)
	}

	validateErr := validatePatternDoc(path, doc)
	if validateErr != nil {
		return nil, validateErr
	}

	var file patternFile

	typedErr := yaml.Unmarshal(raw, &file)
	if typedErr != nil {
		return nil, fmt.Errorf("parse pattern file %s: %w", path, typedErr)
	}

	table := make(imports.Table, len(file.Patterns))

	for name, patterns := range file.Patterns {
		fw, parseErr := frameworks.Parse(name)
		if parseErr != nil {
			return nil, fmt.Errorf("pattern file %s: %w", path, parseErr)
		}

		table[fw] = patterns
	}

	return table, nil
}

// validatePatternDoc runs the embedded JSON schema over the decoded
// document.
func validatePatternDoc(path string, doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(patternFileSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate pattern file %s: %w", path, err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s: %s", ErrInvalidPatternFile, path, strings.Join(details, "; "))
}
