package layout

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"relayout/internal/alphabet"
)

//go:embed layouts.json
var builtinSource []byte

//go:embed layouts.schema.json
var sourceSchema []byte

// source mirrors the external layout JSON format: a "map" object keyed by
// physical-key id, each value a per-layout object with "n" (normal) and
// "s" (shift) character fields, plus a "layouts" array.
type source struct {
	Layouts []sourceLayout                     `json:"layouts"`
	Map     map[string]map[string]sourceChars `json:"map"`
}

type sourceLayout struct {
	ID   string `json:"id"`
	Lang string `json:"lang"`
}

type sourceChars struct {
	Normal string `json:"n,omitempty"`
	Shift  string `json:"s,omitempty"`
}

// LoadSet reads and validates a layout source file. A malformed or missing
// source is a configuration error: fatal, surfaced immediately.
func LoadSet(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read source: %w", err)
	}
	set, err := parseSet(data)
	if err != nil {
		return nil, fmt.Errorf("layout: source %s: %w", path, err)
	}
	return set, nil
}

// BuiltinSet returns the layout set compiled into the binary.
func BuiltinSet() *Set {
	set, err := parseSet(builtinSource)
	if err != nil {
		// The embedded source is validated by tests; failing here means the
		// binary itself is broken.
		panic(fmt.Sprintf("layout: builtin source: %v", err))
	}
	return set
}

func parseSet(data []byte) (*Set, error) {
	if err := validateSource(data); err != nil {
		return nil, err
	}

	var src source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	set := newSet()
	for _, sl := range src.Layouts {
		lang, err := alphabet.Parse(sl.Lang)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", sl.ID, err)
		}
		if _, dup := set.byID[sl.ID]; dup {
			return nil, fmt.Errorf("duplicate layout id %q", sl.ID)
		}
		set.add(&Definition{
			ID:   sl.ID,
			Lang: lang,
			Keys: make(map[PhysicalKey]KeyChars),
		})
	}

	for keyID, perLayout := range src.Map {
		for layoutID, chars := range perLayout {
			def, ok := set.byID[layoutID]
			if !ok {
				// Layouts not declared in the "layouts" array are ignored.
				continue
			}
			kc, err := decodeChars(chars)
			if err != nil {
				return nil, fmt.Errorf("key %q layout %q: %w", keyID, layoutID, err)
			}
			def.Keys[PhysicalKey(keyID)] = kc
		}
	}

	return set, nil
}

func decodeChars(sc sourceChars) (KeyChars, error) {
	var kc KeyChars
	if sc.Normal != "" {
		r, size := utf8.DecodeRuneInString(sc.Normal)
		if r == utf8.RuneError || size != len(sc.Normal) {
			return kc, fmt.Errorf("base value %q is not a single character", sc.Normal)
		}
		kc.Base = r
	}
	if sc.Shift != "" {
		r, size := utf8.DecodeRuneInString(sc.Shift)
		if r == utf8.RuneError || size != len(sc.Shift) {
			return kc, fmt.Errorf("shift value %q is not a single character", sc.Shift)
		}
		kc.Shift = r
	}
	return kc, nil
}

func validateSource(data []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("layouts.schema.json", bytes.NewReader(sourceSchema)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	schema, err := compiler.Compile("layouts.schema.json")
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}
