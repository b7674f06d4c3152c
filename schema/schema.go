// Package schema derives JSON Schema function-parameter definitions from Go
// request structs, so tools can expose their input contract to the model.
package schema

import (
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	"github.com/salesdesk-ai/salesdesk/llmutils"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.RWMutex
)

type Schema struct {
	*jsonschema.Schema
	// Parameters is the inlined function parameters definition.
	Parameters *jsonschema.Schema
}

// New creates a schema from the given type. Results are cached per type.
func New(t reflect.Type) (*Schema, error) {
	cacheMu.RLock()
	s, ok := cache[t]
	cacheMu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := buildSchema(t)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[t] = s
	cacheMu.Unlock()
	return s, nil
}

// MustParameters returns the function parameters definition for the type of
// the given value, panicking on reflection failure. Meant for package-level
// tool registration where the request type is known at compile time.
func MustParameters(val any) any {
	s, err := New(reflect.TypeOf(val))
	if err != nil {
		panic(err)
	}
	return s.Parameters
}

func (s *Schema) String() string {
	return llmutils.ToJSONIndent(s.Parameters)
}

func buildSchema(t reflect.Type) (*Schema, error) {
	r := new(jsonschema.Reflector)
	js := r.ReflectFromType(t)

	params, err := toFunctionSchema(js)
	if err != nil {
		return nil, err
	}
	return &Schema{
		Schema:     js,
		Parameters: params,
	}, nil
}

// toFunctionSchema inlines the reflected root definition and its $defs into a
// single self-contained parameters object, the shape function-calling APIs
// expect.
func toFunctionSchema(tSchema *jsonschema.Schema) (*jsonschema.Schema, error) {
	rootID := strings.TrimPrefix(tSchema.Ref, "#/$defs/")

	defs := make(map[string]*jsonschema.Schema)
	var root *jsonschema.Schema
	for name, def := range tSchema.Definitions {
		if name == rootID {
			root = def
		} else {
			defs[name] = def
		}
	}
	if root == nil {
		return nil, errors.Newf("schema: root definition %q not found", rootID)
	}

	res := &jsonschema.Schema{
		Type:       root.Type,
		Properties: root.Properties,
		Required:   root.Required,
	}
	if err := resolveRefs(res.Properties, defs); err != nil {
		return nil, err
	}
	return res, nil
}

func resolveRefs(props *orderedmap.OrderedMap[string, *jsonschema.Schema], defs map[string]*jsonschema.Schema) error {
	if props == nil {
		return nil
	}
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		child := pair.Value
		if child.Ref != "" {
			name := strings.TrimPrefix(child.Ref, "#/$defs/")
			def, ok := defs[name]
			if !ok {
				return errors.Newf("schema: unresolved $ref %q", child.Ref)
			}
			pair.Value = def
			child = def
		}
		if child.Items != nil && child.Items.Ref != "" {
			name := strings.TrimPrefix(child.Items.Ref, "#/$defs/")
			def, ok := defs[name]
			if !ok {
				return errors.Newf("schema: unresolved $ref %q", child.Items.Ref)
			}
			child.Items = def
		}
		if err := resolveRefs(child.Properties, defs); err != nil {
			return err
		}
	}
	return nil
}
