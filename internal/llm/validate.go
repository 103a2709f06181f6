package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaSet holds compiled schemas keyed by Schema.Name.
type schemaSet struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

var schemas = &schemaSet{compiled: make(map[string]*jsonschema.Schema)}

func (s *schemaSet) get(schema *Schema) (*jsonschema.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.compiled[schema.Name]; ok {
		return c, nil
	}

	// The compiler wants decoded JSON values, not Go maps of arbitrary types.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %q: %w", schema.Name, err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", schema.Name, err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("load schema %q: %w", schema.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}
	s.compiled[schema.Name] = compiled
	return compiled, nil
}

// validateResponse checks raw against schema. A nil schema accepts
// anything; every failure is an *ErrInvalidResponse.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(err error) error { return &ErrInvalidResponse{Content: raw, Err: err} }

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return invalid(fmt.Errorf("not JSON: %w", err))
	}
	compiled, err := schemas.get(schema)
	if err != nil {
		return invalid(err)
	}
	if err := compiled.Validate(v); err != nil {
		return invalid(fmt.Errorf("does not match %s: %w", schema.Name, err))
	}
	return nil
}

// trimJSON digs the JSON document out of a model reply: surrounding
// space, a markdown fence, or a sentence of prose before and after the
// object. Text without an object or array is returned trimmed.
func trimJSON(raw json.RawMessage) json.RawMessage {
	s := strings.TrimSpace(string(raw))
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "```"))
	}

	start := strings.IndexAny(s, "{[")
	if start <= 0 {
		return json.RawMessage(s)
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	if end := strings.LastIndexByte(s, closer); end > start {
		return json.RawMessage(s[start : end+1])
	}
	return json.RawMessage(s)
}
