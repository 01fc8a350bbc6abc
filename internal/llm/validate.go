package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemas compiles each Schema once, keyed by name.
var schemas = &schemaSet{compiled: map[string]*jsonschema.Schema{}}

type schemaSet struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// check validates raw against s. Failures are *InvalidOutputError.
func (set *schemaSet) check(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	invalid := func(err error) error {
		return &InvalidOutputError{Content: raw, Err: err}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid(fmt.Errorf("not JSON: %w", err))
	}
	sch, err := set.get(s)
	if err != nil {
		return invalid(err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid(err)
	}
	return nil
}

func (set *schemaSet) get(s *Schema) (*jsonschema.Schema, error) {
	set.mu.Lock()
	defer set.mu.Unlock()

	if sch, ok := set.compiled[s.Name]; ok {
		return sch, nil
	}

	def, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}

	url := "mem://speakup/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", s.Name, err)
	}
	set.compiled[s.Name] = sch
	return sch, nil
}
