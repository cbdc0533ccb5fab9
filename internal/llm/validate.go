package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds compiled plan and tutor schemas keyed by Schema.Name.
var compiledSchemas = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: map[string]*jsonschema.Schema{}}

// conformResponse checks a structured reply against schema and returns the
// JSON payload with any markdown code fence removed. Replies without a
// schema pass through untouched.
func conformResponse(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	if schema == nil {
		return raw, nil
	}

	body := stripCodeFence(raw)

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("%s does not match schema: %w", schema.Name, err)}
	}

	return body, nil
}

// stripCodeFence removes a ```json ... ``` wrapper. Some OpenRouter models add
// one even when JSON output is requested.
func stripCodeFence(raw []byte) []byte {
	body := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(body, []byte("```")) {
		return body
	}
	body = body[3:]
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	body = bytes.TrimSuffix(bytes.TrimSpace(body), []byte("```"))
	return bytes.TrimSpace(body)
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	compiledSchemas.Lock()
	defer compiledSchemas.Unlock()

	if s, ok := compiledSchemas.byName[schema.Name]; ok {
		return s, nil
	}

	// The compiler wants a decoded JSON document, not Go maps with typed slices.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", schema.Name, err)
	}

	url := "mem://studyforge/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	compiledSchemas.byName[schema.Name] = s
	return s, nil
}
