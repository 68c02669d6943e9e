package declaration

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidHints is wrapped when pruned hints do not match the hints schema.
var ErrInvalidHints = errors.New("invalid declaration hints")

//go:embed hints.schema.json
var hintsSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("hints.schema.json", bytes.NewReader(hintsSchema)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("hints.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateHints checks pruned hints against the embedded schema.
func ValidateHints(hints map[string]any) error {
	s, err := schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(hints)
	if err != nil {
		return fmt.Errorf("marshal hints: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal hints: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHints, err)
	}
	return nil
}
