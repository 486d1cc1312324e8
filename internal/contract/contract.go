// Package contract pins the machine readable output shape to a formal JSON
// Schema. The schema document is the source of truth for consumers and must
// change in lockstep with the result structs; Validate lets tests and
// tooling verify emitted JSON against it.
package contract

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed result.schema.json
var schemaJSON []byte

const schemaURL = "actioncheck://contract/result.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Schema returns the raw schema document.
func Schema() []byte {
	return schemaJSON
}

// Validate checks that data conforms to the versioned output contract.
// It accepts either the single-file or the batch shape.
func Validate(data []byte) error {
	sch, err := compile()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse output document: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("output does not conform to contract: %w", err)
	}
	return nil
}

func compile() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("register schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}
