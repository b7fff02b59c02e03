package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/basepair-labs/sufftree/pkg/alphabet"
)

// ErrCustomAlphabetSchema is returned when a custom alphabet JSON document
// fails schema validation.
var ErrCustomAlphabetSchema = errors.New("custom alphabet document failed schema validation")

// customAlphabetSchema constrains a user-supplied alphabet document to a
// non-empty string of symbols plus a single-character terminator, checked
// before the document ever reaches pkg/alphabet.FromJSON. The schema does
// not require the symbols to be distinct; FromJSON counts a repeated
// symbol once.
const customAlphabetSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["symbols", "terminator"],
	"properties": {
		"symbols": {"type": "string", "minLength": 1},
		"terminator": {"type": "string", "minLength": 1, "maxLength": 1}
	}
}`

type customAlphabetDoc struct {
	Symbols    string `json:"symbols"`
	Terminator string `json:"terminator"`
}

// ResolveAlphabet builds the [alphabet.Alphabet] named by cfg: one of the
// built-in "dna", "dna-n", "protein", or "custom" (which reads and
// schema-validates a JSON document from cfg.CustomPath).
func ResolveAlphabet(cfg AlphabetConfig) (alphabet.Alphabet, error) {
	switch cfg.Name {
	case "dna":
		return alphabet.DNA(), nil
	case "dna-n":
		return alphabet.DNAWithN(), nil
	case "protein":
		return alphabet.Protein(), nil
	case "custom":
		return loadCustomAlphabet(cfg.CustomPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlphabet, cfg.Name)
	}
}

func loadCustomAlphabet(path string) (alphabet.Alphabet, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // operator-supplied CLI path, not user-controlled server input.
	if err != nil {
		return nil, fmt.Errorf("read custom alphabet file: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(customAlphabetSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate custom alphabet document: %w", err)
	}

	if !result.Valid() {
		errs := make([]error, 0, len(result.Errors()))

		for _, e := range result.Errors() {
			errs = append(errs, errors.New(e.String()))
		}

		return nil, fmt.Errorf("%w: %w", ErrCustomAlphabetSchema, errors.Join(errs...))
	}

	var doc customAlphabetDoc

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode custom alphabet document: %w", err)
	}

	return alphabet.FromJSON([]byte(doc.Symbols), doc.Terminator[0])
}
