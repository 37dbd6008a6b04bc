// Package content reads the static board setup: positions, development
// cards and faith penalties. The file is YAML with kind-tagged variants
// and is validated against an embedded JSON Schema before decoding, so
// a malformed setup is rejected with one ContentLoadError instead of
// surfacing later as a half-built board.
package content

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"magnifico/internal/domain"
)

//go:embed table.schema.json
var tableSchema string

// ErrContentLoad marks a missing or malformed setup file. It is fatal
// to the match being initialized, never to the process.
var ErrContentLoad = errors.New("content load failed")

// Table is the decoded static game content.
type Table struct {
	Positions    []*domain.Position `yaml:"positions"`
	Cards        []domain.Card      `yaml:"cards"`
	FaithEffects []domain.Effect    `yaml:"faith_effects"`
}

// Load reads and validates the setup file at path.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrContentLoad, path, err)
	}
	return Parse(raw)
}

// Parse validates and decodes a setup document.
func Parse(raw []byte) (*Table, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: parsing yaml: %v", ErrContentLoad, err)
	}

	if err := validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentLoad, err)
	}

	var table Table
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("%w: decoding table: %v", ErrContentLoad, err)
	}

	// Fresh positions per call: positions are mutable match state.
	return &table, nil
}

// NewBoard builds a board for the player count from a fresh copy of the
// table's positions, so multiple matches never share position state.
func (t *Table) NewBoard(players int) (*domain.Board, error) {
	positions := make([]*domain.Position, len(t.Positions))
	for i, p := range t.Positions {
		cp := *p
		positions[i] = &cp
	}

	board, err := domain.NewBoard(positions, players)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentLoad, err)
	}
	return board, nil
}

func validate(doc any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("table.schema.json", strings.NewReader(tableSchema)); err != nil {
		return fmt.Errorf("schema resource: %v", err)
	}
	schema, err := compiler.Compile("table.schema.json")
	if err != nil {
		return fmt.Errorf("schema compile: %v", err)
	}

	// Round-trip through JSON so the validator sees json-typed values.
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalizing document: %v", err)
	}
	var normalized any
	if err := json.Unmarshal(buf, &normalized); err != nil {
		return fmt.Errorf("normalizing document: %v", err)
	}

	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("schema validation: %v", err)
	}
	return nil
}
