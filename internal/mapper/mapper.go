// Package mapper turns parsed model output into domain records.
//
// Each item is checked against a JSON Schema before it is decoded. An item
// that fails any rule is reported as a StructuralError and never patched.
package mapper

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"github.com/pageza/pantrychef/backend/internal/apperrors"
	"github.com/pageza/pantrychef/backend/internal/model"
)

//go:embed schema/*.json
var schemaFS embed.FS

// maxIDAttempts bounds how often a colliding identifier is redrawn before a
// numeric suffix is used instead.
const maxIDAttempts = 5

// IDGenerator returns a new recipe identifier
type IDGenerator func() string

// StructuralError describes why one item of a batch was rejected
type StructuralError struct {
	Index  int                    `json:"index"`
	Fields []apperrors.FieldError `json:"fields"`
}

func (e *StructuralError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("item %d: %s", e.Index, strings.Join(parts, "; "))
}

// RecipeResult holds exactly one of Recipe or Err
type RecipeResult struct {
	Recipe *model.Recipe
	Err    *StructuralError
}

// SubstitutionResult holds exactly one of Substitution or Err
type SubstitutionResult struct {
	Substitution *model.Substitution
	Err          *StructuralError
}

// Mapper validates and decodes model output
type Mapper struct {
	recipeSchema       *gojsonschema.Schema
	substitutionSchema *gojsonschema.Schema
	newID              IDGenerator
}

// Option configures a Mapper
type Option func(*Mapper)

// WithIDGenerator replaces the default uuid generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Mapper) {
		m.newID = gen
	}
}

// New compiles the embedded schemas
func New(opts ...Option) (*Mapper, error) {
	recipeSchema, err := loadSchema("schema/recipe.json")
	if err != nil {
		return nil, err
	}
	substitutionSchema, err := loadSchema("schema/substitution.json")
	if err != nil {
		return nil, err
	}

	m := &Mapper{
		recipeSchema:       recipeSchema,
		substitutionSchema: substitutionSchema,
		newID:              uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func loadSchema(name string) (*gojsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return schema, nil
}

// MapRecipes validates every item and assigns identifiers to the valid ones.
// Results keep the input order. Identifiers are unique within the batch; any
// id supplied by the model is discarded.
func (m *Mapper) MapRecipes(items []json.RawMessage) []RecipeResult {
	results := make([]RecipeResult, len(items))
	used := make(map[string]struct{}, len(items))

	for i, raw := range items {
		var recipe model.Recipe
		if serr := m.decode(m.recipeSchema, i, raw, &recipe); serr != nil {
			results[i] = RecipeResult{Err: serr}
			continue
		}
		if recipe.Substitutions == nil {
			recipe.Substitutions = map[string]string{}
		}
		if recipe.Tags == nil {
			recipe.Tags = []string{}
		}
		recipe.ID = m.uniqueID(used)
		used[recipe.ID] = struct{}{}
		results[i] = RecipeResult{Recipe: &recipe}
	}
	return results
}

// MapSubstitutions validates every substitution item
func (m *Mapper) MapSubstitutions(items []json.RawMessage) []SubstitutionResult {
	results := make([]SubstitutionResult, len(items))
	for i, raw := range items {
		var sub model.Substitution
		if serr := m.decode(m.substitutionSchema, i, raw, &sub); serr != nil {
			results[i] = SubstitutionResult{Err: serr}
			continue
		}
		for j := range sub.Alternatives {
			if sub.Alternatives[j].DietaryTags == nil {
				sub.Alternatives[j].DietaryTags = []string{}
			}
		}
		results[i] = SubstitutionResult{Substitution: &sub}
	}
	return results
}

func (m *Mapper) decode(schema *gojsonschema.Schema, index int, raw json.RawMessage, dst interface{}) *StructuralError {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &StructuralError{Index: index, Fields: []apperrors.FieldError{{Field: "(root)", Message: err.Error()}}}
	}

	if !result.Valid() {
		fields := make([]apperrors.FieldError, len(result.Errors()))
		for i, desc := range result.Errors() {
			fields[i] = apperrors.FieldError{Field: desc.Field(), Message: desc.Description()}
		}
		return &StructuralError{Index: index, Fields: fields}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &StructuralError{Index: index, Fields: []apperrors.FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return nil
}

func (m *Mapper) uniqueID(used map[string]struct{}) string {
	taken := func(id string) bool {
		if id == "" {
			return true
		}
		_, ok := used[id]
		return ok
	}

	id := m.newID()
	for attempt := 1; attempt < maxIDAttempts && taken(id); attempt++ {
		id = m.newID()
	}

	base := id
	if base == "" {
		base = "recipe"
	}
	for n := 2; taken(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	return id
}

// PartitionRecipes splits results into accepted recipes and rejections
func PartitionRecipes(results []RecipeResult) ([]model.Recipe, []*StructuralError) {
	recipes := make([]model.Recipe, 0, len(results))
	var rejected []*StructuralError
	for _, r := range results {
		if r.Err != nil {
			rejected = append(rejected, r.Err)
			continue
		}
		recipes = append(recipes, *r.Recipe)
	}
	return recipes, rejected
}

// PartitionSubstitutions splits results into accepted substitutions and rejections
func PartitionSubstitutions(results []SubstitutionResult) ([]model.Substitution, []*StructuralError) {
	subs := make([]model.Substitution, 0, len(results))
	var rejected []*StructuralError
	for _, r := range results {
		if r.Err != nil {
			rejected = append(rejected, r.Err)
			continue
		}
		subs = append(subs, *r.Substitution)
	}
	return subs, rejected
}
