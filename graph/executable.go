package graph

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

//go:embed schema.graphqls
var schemaSDL string

// Schema is the parsed registration schema.
var Schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSDL})

// Config wires the resolvers into the executable schema.
type Config struct {
	Resolvers *Resolver
}

// NewExecutableSchema creates an ExecutableSchema from the Config.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{
		schema:   Schema,
		query:    cfg.Resolvers.queryFields(),
		mutation: cfg.Resolvers.mutationFields(),
	}
}

// executableSchema resolves root fields in selection order. The first field
// that fails ends the operation with null data, so later mutations never run.
type executableSchema struct {
	schema   *ast.Schema
	query    map[string]fieldFunc
	mutation map[string]fieldFunc
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema
}

func (e *executableSchema) Complexity(ctx context.Context, typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)

	var (
		fields   map[string]fieldFunc
		typeName string
	)
	switch opCtx.Operation.Operation {
	case ast.Query:
		fields, typeName = e.query, "Query"
	case ast.Mutation:
		fields, typeName = e.mutation, "Mutation"
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}

	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false
		return &graphql.Response{Data: e.execRoot(ctx, opCtx, typeName, fields)}
	}
}

func (e *executableSchema) execRoot(ctx context.Context, opCtx *graphql.OperationContext, typeName string, fields map[string]fieldFunc) json.RawMessage {
	data := newObject()
	for _, f := range graphql.CollectFields(opCtx, opCtx.Operation.SelectionSet, []string{typeName}) {
		args := f.ArgumentMap(opCtx.Variables)
		fctx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
			Object:     typeName,
			Field:      f,
			Args:       args,
			IsMethod:   true,
			IsResolver: true,
		})

		switch f.Name {
		case "__typename":
			data.set(f.Alias, typeName)
			continue
		case "__schema", "__type":
			graphql.AddError(fctx, gqlerror.Errorf("introspection disabled"))
			return nil
		}

		resolve, ok := fields[f.Name]
		if !ok {
			graphql.AddError(fctx, gqlerror.Errorf("%s is not supported", f.Name))
			return nil
		}

		value, err := resolveField(fctx, opCtx, resolve, f, args)
		if err != nil {
			graphql.AddError(fctx, err)
			return nil
		}
		data.set(f.Alias, value)
	}

	b, err := json.Marshal(data)
	if err != nil {
		graphql.AddError(ctx, err)
		return nil
	}
	return b
}

func resolveField(ctx context.Context, opCtx *graphql.OperationContext, fn fieldFunc, f graphql.CollectedField, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, graphql.Recover(ctx, r)
		}
	}()

	result, err := fn(ctx, args)
	if err != nil {
		return nil, err
	}
	return project(opCtx, result, f)
}

// project shapes a resolver result to the field's selection set.
func project(opCtx *graphql.OperationContext, result any, f graphql.CollectedField) (any, error) {
	if len(f.Selections) == 0 {
		return result, nil
	}

	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Name, err)
	}
	var values map[string]any
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("encode %s: %w", f.Name, err)
	}
	if values == nil {
		return nil, nil
	}
	return projectObject(opCtx, values, f), nil
}

func projectObject(opCtx *graphql.OperationContext, values map[string]any, f graphql.CollectedField) *object {
	typeName := f.Definition.Type.Name()
	obj := newObject()
	for _, sub := range graphql.CollectFields(opCtx, f.Selections, []string{typeName}) {
		if sub.Name == "__typename" {
			obj.set(sub.Alias, typeName)
			continue
		}
		v := values[sub.Name]
		if nested, ok := v.(map[string]any); ok && len(sub.Selections) > 0 {
			obj.set(sub.Alias, projectObject(opCtx, nested, sub))
			continue
		}
		obj.set(sub.Alias, v)
	}
	return obj
}

// object is a JSON object that keeps the order fields were selected in.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: map[string]any{}}
}

func (o *object) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
