package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog/log"
)

// SDL is the favorites GraphQL schema
//
//go:embed schema.graphql
var SDL string

const maxQueryDepth = 8

// panicLogger reports resolver panics through zerolog
type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	log.Error().
		Str("panic", fmt.Sprintf("%v", value)).
		Msg("GraphQL resolver panicked")
}

// Parse builds the executable schema around the root resolver
func Parse(root interface{}) (*graphql.Schema, error) {
	return graphql.ParseSchema(SDL, root,
		graphql.Logger(panicLogger{}),
		graphql.MaxDepth(maxQueryDepth),
	)
}

// MustParse is Parse that panics on error
func MustParse(root interface{}) *graphql.Schema {
	s, err := Parse(root)
	if err != nil {
		panic(fmt.Sprintf("failed to parse GraphQL schema: %v", err))
	}
	return s
}
