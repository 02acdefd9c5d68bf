package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func loadSchema(t *testing.T) *ast.Schema {
	t.Helper()
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: SDL})
	require.Nil(t, err)
	return s
}

func fieldType(t *testing.T, s *ast.Schema, typeName, field string) string {
	t.Helper()
	def := s.Types[typeName]
	require.NotNil(t, def, "type %s", typeName)
	f := def.Fields.ForName(field)
	require.NotNil(t, f, "%s.%s", typeName, field)
	return f.Type.String()
}

func TestSDL_FavoriteTypesAreExact(t *testing.T) {
	s := loadSchema(t)

	expected := map[string]map[string]string{
		"Favorite": {
			"id": "ID!", "user": "User!", "tour": "Tour!", "isDeleted": "Boolean",
			"order": "Int", "createdAt": "String!", "updatedAt": "String!",
		},
		"FavoriteResponse":      {"success": "Boolean!", "message": "String!", "favorite": "Favorite"},
		"FavoritesListResponse": {"success": "Boolean!", "message": "String!", "favorites": "[Favorite!]!", "total": "Int!"},
		"ReorderResponse":       {"success": "Boolean!", "message": "String!", "favorites": "[Favorite!]!"},
	}

	for typeName, fields := range expected {
		assert.Len(t, s.Types[typeName].Fields, len(fields), typeName)
		for field, want := range fields {
			assert.Equal(t, want, fieldType(t, s, typeName, field), "%s.%s", typeName, field)
		}
	}
}

func TestSDL_OperationsAreExact(t *testing.T) {
	s := loadSchema(t)

	tests := []struct {
		root, field, result string
		args                map[string]string
	}{
		{"Query", "getFavorites", "FavoritesListResponse!", map[string]string{"limit": "Int", "offset": "Int"}},
		{"Query", "isFavorite", "Boolean!", map[string]string{"tourId": "ID!"}},
		{"Query", "getTourFavorites", "FavoritesListResponse!", map[string]string{"tourId": "ID!"}},
		{"Mutation", "addToFavorites", "FavoriteResponse!", map[string]string{"tourId": "ID!"}},
		{"Mutation", "removeFromFavorites", "FavoriteResponse!", map[string]string{"tourId": "ID!"}},
		{"Mutation", "toggleFavorite", "FavoriteResponse!", map[string]string{"tourId": "ID!"}},
		{"Mutation", "reorderFavorites", "ReorderResponse!", map[string]string{"favoriteIds": "[ID!]!"}},
	}

	for _, tt := range tests {
		t.Run(tt.root+"."+tt.field, func(t *testing.T) {
			f := s.Types[tt.root].Fields.ForName(tt.field)
			require.NotNil(t, f)
			assert.Equal(t, tt.result, f.Type.String())
			require.Len(t, f.Arguments, len(tt.args))
			for name, want := range tt.args {
				arg := f.Arguments.ForName(name)
				require.NotNil(t, arg, name)
				assert.Equal(t, want, arg.Type.String())
			}
		})
	}
}

type emptyRoot struct{}

func TestParse_RejectsIncompleteResolver(t *testing.T) {
	_, err := Parse(&emptyRoot{})
	assert.Error(t, err)
}
