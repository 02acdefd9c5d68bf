package favclient

const favoriteFragment = `
fragment FavoriteFields on Favorite {
  id
  isDeleted
  order
  createdAt
  updatedAt
  user { id email name }
  tour { id title location price imageUrl }
}`

// GraphQL documents sent by Client
const (
	GetFavoritesQuery = `query GetFavorites($limit: Int, $offset: Int) {
  getFavorites(limit: $limit, offset: $offset) {
    success
    message
    total
    favorites { ...FavoriteFields }
  }
}` + favoriteFragment

	IsFavoriteQuery = `query IsFavorite($tourId: ID!) {
  isFavorite(tourId: $tourId)
}`

	GetTourFavoritesQuery = `query GetTourFavorites($tourId: ID!) {
  getTourFavorites(tourId: $tourId) {
    success
    message
    total
    favorites { ...FavoriteFields }
  }
}` + favoriteFragment

	AddToFavoritesMutation = `mutation AddToFavorites($tourId: ID!) {
  addToFavorites(tourId: $tourId) {
    success
    message
    favorite { ...FavoriteFields }
  }
}` + favoriteFragment

	RemoveFromFavoritesMutation = `mutation RemoveFromFavorites($tourId: ID!) {
  removeFromFavorites(tourId: $tourId) {
    success
    message
    favorite { ...FavoriteFields }
  }
}` + favoriteFragment

	ToggleFavoriteMutation = `mutation ToggleFavorite($tourId: ID!) {
  toggleFavorite(tourId: $tourId) {
    success
    message
    favorite { ...FavoriteFields }
  }
}` + favoriteFragment

	ReorderFavoritesMutation = `mutation ReorderFavorites($favoriteIds: [ID!]!) {
  reorderFavorites(favoriteIds: $favoriteIds) {
    success
    message
    favorites { ...FavoriteFields }
  }
}` + favoriteFragment
)

// Operations lists every document the client sends, keyed by operation name
var Operations = map[string]string{
	"GetFavorites":        GetFavoritesQuery,
	"IsFavorite":          IsFavoriteQuery,
	"GetTourFavorites":    GetTourFavoritesQuery,
	"AddToFavorites":      AddToFavoritesMutation,
	"RemoveFromFavorites": RemoveFromFavoritesMutation,
	"ToggleFavorite":      ToggleFavoriteMutation,
	"ReorderFavorites":    ReorderFavoritesMutation,
}
