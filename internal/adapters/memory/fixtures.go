package memory

import "github.com/zatekoja/tourbooking/backend/internal/domain/entities"

func price(v float64) *float64 { return &v }

// FixtureTours is the demo catalogue loaded with SEED_FIXTURES=true
func FixtureTours() []*entities.Tour {
	return []*entities.Tour{
		{ID: "tour-lisbon-food", Title: "Lisbon Food Walk", Location: "Lisbon, Portugal", Price: price(65), ImageURL: "https://images.example.com/tours/lisbon-food.jpg", IsActive: true},
		{ID: "tour-kyoto-temples", Title: "Kyoto Temples at Dawn", Location: "Kyoto, Japan", Price: price(120), ImageURL: "https://images.example.com/tours/kyoto-temples.jpg", IsActive: true},
		{ID: "tour-patagonia-trek", Title: "Torres del Paine W Trek", Location: "Patagonia, Chile", Price: price(1450), ImageURL: "https://images.example.com/tours/patagonia.jpg", IsActive: true},
		{ID: "tour-reykjavik-lights", Title: "Northern Lights Hunt", Location: "Reykjavik, Iceland", Price: price(89.5), ImageURL: "https://images.example.com/tours/aurora.jpg", IsActive: true},
		{ID: "tour-cairo-pyramids", Title: "Giza Pyramids Day Trip", Location: "Cairo, Egypt", IsActive: true},
		{ID: "tour-venice-gondola", Title: "Venice Gondola Evening", Location: "Venice, Italy", Price: price(80), IsActive: false},
	}
}

// FixtureUsers is the demo user set loaded with SEED_FIXTURES=true
func FixtureUsers() []*entities.User {
	return []*entities.User{
		{ID: "user-demo", Email: "demo@tourbooking.example.com", Name: "Demo Traveller", Role: entities.UserRoleUser},
		{ID: "user-admin", Email: "admin@tourbooking.example.com", Name: "Catalogue Admin", Role: entities.UserRoleAdmin},
	}
}
