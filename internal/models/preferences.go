// internal/models/preferences.go
package models

type UserPreferenceProfile struct {
	FavoriteCuisines      []string `json:"favoriteCuisines"`
	FavoriteActivityTypes []string `json:"favoriteActivityTypes"`
	AvoidedActivityTypes  []string `json:"avoidedActivityTypes"`
}
