package models

// DefaultPlaceImage is used when a place is created without an image.
const DefaultPlaceImage = "https://placehold.co/600x400?text=PlaceBook"

type Place struct {
	ID          string   `json:"id" bson:"_id,omitempty"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Address     string   `json:"address" bson:"address"`
	Location    Location `json:"location" bson:"location"`
	Image       string   `json:"image" bson:"image"`
	Creator     string   `json:"creator" bson:"creator"`
}

// Location is resolved from the address at creation time and never
// recomputed afterwards.
type Location struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}
