package models

type User struct {
	ID           string   `json:"id" bson:"_id,omitempty"`
	Name         string   `json:"name" bson:"name"`
	Email        string   `json:"email" bson:"email"`
	PasswordHash string   `json:"-" bson:"password_hash"`
	Places       []string `json:"places" bson:"places"`
}

// AddPlace appends a place reference, keeping insertion order.
func (u *User) AddPlace(placeID string) {
	u.Places = append(u.Places, placeID)
}

// RemovePlace removes a place reference. Returns false when the id was
// not referenced by this user.
func (u *User) RemovePlace(placeID string) bool {
	for i, id := range u.Places {
		if id == placeID {
			u.Places = append(u.Places[:i], u.Places[i+1:]...)
			return true
		}
	}
	return false
}

// OwnsPlace reports whether the user's places collection references placeID.
func (u *User) OwnsPlace(placeID string) bool {
	for _, id := range u.Places {
		if id == placeID {
			return true
		}
	}
	return false
}
