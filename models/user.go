package models

// User is the local projection of a user record held in the document
// store. ID is the stable external identifier, distinct from the store's
// own document key.
type User struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Role     string `bson:"role" json:"role"`
}
