package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is an account that can log in. Role is "admin" for flow authors and
// "user" for respondents.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"password,omitempty"` // cleared before any response is sent
	Role     string             `bson:"role" json:"role"`
}
