package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Task is the only entity. ID is assigned by the store on insert and never changes.
type Task struct {
	ID    primitive.ObjectID
	Title string
}
