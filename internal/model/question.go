package model

// Question is one generated student question. ID is positional ("q1", "q2", ...)
// and only unique within its session.
type Question struct {
	ID       string `json:"id" bson:"id"`
	Question string `json:"question" bson:"question"`
}
