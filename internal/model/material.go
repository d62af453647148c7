package model

import "time"

const (
	SourcePDF = "pdf"
	SourceURL = "url"
)

// Material is the extracted text of an uploaded document or fetched page.
// It is written once and never updated or deleted.
type Material struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id" bson:"_id"`
	Owner      string    `gorm:"index;size:255" json:"owner,omitempty" bson:"owner"`
	Title      string    `gorm:"not null" json:"title" bson:"title"`
	SourceType string    `gorm:"size:16;not null" json:"source_type" bson:"source_type"` // "pdf", "url"
	SourceURL  string    `json:"source_url,omitempty" bson:"source_url,omitempty"`
	Content    string    `gorm:"type:text" json:"-" bson:"content"`
	CreatedAt  time.Time `gorm:"index" json:"created_at" bson:"created_at"`
}
