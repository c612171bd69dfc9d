package models

import "time"

// Base carries the document id shared by every stored record.
type Base struct {
	ID string `bson:"_id" json:"id"`
}

func (b *Base) GetID() string {
	return b.ID
}

func (b *Base) SetID(id string) {
	b.ID = id
}

// Audit records who created and last changed a document.
type Audit struct {
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy string    `bson:"updatedBy" json:"updatedBy"`
}

// Touch stamps the update fields, and the create fields on first write.
func (a *Audit) Touch(userID string, now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		a.CreatedBy = userID
	}
	a.UpdatedAt = now
	a.UpdatedBy = userID
}

// Thumbnail points at an uploaded image. Path is the object storage key used to delete it.
type Thumbnail struct {
	URL  string `bson:"url" json:"url" validate:"required,imageurl"`
	Path string `bson:"path" json:"path"`
}

// Product names a sub-product whose content the dashboard manages.
type Product string

const (
	ProductPortfolio Product = "portfolio"
	ProductVikin     Product = "vikin"
	ProductGraphyl   Product = "graphyl"
)

func (p Product) Valid() bool {
	switch p {
	case ProductPortfolio, ProductVikin, ProductGraphyl:
		return true
	}
	return false
}
