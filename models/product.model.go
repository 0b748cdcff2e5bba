package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog document. The named fields cover everything the
// storefront reads; older documents carry assorted extra attributes, which
// land in Extra instead of being dropped on the next write.
type Product struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string                 `bson:"title" json:"title"`
	Description string                 `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64                `bson:"price" json:"price"`
	Image       string                 `bson:"image,omitempty" json:"image,omitempty"`
	Category    string                 `bson:"category,omitempty" json:"category,omitempty"`
	Stock       int                    `bson:"stock" json:"stock"`
	Extra       map[string]interface{} `bson:",inline" json:"-"`
}
