// Package mongostore implements store.Store on MongoDB. Counter-plus-set
// pairs (likedBy/likeCount, favorites) use field-level atomic operators so
// concurrent toggles cannot lose updates.
package mongostore

import (
	"go.mongodb.org/mongo-driver/mongo"

	"morsel/db"
	"morsel/store"
)

var _ store.Store = (*Mongo)(nil)

type Mongo struct {
	accounts    *mongo.Collection
	credentials *mongo.Collection
	recipes     *mongo.Collection
	comments    *mongo.Collection
}

func New(database *mongo.Database) *Mongo {
	return &Mongo{
		accounts:    database.Collection(db.AccountsCollection),
		credentials: database.Collection(db.CredentialsCollection),
		recipes:     database.Collection(db.RecipesCollection),
		comments:    database.Collection(db.CommentsCollection),
	}
}
