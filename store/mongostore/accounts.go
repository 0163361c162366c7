package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"morsel/models"
	"morsel/store"
)

func (m *Mongo) GetAccount(ctx context.Context, userID string) (models.Account, error) {
	var acct models.Account
	err := m.accounts.FindOne(ctx, bson.M{"userid": userID}).Decode(&acct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Account{}, store.ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	if acct.Favorites == nil {
		acct.Favorites = []string{}
	}
	return acct, nil
}

func (m *Mongo) InsertAccount(ctx context.Context, acct models.Account) error {
	_, err := m.accounts.InsertOne(ctx, acct)
	return err
}

func (m *Mongo) UpdateAccount(ctx context.Context, userID string, fields map[string]any) error {
	update := bson.M{}
	for k, v := range fields {
		update[k] = v
	}
	update["updatedAt"] = time.Now()

	res, err := m.accounts.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (m *Mongo) AddFavorite(ctx context.Context, userID, recipeID string) error {
	res, err := m.accounts.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{
		"$addToSet": bson.M{"favorites": recipeID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (m *Mongo) RemoveFavorite(ctx context.Context, userID, recipeID string) error {
	res, err := m.accounts.UpdateOne(ctx, bson.M{"userid": userID}, bson.M{
		"$pull": bson.M{"favorites": recipeID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (m *Mongo) GetCredentialByEmail(ctx context.Context, email string) (models.Credential, error) {
	var cred models.Credential
	err := m.credentials.FindOne(ctx, bson.M{"email": email}).Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Credential{}, store.ErrNotFound
	}
	if err != nil {
		return models.Credential{}, err
	}
	return cred, nil
}

func (m *Mongo) InsertCredential(ctx context.Context, cred models.Credential) error {
	_, err := m.credentials.InsertOne(ctx, cred)
	return err
}
