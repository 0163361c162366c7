package models

import "time"

type Comment struct {
	CommentID string    `bson:"commentId" json:"commentId"`
	RecipeID  string    `bson:"recipeId" json:"recipeId"`
	AuthorID  string    `bson:"authorId" json:"authorId"`
	Content   string    `bson:"content" json:"content"`
	LikeCount int       `bson:"likeCount" json:"likeCount"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CommentWithAuthor struct {
	Comment `bson:",inline"`
	Author  Author `json:"author"`
}
