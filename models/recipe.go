package models

import "time"

type Ingredient struct {
	Name string  `bson:"name" json:"name"`
	Qty  float64 `bson:"qty" json:"qty"`
	Unit string  `bson:"unit" json:"unit"`
}

type Recipe struct {
	RecipeID     string       `bson:"recipeid" json:"recipeid"`
	AuthorID     string       `bson:"authorId" json:"authorId"`
	Title        string       `bson:"title" json:"title"`
	Slug         string       `bson:"slug" json:"slug"`
	CoverURL     string       `bson:"coverUrl" json:"coverUrl"`
	Images       []string     `bson:"images" json:"images"`
	Category     string       `bson:"category" json:"category"`
	Servings     int          `bson:"servings" json:"servings"`
	Ingredients  []Ingredient `bson:"ingredients" json:"ingredients"`
	Steps        []string     `bson:"steps" json:"steps"`
	IsPublished  bool         `bson:"isPublished" json:"isPublished"`
	LikeCount    int          `bson:"likeCount" json:"likeCount"`
	CommentCount int          `bson:"commentCount" json:"commentCount"`
	SaveCount    int          `bson:"saveCount" json:"saveCount"`
	RatingAvg    float64      `bson:"ratingAvg" json:"ratingAvg"`
	LikedBy      []string     `bson:"likedBy" json:"likedBy"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// RecipeWithAuthor is what every read path returns: the stored recipe plus
// the hydrated author projection.
type RecipeWithAuthor struct {
	Recipe `bson:",inline"`
	Author Author `json:"author"`
}
