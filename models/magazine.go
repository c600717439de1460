package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAuthorAvatar is used when an article is published without an
// author picture.
const DefaultAuthorAvatar = "https://cdn.zuriwear.app/static/avatar-default.png"

// Article is a magazine piece. Content is stored as sanitized HTML;
// the list endpoints serve a plain-text excerpt instead of the body.
type Article struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	SubTitle         string             `bson:"subTitle,omitempty" json:"subTitle,omitempty"`
	Content          string             `bson:"content" json:"content,omitempty"`
	Category         string             `bson:"category" json:"category"`
	Tags             []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	BannerImage      string             `bson:"bannerImage,omitempty" json:"bannerImage,omitempty"`
	AuthorName       string             `bson:"authorName" json:"authorName"`
	AuthorProfilePic string             `bson:"authorProfilePic" json:"authorProfilePic"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Normalize lowercases the category so lookups are case-insensitive and
// fills the avatar default.
func (a *Article) Normalize() {
	a.Title = strings.TrimSpace(a.Title)
	a.Category = strings.ToLower(strings.TrimSpace(a.Category))
	if strings.TrimSpace(a.AuthorProfilePic) == "" {
		a.AuthorProfilePic = DefaultAuthorAvatar
	}
	for i, t := range a.Tags {
		a.Tags[i] = strings.TrimSpace(t)
	}
}

// Bookmark links a user to an article. (userId, articleId) is unique.
type Bookmark struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ArticleID primitive.ObjectID `bson:"articleId" json:"articleId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
