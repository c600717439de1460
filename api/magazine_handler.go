package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

const excerptLength = 220

// articleSummary is the list-view projection: a plain-text excerpt
// replaces the HTML body.
type articleSummary struct {
	models.Article
	Excerpt   string `json:"excerpt"`
	BannerURL string `json:"bannerUrl,omitempty"`
}

func summarize(r *http.Request, a models.Article) articleSummary {
	s := articleSummary{Article: a, Excerpt: utils.HTMLExcerpt(a.Content, excerptLength)}
	s.Content = ""
	if a.BannerImage != "" {
		if url, err := utils.GetPresignedURL(r.Context(), a.BannerImage); err == nil {
			s.BannerURL = url
		}
	}
	return s
}

// CreateArticleHandler publishes a magazine article
func CreateArticleHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Article API]")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}

	article := models.Article{
		Title:      r.FormValue("title"),
		SubTitle:   r.FormValue("subTitle"),
		Content:    r.FormValue("content"),
		Category:   r.FormValue("category"),
		AuthorName: r.FormValue("authorName"),
	}
	if tags := r.FormValue("tags"); tags != "" {
		article.Tags = strings.Split(tags, ",")
	}
	article.AuthorProfilePic = r.FormValue("authorProfilePic")
	article.Normalize()

	if article.Title == "" || article.Content == "" || article.Category == "" || article.AuthorName == "" {
		utils.RespondError(w, &logMessageBuilder, "Title, content, category and author name are required", http.StatusBadRequest)
		return
	}

	if data, mimeType, err := readFormFile(r, "banner"); err == nil {
		key := fmt.Sprintf("magazine/%d-%s", time.Now().UnixNano(), uuid.NewString())
		if _, uploadErr := imageStore.UploadBytes(r.Context(), data, key, mimeType); uploadErr != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to upload banner: %v", uploadErr))
			utils.RespondError(w, nil, "Failed to upload banner image", http.StatusInternalServerError)
			return
		}
		article.BannerImage = key
	}

	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now

	collection := utils.GetCollection(config.DBName, "articles")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := collection.InsertOne(ctx, article)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create article: %v", err))
		utils.RespondError(w, nil, "Failed to create article", http.StatusInternalServerError)
		return
	}
	article.ID = res.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Article created: %s", article.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Article created",
		"article": article,
	})
}

// ListArticlesHandler lists articles with excerpts, newest first
func ListArticlesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Articles API]")

	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = strings.ToLower(strings.TrimSpace(category))
	}

	collection := utils.GetCollection(config.DBName, "articles")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	articles := []models.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode articles: %v", err))
		utils.RespondError(w, nil, "Failed to load articles", http.StatusInternalServerError)
		return
	}

	summaries := make([]articleSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, summarize(r, a))
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%d articles", len(summaries)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(summaries),
		"articles": summaries,
	})
}

// ArticleCategoriesHandler lists the distinct categories in use
func ArticleCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Article Categories API]")

	collection := utils.GetCollection(config.DBName, "articles")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	raw, err := collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}

	categories := []string{}
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// GetArticleHandler returns one article with its full content
func GetArticleHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Article API]")

	articleID, err := primitive.ObjectIDFromHex(r.PathValue("articleId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid article ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "articles")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var article models.Article
	if err := collection.FindOne(ctx, bson.M{"_id": articleID}).Decode(&article); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Article not found", http.StatusNotFound)
		return
	}

	bannerURL := ""
	if article.BannerImage != "" {
		if url, err := utils.GetPresignedURL(r.Context(), article.BannerImage); err == nil {
			bannerURL = url
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"article":   article,
		"bannerUrl": bannerURL,
	})
}

// UpdateArticleHandler applies a partial update to an article
func UpdateArticleHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Article API]")

	articleID, err := primitive.ObjectIDFromHex(r.PathValue("articleId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid article ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title    *string  `json:"title"`
		SubTitle *string  `json:"subTitle"`
		Content  *string  `json:"content"`
		Category *string  `json:"category"`
		Tags     []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.SubTitle != nil {
		set["subTitle"] = *req.SubTitle
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Category != nil {
		set["category"] = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Tags != nil {
		set["tags"] = req.Tags
	}

	collection := utils.GetCollection(config.DBName, "articles")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": articleID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var article models.Article
	if err := res.Decode(&article); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Article not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Article %s updated", articleID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Article updated",
		"article": article,
	})
}

// DeleteArticleHandler removes an article, its banner and its bookmarks
func DeleteArticleHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Article API]")

	articleID, err := primitive.ObjectIDFromHex(r.PathValue("articleId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid article ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var article models.Article
	err = utils.GetCollection(config.DBName, "articles").FindOneAndDelete(ctx, bson.M{"_id": articleID}).Decode(&article)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Article not found", http.StatusNotFound)
		return
	}

	if article.BannerImage != "" {
		if err := utils.DeleteFileFromS3(r.Context(), article.BannerImage); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete banner %s: %v", article.BannerImage, err))
		}
	}
	if _, err := utils.GetCollection(config.DBName, "bookmarks").DeleteMany(ctx, bson.M{"articleId": articleID}); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete bookmarks: %v", err))
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Article %s deleted", articleID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Article deleted"})
}

// ToggleBookmarkHandler bookmarks an article, or removes the bookmark
// when it already exists
func ToggleBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Toggle Bookmark API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	articleID, err := primitive.ObjectIDFromHex(r.PathValue("articleId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid article ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "bookmarks")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "articleId": articleID}
	res, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount > 0 {
		utils.AddToLogMessage(&logMessageBuilder, "Bookmark removed")
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "Bookmark removed",
			"bookmarked": false,
		})
		return
	}

	bookmark := models.Bookmark{UserID: userID, ArticleID: articleID, CreatedAt: time.Now()}
	if _, err := collection.InsertOne(ctx, bookmark); err != nil && !mongo.IsDuplicateKeyError(err) {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save bookmark: %v", err))
		utils.RespondError(w, nil, "Failed to save bookmark", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Bookmark added")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Bookmark added",
		"bookmarked": true,
	})
}

// ListBookmarksHandler lists the user's bookmarked articles with excerpts
func ListBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Bookmarks API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := utils.GetCollection(config.DBName, "bookmarks").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	bookmarks := []models.Bookmark{}
	if err := cursor.All(ctx, &bookmarks); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode bookmarks: %v", err))
		utils.RespondError(w, nil, "Failed to load bookmarks", http.StatusInternalServerError)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(bookmarks))
	for _, b := range bookmarks {
		ids = append(ids, b.ArticleID)
	}

	summaries := []articleSummary{}
	if len(ids) > 0 {
		articleCursor, err := utils.GetCollection(config.DBName, "articles").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
			utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
			return
		}
		defer articleCursor.Close(ctx)

		articles := []models.Article{}
		if err := articleCursor.All(ctx, &articles); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode articles: %v", err))
			utils.RespondError(w, nil, "Failed to load articles", http.StatusInternalServerError)
			return
		}
		for _, a := range articles {
			summaries = append(summaries, summarize(r, a))
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%d bookmarked articles", len(summaries)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(summaries),
		"articles": summaries,
	})
}
