package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/robfig/cron/v3"

	"github.com/zuriwear/zuri-backend/api"
	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/jobs"
	"github.com/zuriwear/zuri-backend/productsearch"
	"github.com/zuriwear/zuri-backend/stylist"
	"github.com/zuriwear/zuri-backend/utils"
	"github.com/zuriwear/zuri-backend/wardrobe"
)

func main() {
	config.LoadConfig()

	// Initialize MongoDB
	if err := utils.ConnectMongo(config.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := utils.EnsureIndexes(config.DBName); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	if err := utils.InitS3(); err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	modelClient, err := stylist.NewGeminiClient(context.Background(), config.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer modelClient.Close()

	store := utils.S3ImageStore{}
	stylistSvc := stylist.New(modelClient, store)
	wardrobeSvc := wardrobe.NewService(config.DBName, stylistSvc, store)
	searchClient := productsearch.NewClient(config.ScrapingDogAPIKey)
	api.Init(stylistSvc, wardrobeSvc, searchClient, store)

	// Background jobs
	c := cron.New()
	jobs.StartKeepAlive(c, config.KeepAliveURL)
	jobs.NewReminderSweeper(config.DBName).Start(c)
	c.Start()
	defer c.Stop()

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}
	public := corsMiddleware
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return corsMiddleware(api.AuthMiddleware(next))
	}

	http.HandleFunc("GET /health", public(api.HealthHandler))

	// Auth
	http.HandleFunc("POST /auth/signup", public(api.SignupHandler))
	http.HandleFunc("POST /auth/login", public(api.LoginHandler))
	http.HandleFunc("POST /auth/refresh", public(api.RefreshTokenHandler))
	http.HandleFunc("POST /auth/logout", public(api.LogoutHandler))
	http.HandleFunc("POST /auth/forgot-password", public(api.ForgotPasswordHandler))
	http.HandleFunc("POST /auth/reset-password", public(api.ResetPasswordHandler))
	http.HandleFunc("GET /auth/google/login", public(api.GoogleLoginHandler))
	http.HandleFunc("GET /auth/google/callback", public(api.GoogleCallbackHandler))

	// Profile and body info
	http.HandleFunc("GET /api/profile", authed(api.GetProfileHandler))
	http.HandleFunc("PUT /api/profile", authed(api.UpdateProfileHandler))
	http.HandleFunc("GET /api/body-info", authed(api.GetBodyInfoHandler))
	http.HandleFunc("PUT /api/body-info", authed(api.UpdateBodyProfileHandler))
	http.HandleFunc("POST /api/body-info/analyze", authed(api.AnalyzeBodyPhotoHandler))
	http.HandleFunc("POST /api/body-info/suggestions", authed(api.OutfitSuggestionsHandler))
	http.HandleFunc("POST /api/check-full-body", authed(api.CheckFullBodyHandler))

	// Wardrobe
	http.HandleFunc("POST /api/wardrobe/upload", authed(api.UploadWardrobeHandler))
	http.HandleFunc("POST /api/wardrobe/upload-by-category", authed(api.UploadByCategoryHandler))
	http.HandleFunc("POST /api/wardrobe/force-upload", authed(api.ForceUploadHandler))
	http.HandleFunc("GET /api/wardrobe/counts", authed(api.CategoryCountsHandler))
	http.HandleFunc("GET /api/wardrobe/filter", authed(api.WardrobeFilterHandler))
	http.HandleFunc("GET /api/wardrobe/category/{category}", authed(api.WardrobeByCategoryHandler))
	http.HandleFunc("GET /api/wardrobe/garment/{garmentId}", authed(api.GarmentDetailsHandler))
	http.HandleFunc("PUT /api/wardrobe/garment/{garmentId}", authed(api.UpdateGarmentHandler))
	http.HandleFunc("DELETE /api/wardrobe/garment/{garmentId}", authed(api.DeleteGarmentHandler))

	// Styling
	http.HandleFunc("POST /api/styleRecommender", authed(api.StyleRecommenderHandler))
	http.HandleFunc("POST /api/styling/occasion", authed(api.OccasionStylingHandler))

	// Product discovery and wishlist
	http.HandleFunc("POST /api/products/search", authed(api.ProductSearchHandler))
	http.HandleFunc("POST /api/wishlist/toggle", authed(api.ToggleWishlistHandler))
	http.HandleFunc("GET /api/wishlist", authed(api.GetWishlistHandler))

	// Looks and favourites
	http.HandleFunc("POST /api/looks", authed(api.UploadLookHandler))
	http.HandleFunc("GET /api/looks", authed(api.ListLooksHandler))
	http.HandleFunc("GET /api/looks/{lookId}", authed(api.GetLookHandler))
	http.HandleFunc("DELETE /api/looks/{lookId}", authed(api.DeleteLookHandler))
	http.HandleFunc("POST /api/favourites", authed(api.SaveFavouriteHandler))
	http.HandleFunc("GET /api/favourites", authed(api.ListFavouritesHandler))
	http.HandleFunc("DELETE /api/favourites/{favouriteId}", authed(api.DeleteFavouriteHandler))

	// Events
	http.HandleFunc("POST /api/events", authed(api.AddEventHandler))
	http.HandleFunc("GET /api/events", authed(api.GetEventsHandler))
	http.HandleFunc("GET /api/events/upcoming", authed(api.UpcomingEventsHandler))
	http.HandleFunc("PUT /api/events/{eventId}", authed(api.UpdateEventHandler))
	http.HandleFunc("POST /api/events/{eventId}/images", authed(api.AttachEventImagesHandler))
	http.HandleFunc("DELETE /api/events/{eventId}", authed(api.DeleteEventHandler))

	// Magazine
	http.HandleFunc("POST /api/magazine/articles", authed(api.CreateArticleHandler))
	http.HandleFunc("GET /api/magazine/articles", public(api.ListArticlesHandler))
	http.HandleFunc("GET /api/magazine/categories", public(api.ArticleCategoriesHandler))
	http.HandleFunc("GET /api/magazine/articles/{articleId}", public(api.GetArticleHandler))
	http.HandleFunc("PUT /api/magazine/articles/{articleId}", authed(api.UpdateArticleHandler))
	http.HandleFunc("DELETE /api/magazine/articles/{articleId}", authed(api.DeleteArticleHandler))
	http.HandleFunc("POST /api/magazine/articles/{articleId}/bookmark", authed(api.ToggleBookmarkHandler))
	http.HandleFunc("GET /api/magazine/bookmarks", authed(api.ListBookmarksHandler))

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(http.DefaultServeMux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
