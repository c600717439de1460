// Package api holds the HTTP handlers for the Zuri backend.
package api

import (
	"net/http"

	"github.com/zuriwear/zuri-backend/productsearch"
	"github.com/zuriwear/zuri-backend/stylist"
	"github.com/zuriwear/zuri-backend/utils"
	"github.com/zuriwear/zuri-backend/wardrobe"
)

// Shared services wired once from main before the server starts.
var (
	stylistSvc   *stylist.Stylist
	wardrobeSvc  *wardrobe.Service
	searchClient *productsearch.Client
	imageStore   stylist.ImageStore
)

// Init wires the services the handlers depend on.
func Init(st *stylist.Stylist, ws *wardrobe.Service, pc *productsearch.Client, store stylist.ImageStore) {
	stylistSvc = st
	wardrobeSvc = ws
	searchClient = pc
	imageStore = store
}

// HealthHandler is the liveness probe the keep-alive cron pings.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
