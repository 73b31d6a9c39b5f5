package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/gompa/internal/version"
)

// VersionHandler handles GET /version.
func VersionHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.Version})
}
