package api

import (
	"net/http"

	"github.com/gaspardpetit/larchmock/sdk/contracts/larch"
)

// availableModels is the fixed catalogue advertised by the mock.
var availableModels = larch.ModelList{Data: []larch.Model{
	{ID: "gpt2", Description: "", OwnedBy: ""},
	{ID: "gpt2-xl", Description: "", OwnedBy: ""},
}}

// ModelsHandler handles GET /models.
func ModelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, availableModels, "models list")
	}
}
