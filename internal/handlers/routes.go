package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "shorten",
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Shorten a URL",
		Description: "Returns the tiny for the URL, creating it when the URL was not shortened before.",
		Tags:        []string{"URLs"},
	}, urlHandler.Shorten)

	huma.Register(api, huma.Operation{
		OperationID: "top",
		Method:      http.MethodGet,
		Path:        "/top10",
		Summary:     "Most used URLs",
		Description: "Lists records by usage count, most used first.",
		Tags:        []string{"URLs"},
	}, urlHandler.Top)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{tiny}",
		Summary:     "Redirect to target URL",
		Description: "Redirects to the target of the tiny and counts the visit.",
		Tags:        []string{"URLs"},
		Errors:      []int{http.StatusNotFound},
	}, urlHandler.Redirect)
}
