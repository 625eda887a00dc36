package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linemk/catalog-api/internal/service"
)

// SearchProductsHandler обрабатывает GET /api/search/products.
// Все фильтры передаются query-параметрами и комбинируются через AND
func SearchProductsHandler(log *slog.Logger, searchService service.SearchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SearchProductsHandler"
		logger := log.With(slog.String("op", op))

		limit, offset, err := parsePagination(r)
		if err != nil {
			writeError(logger, w, err)
			return
		}

		q := r.URL.Query()
		query := service.SearchQuery{
			ProductName:      q.Get("product_name"),
			CategoryName:     q.Get("category_name"),
			SupplierName:     q.Get("supplier_name"),
			CreationDateFrom: q.Get("creation_date_from"),
			CreationDateTo:   q.Get("creation_date_to"),
		}

		if raw := q.Get("min_price"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid min_price parameter"})
				return
			}
			query.MinPrice = &parsed
		}
		if raw := q.Get("max_price"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeJSON(logger, w, http.StatusBadRequest, errorResponse{Error: "invalid max_price parameter"})
				return
			}
			query.MaxPrice = &parsed
		}

		resp, err := searchService.SearchProducts(r.Context(), query, limit, offset)
		if err != nil {
			logger.Warn("search failed", slog.Any("error", err))
			writeError(logger, w, err)
			return
		}

		writeJSON(logger, w, http.StatusOK, resp)
	}
}
