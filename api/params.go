package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/listing"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

const searchParamPrefix = "search."

func productParam(r *http.Request) (models.Product, error) {
	product := models.Product(strings.ToLower(chi.URLParam(r, "product")))
	if !product.Valid() {
		return "", errs.NewNotFoundError("unknown product " + string(product))
	}
	return product, nil
}

// idParam reads a required path parameter.
func idParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	id, err := url.PathUnescape(raw)
	if err != nil {
		return "", errs.NewInvalidFieldError(name, "malformed path parameter")
	}
	if id = strings.TrimSpace(id); id == "" {
		return "", errs.NewMissingRequiredFieldError(name)
	}
	return id, nil
}

// parseListingQuery reads page, pageSize, status, hidden (comma separated) and
// search.<column> parameters.
func parseListingQuery(r *http.Request) (listing.Query, error) {
	values := r.URL.Query()
	q := listing.Query{
		Status: values.Get("status"),
		Search: map[string]string{},
	}

	var err error
	if q.Page, err = intParam(values.Get("page"), "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(values.Get("pageSize"), "pageSize"); err != nil {
		return q, err
	}

	for _, key := range strings.Split(values.Get("hidden"), ",") {
		if key = strings.TrimSpace(key); key != "" {
			q.Hidden = append(q.Hidden, key)
		}
	}
	for key, v := range values {
		if column, ok := strings.CutPrefix(key, searchParamPrefix); ok && column != "" && len(v) > 0 {
			q.Search[column] = v[0]
		}
	}
	return q, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.NewInvalidFieldError(name, "must be a positive number")
	}
	return n, nil
}
