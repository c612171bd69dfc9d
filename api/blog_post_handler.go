package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

type blogPostHandler struct {
	contentHandler[models.BlogPost, *models.BlogPost]
}

func newBlogPostHandler(blogPostRepo contentStore[*models.BlogPost], sessions session.Store) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{contentHandler[models.BlogPost, *models.BlogPost]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    "blog post",
		store:     blogPostRepo,
		sessions:  sessions,
		view: listingTable[*models.BlogPost]{
			columns:    blogColumns,
			searchable: []string{"title", "tags"},
			filter:     lifecycleFilter(models.ContentLifecycle),
			exportName: "blogs",
		},
		now:   time.Now,
		scope: productScope("blogs"),
		prepare: func(b *models.BlogPost, scope contentScope) {
			b.Product = scope.product
		},
		owns: func(b *models.BlogPost, scope contentScope) bool {
			return b.Product == scope.product
		},
	}}
}

// productScope narrows a listing to the {product} of the route.
func productScope(name string) func(r *http.Request) (contentScope, error) {
	return func(r *http.Request) (contentScope, error) {
		product, err := productParam(r)
		if err != nil {
			return contentScope{}, err
		}
		return contentScope{
			name:    name + ":" + string(product),
			base:    bson.M{"product": product},
			counts:  string(product),
			product: product,
		}, nil
	}
}

// getAllBlogPosts lists one product's blog posts
// @Summary List blog posts
// @Description Returns one page of a product's blog posts with status filter counts. Search applies to the returned page only.
// @Tags Blog Posts
// @Produce json
// @Param product path string true "portfolio, vikin or graphyl"
// @Param page query int false "Page number, from 1"
// @Param pageSize query int false "5, 10, 15, 20, 25, 30, 40 or 50"
// @Param status query string false "all, Active or Inactive"
// @Success 200 {object} listing.Result[models.BlogPost]
// @Failure 400 {object} ErrorResponse "Bad Request - Unknown page size or filter"
// @Failure 401 {object} ErrorResponse "Unauthorized - No session or role not allowed"
// @Router /products/{product}/blogs [get]
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return h.list()
}

// exportBlogPosts downloads the current page of blog posts
// @Summary Export blog posts
// @Tags Blog Posts
// @Produce application/pdf
// @Param format query string true "pdf or xlsx"
// @Success 200 {file} file
// @Router /products/{product}/blogs/export [get]
func (h blogPostHandler) exportBlogPosts() http.HandlerFunc {
	return h.export()
}

// getBlogPost retrieves a specific blog post by ID
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param id path string true "Blog Post ID" format(uuid)
// @Success 200 {object} models.BlogPost
// @Failure 404 {object} ErrorResponse "Not Found - Blog post not found"
// @Router /products/{product}/blogs/{id} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return h.get()
}

// createBlogPost creates a new blog post
// @Summary Create blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param blogPost body models.BlogPost true "Blog post"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Router /products/{product}/blogs [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return h.create()
}

// updateBlogPost replaces a blog post, keeping its status and creation audit
// @Summary Update blog post
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Success 200 {object} models.BlogPost
// @Router /products/{product}/blogs/{id} [put]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return h.update()
}

// setBlogPostStatus activates or deactivates a blog post
// @Summary Change blog post status
// @Tags Blog Posts
// @Accept json
// @Produce json
// @Param status body statusRequest true "Target status"
// @Success 200 {object} models.BlogPost
// @Failure 409 {object} ErrorResponse "Conflict - Transition not allowed"
// @Router /products/{product}/blogs/{id}/status [put]
func (h blogPostHandler) setBlogPostStatus() http.HandlerFunc {
	return h.setStatus()
}

// deleteBlogPost soft deletes a blog post
// @Summary Delete blog post
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /products/{product}/blogs/{id} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return h.remove()
}
