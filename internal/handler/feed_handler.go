package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"headlines/internal/format"
	"headlines/internal/loader"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DataSuffix is appended to a page route to get its JSON data endpoint.
const DataSuffix = "__data.json"

const siteTitle = "Headlines"

// FeedHandler serves headline pages as HTML and as JSON page data.
type FeedHandler struct {
	nav     []NavItem
	loaders map[string]loader.Loader
}

func NewFeedHandler() *FeedHandler {
	return &FeedHandler{loaders: make(map[string]loader.Loader)}
}

// FuncMap returns the template helpers pages are rendered with.
func FuncMap(dates *format.DateFormatter, locale language.Tag) template.FuncMap {
	printer := message.NewPrinter(locale)
	return template.FuncMap{
		"formatDate": dates.Format,
		"add": func(operands ...int) int {
			return format.Add(operands...)
		},
		"number": func(n int) string {
			return printer.Sprintf("%d", n)
		},
	}
}

// DataRoute returns the JSON data endpoint for a page route.
func DataRoute(route string) string {
	if strings.HasSuffix(route, "/") {
		return route + DataSuffix
	}
	return route + "/" + DataSuffix
}

// Mount registers the HTML page and its data endpoint for one route.
func (h *FeedHandler) Mount(r gin.IRoutes, route, title string, l loader.Loader) {
	h.loaders[route] = l
	h.nav = append(h.nav, NavItem{Route: route, Title: title})

	r.GET(route, h.GetPage)
	r.GET(DataRoute(route), h.GetPageData)
}

func (h *FeedHandler) GetPage(c *gin.Context) {
	route := c.FullPath()
	l, ok := h.loaders[route]
	if !ok {
		h.NotFound(c)
		return
	}

	data, err := l.LoadPageData(c.Request.Context(), pageContext(c, route))
	if err != nil {
		slog.Error("error loading page data", "route", route, "error", err)
		h.renderError(c, http.StatusInternalServerError, "Internal Error")
		return
	}

	title := data.Title
	if title == "" {
		title = siteTitle
	}

	c.HTML(http.StatusOK, "page.html", PageView{
		Title:        title,
		Route:        route,
		Nav:          h.navFor(route),
		Articles:     data.Articles,
		TotalResults: data.TotalResults,
	})
}

func (h *FeedHandler) GetPageData(c *gin.Context) {
	route := strings.TrimSuffix(c.FullPath(), DataSuffix)
	if len(route) > 1 {
		route = strings.TrimSuffix(route, "/")
	}

	l, ok := h.loaders[route]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Page not found"})
		return
	}

	data, err := l.LoadPageData(c.Request.Context(), pageContext(c, route))
	if err != nil {
		slog.Error("error loading page data", "route", route, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load page data"})
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *FeedHandler) GetHealth(c *gin.Context) {
	routes := make([]string, 0, len(h.nav))
	for _, n := range h.nav {
		routes = append(routes, n.Route)
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Pages: routes})
}

func (h *FeedHandler) NotFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "Not Found")
}

func (h *FeedHandler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", ErrorView{
		Title:   siteTitle,
		Nav:     h.navFor(""),
		Status:  status,
		Message: message,
	})
}

func (h *FeedHandler) navFor(route string) []NavItem {
	nav := make([]NavItem, len(h.nav))
	for i, n := range h.nav {
		n.Active = n.Route == route
		nav[i] = n
	}
	return nav
}

func pageContext(c *gin.Context, route string) loader.PageContext {
	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	return loader.PageContext{
		Route:  route,
		Params: params,
		Query:  c.Request.URL.Query(),
	}
}
