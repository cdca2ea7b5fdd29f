package handler

import "headlines/internal/model"

type HealthResponse struct {
	Status string   `json:"status"`
	Pages  []string `json:"pages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NavItem is one entry of the site navigation.
type NavItem struct {
	Route  string
	Title  string
	Active bool
}

// PageView is the data handed to page.html.
type PageView struct {
	Title        string
	Route        string
	Nav          []NavItem
	Articles     []model.Article
	TotalResults int
}

// ErrorView is the data handed to error.html.
type ErrorView struct {
	Title   string
	Nav     []NavItem
	Status  int
	Message string
}
