package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"royal_site/internal/domain"
)

// MenuHandler renders the public menu with its category filter
func (s *Server) MenuHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", domain.CategoryAll)
		items, err := s.menu.ListMenu(c.Request.Context())
		status := http.StatusOK
		var menuError string
		if err != nil {
			status = http.StatusBadGateway
			menuError = msgMenuLoadFailed
		}
		s.render(c, status, "menu.html", navUser, "/menu", gin.H{
			"Title":      "Our Menu",
			"Categories": domain.MenuCategories(items),
			"Active":     category,
			"Items":      domain.FilterByCategory(items, category),
			"MenuError":  menuError,
		})
	}
}
