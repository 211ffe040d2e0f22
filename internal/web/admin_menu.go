package web

import (
	"errors"   // Error inspection
	"net/http" // Status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging

	"royal_site/internal/backend" // Restaurant backend
	"royal_site/internal/domain"  // Menu items
)

// menuForm is the posted add/edit form
type menuForm struct {
	Name        string  `form:"name" binding:"required,notblank"`                                         // Dish name
	Description string  `form:"description" binding:"required,notblank"`                                  // Dish description
	Price       float64 `form:"price" binding:"required,gt=0"`                                            // Price in rupees
	Image       string  `form:"image" binding:"required,notblank"`                                        // Image URL
	Category    string  `form:"category" binding:"required,oneof=Starter 'Main Course' Dessert Beverage"` // Category option
	VegType     string  `form:"vegType" binding:"required,oneof=Veg Non-Veg"`                             // Veg or Non-Veg
}

// Messages of the menu form
const (
	msgMenuMissing      = "Please fill in all required fields."
	msgMenuInvalidPrice = "Price must be a number."
)

// item converts the bound form; Payload trims the text fields
func (f menuForm) item() domain.MenuItem {
	return domain.MenuItem{
		Name:        f.Name,
		Description: f.Description,
		Price:       domain.Number(f.Price),
		Image:       f.Image,
		Category:    f.Category,
		VegType:     f.VegType,
	}
}

// AdminMenuListHandler lists every menu item with edit and delete controls
func (s *Server) AdminMenuListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.menu.ListMenu(c.Request.Context())
		status := http.StatusOK
		var listError string
		if err != nil {
			status = http.StatusBadGateway
			listError = msgMenuLoadFailed
		}
		s.render(c, status, "admin_menu.html", navAdmin, "/admin/menu", gin.H{
			"Title":     "Menu Items",
			"Items":     items,
			"ListError": listError,
		})
	}
}

// AdminMenuNewHandler shows the empty add form
func (s *Server) AdminMenuNewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderMenuForm(c, http.StatusOK, domain.NewMenuItem(), "")
	}
}

// AdminMenuCreateHandler posts a new item, then returns to the list
func (s *Server) AdminMenuCreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var form menuForm
		if err := c.ShouldBind(&form); err != nil {
			s.renderMenuForm(c, http.StatusBadRequest, form.item(), bindError(err, msgMenuMissing, msgMenuInvalidPrice))
			return
		}
		item := form.item()
		if err := s.menu.AddMenuItem(c.Request.Context(), item); err != nil {
			logrus.WithFields(logrus.Fields{
				"name":  item.Name, // Dish name
				"error": err,       // Backend failure
			}).Error("Failed to add menu item")
			s.renderMenuForm(c, http.StatusBadGateway, item, backend.Message(err, "Failed to add menu item."))
			return
		}
		s.setFlash(c, Flash{Kind: flashSuccess, Message: "Menu item added."})
		redirect(c, "/admin/menu")
	}
}

// AdminMenuEditHandler shows the edit form pre-filled from the backend
func (s *Server) AdminMenuEditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := s.menu.GetMenuItem(c.Request.Context(), c.Param("id"))
		if errors.Is(err, backend.ErrNotFound) {
			s.renderError(c, http.StatusNotFound, navAdmin, "Menu item not found.")
			return
		}
		if err != nil {
			s.renderError(c, http.StatusBadGateway, navAdmin, msgMenuLoadFailed)
			return
		}
		s.renderMenuForm(c, http.StatusOK, item, "")
	}
}

// AdminMenuUpdateHandler sends a partial update keyed by the route id
func (s *Server) AdminMenuUpdateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var form menuForm
		err := c.ShouldBind(&form)
		item := form.item()
		item.ID = id
		if err != nil {
			s.renderMenuForm(c, http.StatusBadRequest, item, bindError(err, msgMenuMissing, msgMenuInvalidPrice))
			return
		}
		if err := s.menu.UpdateMenuItem(c.Request.Context(), id, item); err != nil {
			logrus.WithFields(logrus.Fields{
				"id":    id,  // Menu item
				"error": err, // Backend failure
			}).Error("Failed to update menu item")
			s.renderMenuForm(c, http.StatusBadGateway, item, backend.Message(err, "Failed to update menu item."))
			return
		}
		s.setFlash(c, Flash{Kind: flashSuccess, Message: "Menu item updated."})
		redirect(c, "/admin/menu")
	}
}

// AdminMenuDeleteHandler deletes an item; the list is fetched again afterwards
func (s *Server) AdminMenuDeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.menu.DeleteMenuItem(c.Request.Context(), id); err != nil {
			logrus.WithFields(logrus.Fields{
				"id":    id,  // Menu item
				"error": err, // Backend failure
			}).Error("Failed to delete menu item")
			s.setFlash(c, Flash{Kind: flashError, Message: backend.Message(err, "Failed to delete menu item.")})
			redirect(c, "/admin/menu")
			return
		}
		s.setFlash(c, Flash{Kind: flashSuccess, Message: "Menu item deleted."})
		redirect(c, "/admin/menu")
	}
}

func (s *Server) renderMenuForm(c *gin.Context, status int, item domain.MenuItem, formError string) {
	title, action, active := "Add Menu Item", "/admin/menu", "/admin/menu/new"
	if item.ID != "" {
		title, action, active = "Edit Menu Item", "/admin/menu/"+item.ID, "/admin/menu"
	}
	s.render(c, status, "admin_menu_form.html", navAdmin, active, gin.H{
		"Title":          title,
		"Action":         action,
		"Item":           item,
		"PriceValue":     priceValue(item.Price),
		"FormError":      formError,
		"Categories":     domain.MenuCategoryOptions,
		"VegTypeOptions": domain.VegTypeOptions,
	})
}

// priceValue leaves the price input empty for a zero price
func priceValue(n domain.Number) string {
	if n == 0 {
		return ""
	}
	return n.String()
}
