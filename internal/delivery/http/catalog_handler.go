package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/macrolens/diary/internal/domain"
)

// SearchFoods handles GET /foods?q=&limit=&offset=
func (h *Handler) SearchFoods(c *gin.Context) {
	q, err := foodQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	foods, err := h.catalog.SearchFoods(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

// GetFood handles GET /foods/:id
func (h *Handler) GetFood(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	food, err := h.catalog.GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

// SearchUSDA handles GET /foods/usda?q=
func (h *Handler) SearchUSDA(c *gin.Context) {
	results, err := h.catalog.SearchUSDA(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ImportFoodRequest selects a FoodData Central item by id or by name
type ImportFoodRequest struct {
	FdcID int    `json:"fdcId"`
	Name  string `json:"name"`
}

// ImportFood handles POST /foods/import
func (h *Handler) ImportFood(c *gin.Context) {
	var req ImportFoodRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)

	switch {
	case req.FdcID != 0 && name != "":
		respondError(c, fmt.Errorf("%w: give either fdcId or name", domain.ErrInvalidArgument))
	case req.FdcID != 0:
		food, err := h.catalog.ImportFood(c.Request.Context(), req.FdcID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"food": food})
	case name != "":
		food, match, err := h.catalog.ImportByName(c.Request.Context(), name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"food": food, "match": match})
	default:
		respondError(c, fmt.Errorf("%w: fdcId or name is required", domain.ErrInvalidArgument))
	}
}

// CustomDishRequest creates a dish from a direct density or from ingredients
type CustomDishRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	Per100      *domain.Nutrients        `json:"per100"`
	Ingredients []domain.IngredientInput `json:"ingredients"`
}

// ListCustomDishes handles GET /custom-dishes
func (h *Handler) ListCustomDishes(c *gin.Context) {
	q, err := foodQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	dishes, err := h.catalog.ListCustomDishes(c.Request.Context(), currentUser(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customDishes": dishes})
}

// CreateCustomDish handles POST /custom-dishes
func (h *Handler) CreateCustomDish(c *gin.Context) {
	var req CustomDishRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	dish, err := h.catalog.CreateCustomDish(c.Request.Context(), domain.CreateCustomDishRequest{
		OwnerID:     currentUser(c),
		Name:        req.Name,
		Description: req.Description,
		Per100:      req.Per100,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dish)
}

// GetCustomDish handles GET /custom-dishes/:id
func (h *Handler) GetCustomDish(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	dish, err := h.catalog.GetCustomDish(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// DeleteCustomDish handles DELETE /custom-dishes/:id
func (h *Handler) DeleteCustomDish(c *gin.Context) {
	h.deleteOwned(c, func(owner, id uuid.UUID) error {
		return h.catalog.DeleteCustomDish(c.Request.Context(), owner, id)
	})
}

// RecipeRequest creates a recipe
type RecipeRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Description string                   `json:"description"`
	Ingredients []domain.IngredientInput `json:"ingredients"`
}

// CreateRecipe handles POST /recipes
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.catalog.CreateRecipe(c.Request.Context(), domain.CreateRecipeRequest{
		OwnerID:     currentUser(c),
		Name:        req.Name,
		Description: req.Description,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// GetRecipe handles GET /recipes/:id
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.catalog.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe handles DELETE /recipes/:id
func (h *Handler) DeleteRecipe(c *gin.Context) {
	h.deleteOwned(c, func(owner, id uuid.UUID) error {
		return h.catalog.DeleteRecipe(c.Request.Context(), owner, id)
	})
}

func (h *Handler) deleteOwned(c *gin.Context, del func(owner, id uuid.UUID) error) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := del(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
