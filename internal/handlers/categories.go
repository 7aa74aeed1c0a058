package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/eventdesk/registration-api/internal/auth"
	"github.com/eventdesk/registration-api/internal/catalog"
	"github.com/eventdesk/registration-api/internal/models"
)

type CategoryHandler struct {
	catalog     *catalog.Catalog
	authHandler *auth.AuthHandler
}

func NewCategoryHandler(c *catalog.Catalog, authHandler *auth.AuthHandler) *CategoryHandler {
	return &CategoryHandler{catalog: c, authHandler: authHandler}
}

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ListCategoriesOutput struct {
	Body []CategoryResponse
}

func (h *CategoryHandler) HandleList(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list categories")
	}

	var response []CategoryResponse
	for _, c := range categories {
		response = append(response, CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	return &ListCategoriesOutput{Body: response}, nil
}

type CreateCategoryInput struct {
	auth.AuthInput
	Body struct {
		Name        string `json:"name" minLength:"1"`
		Description string `json:"description" required:"false"`
	}
}

type CreateCategoryOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      CategoryResponse
}

func (h *CategoryHandler) HandleCreate(ctx context.Context, input *CreateCategoryInput) (*CreateCategoryOutput, error) {
	_, refreshed, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	category := models.Category{Name: input.Body.Name, Description: input.Body.Description}
	if err := h.catalog.CreateCategory(ctx, &category); err != nil {
		return nil, huma.Error409Conflict("Category already exists")
	}
	return &CreateCategoryOutput{SetCookie: refreshed, Body: CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}}, nil
}
