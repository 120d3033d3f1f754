// Package category exposes user categories and their subcategories.
package category

import (
	"github.com/amirasaad/strides/pkg/config"
	"github.com/amirasaad/strides/pkg/middleware"
	authsvc "github.com/amirasaad/strides/pkg/service/auth"
	categorysvc "github.com/amirasaad/strides/pkg/service/category"
	"github.com/amirasaad/strides/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(
	app *fiber.App,
	categorySvc *categorysvc.Service,
	authSvc *authsvc.Service,
	cfg *config.App,
) {
	g := app.Group("/categories", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Post("/", CreateCategory(categorySvc, authSvc))
	g.Get("/", ListCategories(categorySvc, authSvc))
	g.Put("/:id", RenameCategory(categorySvc, authSvc))
	g.Delete("/:id", DeleteCategory(categorySvc, authSvc))
	g.Post("/:id/subcategories", AddSubCategory(categorySvc, authSvc))
	g.Put("/:id/subcategories/:subId", RenameSubCategory(categorySvc, authSvc))
	g.Delete("/:id/subcategories/:subId", DeleteSubCategory(categorySvc, authSvc))
}

// CreateCategory creates a category for the current user.
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body NameRequest true "Category name"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Router /categories [post]
// @Security Bearer
func CreateCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[NameRequest](c)
		if input == nil {
			return err // error response already written
		}
		cat, err := categorySvc.Create(c.UserContext(), userID, input.Name)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create category", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Category created", ToCategoryDTO(cat))
	}
}

// ListCategories lists the categories of the current user.
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /categories [get]
// @Security Bearer
func ListCategories(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		cats, err := categorySvc.List(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list categories", err)
		}
		out := make([]*CategoryDTO, 0, len(cats))
		for _, cat := range cats {
			out = append(out, ToCategoryDTO(cat))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories fetched", out)
	}
}

// RenameCategory renames a category.
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body NameRequest true "New name"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /categories/{id} [put]
// @Security Bearer
func RenameCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category ID", err)
		}
		input, err := common.BindAndValidate[NameRequest](c)
		if input == nil {
			return err // error response already written
		}
		cat, err := categorySvc.Rename(c.UserContext(), userID, id, input.Name)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to rename category", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category updated", ToCategoryDTO(cat))
	}
}

// DeleteCategory deletes a category.
// @Summary Delete a category
// @Tags categories
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} common.ProblemDetails
// @Router /categories/{id} [delete]
// @Security Bearer
func DeleteCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category ID", err)
		}
		if err := categorySvc.Delete(c.UserContext(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete category", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AddSubCategory adds a subcategory.
// @Summary Add a subcategory
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body NameRequest true "Subcategory name"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /categories/{id}/subcategories [post]
// @Security Bearer
func AddSubCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category ID", err)
		}
		input, err := common.BindAndValidate[NameRequest](c)
		if input == nil {
			return err // error response already written
		}
		cat, err := categorySvc.AddSubCategory(c.UserContext(), userID, id, input.Name)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to add subcategory", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Subcategory added", ToCategoryDTO(cat))
	}
}

// RenameSubCategory renames a subcategory.
// @Summary Rename a subcategory
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param subId path string true "Subcategory ID"
// @Param request body NameRequest true "New name"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /categories/{id}/subcategories/{subId} [put]
// @Security Bearer
func RenameSubCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category ID", err)
		}
		subID, err := common.ParamUUID(c, "subId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid subcategory ID", err)
		}
		input, err := common.BindAndValidate[NameRequest](c)
		if input == nil {
			return err // error response already written
		}
		cat, err := categorySvc.RenameSubCategory(c.UserContext(), userID, id, subID, input.Name)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to rename subcategory", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Subcategory updated", ToCategoryDTO(cat))
	}
}

// DeleteSubCategory removes a subcategory.
// @Summary Delete a subcategory
// @Tags categories
// @Param id path string true "Category ID"
// @Param subId path string true "Subcategory ID"
// @Success 204
// @Failure 404 {object} common.ProblemDetails
// @Router /categories/{id}/subcategories/{subId} [delete]
// @Security Bearer
func DeleteSubCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid category ID", err)
		}
		subID, err := common.ParamUUID(c, "subId")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid subcategory ID", err)
		}
		if err := categorySvc.DeleteSubCategory(c.UserContext(), userID, id, subID); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete subcategory", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
