package inventory

import (
	"net/url"

	"gudang-backend/internal/apperr"
	"gudang-backend/internal/auth"
	"gudang-backend/internal/database"
	"gudang-backend/internal/models"
	"gudang-backend/internal/scope"
	"gudang-backend/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Variant    *string `json:"variant"`
	OwnerID    string  `json:"owner_id"`
	OwnerEmail string  `json:"owner_email,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type ProductGroupResponse struct {
	Name       string            `json:"name"`
	Variants   []*string         `json:"variants"`
	OwnerEmail string            `json:"owner_email,omitempty"`
	Rows       []ProductResponse `json:"rows"`
}

type CreateProductRequest struct {
	Name     string   `json:"name" validate:"required"`
	Variants []string `json:"variants"`
}

type UpdateProductRequest struct {
	Name    string  `json:"name" validate:"required"`
	Variant *string `json:"variant"`
}

func toProductResponse(p models.Product, owners scope.Owners) ProductResponse {
	res := ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Variant:   p.Variant,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if owners != nil {
		res.OwnerEmail = owners.Email(p.OwnerID)
	}
	return res
}

func toGroupResponse(g ProductGroup, owners scope.Owners) ProductGroupResponse {
	res := ProductGroupResponse{
		Name:     g.Name,
		Variants: g.Variants,
		Rows:     make([]ProductResponse, 0, len(g.Rows)),
	}
	for _, p := range g.Rows {
		res.Rows = append(res.Rows, toProductResponse(p, owners))
	}
	if owners != nil {
		if id, ok := soleOwner(g.Rows); ok {
			res.OwnerEmail = owners.Email(id)
		}
	}
	return res
}

// soleOwner reports the owner shared by every row. Groups spanning several
// owners carry no group-level owner; each row keeps its own.
func soleOwner(rows []models.Product) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	for _, p := range rows[1:] {
		if p.OwnerID != rows[0].OwnerID {
			return "", false
		}
	}
	return rows[0].OwnerID, true
}

func productOwnerIDs(rows []models.Product) []string {
	ids := make([]string, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.OwnerID)
	}
	return ids
}

func groupParam(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return "", apperr.Validation("Nama produk tidak valid")
	}
	return name, nil
}

// GET /api/products?grouped=true
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		ctx := c.UserContext()

		rows, err := ListProducts(ctx, database.DB, actor)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat produk")
		}
		owners := scope.OwnerEmails(ctx, database.DB, actor, productOwnerIDs(rows))

		if c.QueryBool("grouped") {
			groups := GroupProducts(rows)
			res := make([]ProductGroupResponse, 0, len(groups))
			for _, g := range groups {
				res = append(res, toGroupResponse(g, owners))
			}
			return c.JSON(res)
		}

		res := make([]ProductResponse, 0, len(rows))
		for _, p := range rows {
			res = append(res, toProductResponse(p, owners))
		}
		return c.JSON(res)
	}
}

// GET /api/products/groups/:name
func GetProductGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		name, err := groupParam(c)
		if err != nil {
			return err
		}
		ctx := c.UserContext()

		g, err := GetProductGroup(ctx, database.DB, actor, name)
		if err != nil {
			return apperr.Wrap(err, "Gagal memuat produk")
		}
		owners := scope.OwnerEmails(ctx, database.DB, actor, productOwnerIDs(g.Rows))
		return c.JSON(toGroupResponse(g, owners))
	}
}

// POST /api/products
// One row per variant; no variants means a single row without one.
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		if err := validate.Struct(body, "Nama produk harus diisi"); err != nil {
			return err
		}

		rows, err := CreateProductGroup(c.UserContext(), database.DB, actor, body.Name, body.Variants)
		if err != nil {
			return err
		}

		res := make([]ProductResponse, 0, len(rows))
		for _, p := range rows {
			res = append(res, toProductResponse(p, nil))
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		if err := validate.Struct(body, "Nama produk harus diisi"); err != nil {
			return err
		}

		p, err := UpdateProduct(c.UserContext(), database.DB, actor, c.Params("id"), body.Name, body.Variant)
		if err != nil {
			return err
		}
		return c.JSON(toProductResponse(p, nil))
	}
}

// PUT /api/products/groups/:name
func ReplaceProductGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		name, err := groupParam(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Body request tidak valid")
		}
		if err := validate.Struct(body, "Nama produk harus diisi"); err != nil {
			return err
		}

		rows, err := ReplaceProductGroup(c.UserContext(), database.DB, actor, name, body.Name, body.Variants)
		if err != nil {
			return err
		}
		g := GroupProducts(rows)
		if len(g) == 0 {
			return apperr.NotFound("Produk tidak ditemukan")
		}
		return c.JSON(toGroupResponse(g[0], nil))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		if err := DeleteProduct(c.UserContext(), database.DB, actor, c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DELETE /api/products/groups/:name
// Removes every variant row sharing the name.
func DeleteProductGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFrom(c)
		if err != nil {
			return err
		}
		name, err := groupParam(c)
		if err != nil {
			return err
		}

		n, err := DeleteProductGroup(c.UserContext(), database.DB, actor, name)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted": n})
	}
}
