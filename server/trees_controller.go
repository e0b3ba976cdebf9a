package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/rootlinehq/rootline/store"
)

// TreesController serves the public family tree read model.
type TreesController struct {
	Trees store.FamilyTrees
}

// PublicTree returns a tree with its people and relationships. A tree that
// does not exist, is deleted, or is private all answer 404 so the endpoint
// cannot confirm that a given id exists.
func (t *TreesController) PublicTree(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// malformed ids get the same 404 as unknown ones
		return repository.NewRecordNotFound()
	}

	tree, err := t.Trees.GetPublicTree(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(tree)
}
