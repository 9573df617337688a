package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-aura/backend/internal/api/dto"
	"github.com/campus-aura/backend/internal/service"
)

// DocumentsHandler exposes raw document access for administrators.
type DocumentsHandler struct {
	documents *service.DocumentService
}

// NewDocumentsHandler constructs handler.
func NewDocumentsHandler(documents *service.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// List handles GET /api/firestore/:collection.
func (h *DocumentsHandler) List(c *fiber.Ctx) error {
	docs, err := h.documents.List(c.UserContext(), c.Params("collection"))
	if err != nil {
		return err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentResponse(doc))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/firestore/:collection/:documentId.
func (h *DocumentsHandler) Get(c *fiber.Ctx) error {
	doc, err := h.documents.Get(c.UserContext(), c.Params("collection"), c.Params("documentId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": documentResponse(doc)})
}

// Save handles POST /api/firestore/:collection/:documentId.
func (h *DocumentsHandler) Save(c *fiber.Ctx) error {
	var fields map[string]any
	if err := parseBody(c, &fields); err != nil {
		return err
	}

	doc, err := h.documents.Save(c.UserContext(), c.Params("collection"), c.Params("documentId"), fields)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": documentResponse(doc)})
}

// Delete handles DELETE /api/firestore/:collection/:documentId.
func (h *DocumentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.documents.Delete(c.UserContext(), c.Params("collection"), c.Params("documentId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func documentResponse(doc *service.RawDocument) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:         doc.ID,
		Collection: doc.Collection,
		Data:       doc.Fields,
		UpdateTime: doc.UpdateTime,
	}
}
