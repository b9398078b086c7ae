package handlers

import (
	"github.com/anjiri1684/supercar_rentals/models"
	"github.com/anjiri1684/supercar_rentals/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type CreateCommentRequest struct {
	BookingID string   `json:"bookingId" validate:"required,uuid"`
	Rating    int      `json:"rating" validate:"required,min=1,max=5"`
	Content   string   `json:"content" validate:"required,max=1000"`
	Images    []string `json:"images" validate:"max=5,dive,url"`
}

type UpdateCommentRequest struct {
	Rating  *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Content *string  `json:"content" validate:"omitempty,max=1000"`
	Images  []string `json:"images" validate:"omitempty,max=5,dive,url"`
}

type ModerateRequest struct {
	Status   models.CommentStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Response *string              `json:"adminResponse"`
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	comment, err := h.comments.Create(c.UserContext(), services.CreateCommentInput{
		UserID:    p.UserID,
		BookingID: uuid.MustParse(req.BookingID),
		Rating:    req.Rating,
		Content:   req.Content,
		Images:    req.Images,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) ListByCar(c *fiber.Ctx) error {
	carID, err := paramID(c, "carId")
	if err != nil {
		return respondError(c, err)
	}
	comments, err := h.comments.ListByCar(c.UserContext(), carID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

func (h *CommentHandler) ListByUser(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return respondError(c, err)
	}
	if err := selfOrAdmin(p, userID); err != nil {
		return respondError(c, err)
	}
	comments, err := h.comments.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

func (h *CommentHandler) ListPending(c *fiber.Ctx) error {
	comments, err := h.comments.ListPending(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}

	comment, err := h.comments.Edit(c.UserContext(), id, p.UserID, services.EditCommentInput{
		Rating:  req.Rating,
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.comments.Delete(c.UserContext(), id, p.UserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

func (h *CommentHandler) Moderate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req ModerateRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	comment, err := h.comments.Moderate(c.UserContext(), id, req.Status, req.Response)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}
