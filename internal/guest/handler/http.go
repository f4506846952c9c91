// Package handler serves guest find-or-create over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelmgt/internal/guest/domain"
)

// GuestResolver is implemented by *service.GuestService.
type GuestResolver interface {
	EnsureGuest(ctx context.Context, identity domain.Identity) (*domain.Resolution, error)
}

type ResolveGuestRequest struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	IDType      string `json:"id_type"`
	IDNumber    string `json:"id_number"`
	RecordedBy  *int64 `json:"recorded_by"`
}

type ResolveGuestResponse struct {
	GuestID int64 `json:"guest_id"`
	Created bool  `json:"created"`
}

type GuestHandler struct {
	guests GuestResolver
}

func NewGuestHandler(guests GuestResolver) *GuestHandler {
	return &GuestHandler{guests: guests}
}

// Register mounts the guest routes on rg.
func (h *GuestHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/guests/resolve", h.Resolve)
}

// Resolve returns 201 when a guest was created and 200 when an existing guest matched.
func (h *GuestHandler) Resolve(c *gin.Context) {
	ctx := c.Request.Context()

	var req ResolveGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.guests.EnsureGuest(ctx, domain.Identity{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IDType:      req.IDType,
		IDNumber:    req.IDNumber,
		RecordedBy:  req.RecordedBy,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidIdentity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "guest resolution failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve guest"})
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, ResolveGuestResponse{GuestID: res.GuestID, Created: res.Created})
}
