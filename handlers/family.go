package handlers

import (
	"net/http"

	familyRepo "barberbook/database/repository/family"
	"barberbook/middleware"
	"barberbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FamilyHandler manages the authenticated user's family members.
type FamilyHandler struct {
	Family familyRepo.FamilyRepository
	Logger *zap.Logger
}

func NewFamilyHandler(family familyRepo.FamilyRepository, logger *zap.Logger) *FamilyHandler {
	return &FamilyHandler{Family: family, Logger: logger}
}

// List returns the caller's family members.
func (h *FamilyHandler) List(c *gin.Context) {
	members, err := h.Family.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.Logger.Error("failed to list family members", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load family members"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// Create adds a family member for the caller.
func (h *FamilyHandler) Create(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Relation string `json:"relation,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	member := models.FamilyMember{
		UserID:   middleware.UserID(c),
		Name:     input.Name,
		Relation: input.Relation,
	}
	if err := h.Family.Create(c.Request.Context(), &member); err != nil {
		h.Logger.Error("failed to create family member", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save family member"})
		return
	}
	c.JSON(http.StatusCreated, member)
}

// Update renames a family member or changes the relation.
func (h *FamilyHandler) Update(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Relation string `json:"relation,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	member := models.FamilyMember{
		ID:       c.Param("id"),
		UserID:   middleware.UserID(c),
		Name:     input.Name,
		Relation: input.Relation,
	}
	if err := h.Family.Update(c.Request.Context(), &member); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "family member not found"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// Delete removes a family member.
func (h *FamilyHandler) Delete(c *gin.Context) {
	if err := h.Family.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "family member not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
