package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carrizal-edu/asistencia-api/internal/service"
	appErrors "github.com/carrizal-edu/asistencia-api/pkg/errors"
	"github.com/carrizal-edu/asistencia-api/pkg/response"
)

// RosterHandler exposes roster endpoints.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler constructs RosterHandler.
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// List godoc
// @Summary List students
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *RosterHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.List(c.Request.Context()))
}

// Add godoc
// @Summary Add student
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body service.AddStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Success 204 "Name empty after trimming; nothing added"
// @Router /students [post]
func (h *RosterHandler) Add(c *gin.Context) {
	var req service.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.roster.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if student == nil {
		response.NoContent(c)
		return
	}
	response.Created(c, student)
}

// Remove godoc
// @Summary Remove student
// @Tags Roster
// @Produce json
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *RosterHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id must be an integer"))
		return
	}
	if err := h.roster.Remove(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
