package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/basketsplit/basketsplit/internal/api/dto"
)

func (s *Server) createUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("username is required"))
		return
	}

	user, err := s.repo.CreateUser(req.Username, req.Email)
	if err != nil {
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.NewAPIError(dto.ErrCodeValidation, "username already taken"))
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.repo.ListUsers()
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) createGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("name is required"))
		return
	}

	group, err := s.repo.CreateGroup(req.Name, req.Description)
	if err != nil {
		s.logger.Error("failed to create group", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.NewAPIError(dto.ErrCodeValidation, "group name already taken"))
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (s *Server) listGroups(c *gin.Context) {
	groups, err := s.repo.ListGroups()
	if err != nil {
		s.logger.Error("failed to list groups", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (s *Server) addUserToGroup(c *gin.Context) {
	groupID, ok := paramInt64(c, "groupID")
	if !ok {
		return
	}
	userID, ok := paramInt64(c, "userID")
	if !ok {
		return
	}

	if err := s.repo.AddUserToGroup(userID, groupID); err != nil {
		s.logger.Error("failed to add user to group", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.Status(http.StatusNoContent)
}
