// Package handler contains the Gin HTTP handlers.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/varlik-app/varlik/internal/auth"
	"github.com/varlik-app/varlik/internal/repository"
)

// Descriptor configures the generic CRUD handler for one entity: the
// URL path segment and the columns clients may filter, sort and update.
// Column names double as JSON field names; id, user_id and created_at
// are never client-writable.
type Descriptor struct {
	Name    string
	Columns map[string]bool
}

// Allows reports whether clients may touch the column.
func (d Descriptor) Allows(column string) bool {
	switch column {
	case "id", "user_id", "created_at", "updated_at":
		return false
	}
	return d.Columns[column]
}

type owned interface {
	SetOwner(userID string)
}

// Resource is the generic CRUD handler over a user-scoped repository.
// One instance serves one entity type; all six near-identical per-entity
// routers collapse into this.
type Resource[T any, PT interface {
	*T
	owned
}] struct {
	repo   *repository.Scoped[T]
	desc   Descriptor
	logger *logrus.Logger
}

// NewResource builds the CRUD handler for entity type T.
func NewResource[T any, PT interface {
	*T
	owned
}](repo *repository.Scoped[T], desc Descriptor, logger *logrus.Logger) *Resource[T, PT] {
	return &Resource[T, PT]{repo: repo, desc: desc, logger: logger}
}

// Name returns the entity's URL path segment.
func (r *Resource[T, PT]) Name() string { return r.desc.Name }

// Register mounts the CRUD routes onto the group.
func (r *Resource[T, PT]) Register(group *gin.RouterGroup) {
	entity := group.Group("/" + r.desc.Name)
	{
		entity.GET("", r.List)
		entity.POST("", r.Create)
		entity.GET("/:id", r.Get)
		entity.PUT("/:id", r.Update)
		entity.DELETE("/:id", r.Delete)
	}
}

type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

func (r *Resource[T, PT]) List(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	params := repository.ListParams{
		Skip:    intQuery(c, "skip", 0),
		Limit:   intQuery(c, "limit", 20),
		Filters: map[string]any{},
	}
	for column := range r.desc.Columns {
		if value, exists := c.GetQuery(column); exists {
			params.Filters[column] = value
		}
	}
	if sort := c.Query("sort"); sort != "" {
		column := sort
		if column[0] == '-' {
			column = column[1:]
		}
		if !r.desc.Allows(column) && column != "id" && column != "created_at" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort column"})
			return
		}
		params.Sort = sort
	}

	items, total, err := r.repo.List(c.Request.Context(), identity.UserID, params)
	if err != nil {
		r.logger.Errorf("Error listing %s: %v", r.desc.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusOK, listResponse[T]{Items: items, Total: total, Skip: params.Skip, Limit: params.Limit})
}

func (r *Resource[T, PT]) Create(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var obj T
	if err := c.ShouldBindJSON(&obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	PT(&obj).SetOwner(identity.UserID)

	if err := r.repo.Create(c.Request.Context(), &obj); err != nil {
		r.logger.Errorf("Error creating %s: %v", r.desc.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	c.JSON(http.StatusCreated, obj)
}

func (r *Resource[T, PT]) Get(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	obj, err := r.repo.GetByID(c.Request.Context(), identity.UserID, id)
	if err != nil {
		r.logger.Errorf("Error fetching %s %d: %v", r.desc.Name, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if obj == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": r.desc.Name + " not found"})
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (r *Resource[T, PT]) Update(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := make(map[string]any, len(raw))
	for column, value := range raw {
		if r.desc.Allows(column) {
			updates[column] = value
		}
	}

	obj, err := r.repo.Update(c.Request.Context(), identity.UserID, id, updates)
	if err != nil {
		r.logger.Errorf("Error updating %s %d: %v", r.desc.Name, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if obj == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": r.desc.Name + " not found"})
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (r *Resource[T, PT]) Delete(c *gin.Context) {
	identity, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	deleted, err := r.repo.Delete(c.Request.Context(), identity.UserID, id)
	if err != nil {
		r.logger.Errorf("Error deleting %s %d: %v", r.desc.Name, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": r.desc.Name + " not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func intQuery(c *gin.Context, name string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
