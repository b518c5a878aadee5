package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/server/models"
	"github.com/annagruz/taskvault/internal/server/repositories/tasks"
)

type createTaskRequest struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func (s *Server) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session := sessionFrom(c)
	task, err := s.tasks.Create(c.Request.Context(), session.Account.ID, req.Description, req.Completed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) listTasks(c *gin.Context) {
	opts, err := listOptionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := sessionFrom(c)
	list, err := s.tasks.List(c.Request.Context(), session.Account.ID, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	if list == nil {
		list = []*models.Task{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getTask(c *gin.Context) {
	session := sessionFrom(c)
	task, err := s.tasks.Get(c.Request.Context(), session.Account.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) updateTask(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session := sessionFrom(c)
	task, err := s.tasks.Update(c.Request.Context(), session.Account.ID, c.Param("id"), fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.tasks.Delete(c.Request.Context(), session.Account.ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// sortKeys maps the query-string spelling of sortable fields to columns.
var sortKeys = map[string]tasks.SortKey{
	"createdAt":   tasks.SortByCreatedAt,
	"updatedAt":   tasks.SortByUpdatedAt,
	"description": tasks.SortByDescription,
	"completed":   tasks.SortByCompleted,
}

// listOptionsFromQuery parses ?completed=, ?limit=, ?skip= and
// ?sortBy=field:direction into ListOptions.
func listOptionsFromQuery(c *gin.Context) (tasks.ListOptions, error) {
	var opts tasks.ListOptions

	if v := c.Query("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errQuery("completed must be true or false")
		}
		opts.Filter.Completed = &completed
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return opts, errQuery("limit must be a non-negative integer")
		}
		opts.Limit = limit
	}

	if v := c.Query("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			return opts, errQuery("skip must be a non-negative integer")
		}
		opts.Skip = skip
	}

	if v := c.Query("sortBy"); v != "" {
		field, direction, _ := strings.Cut(v, ":")
		key, ok := sortKeys[field]
		if !ok {
			return opts, errQuery("unknown sort field")
		}
		opts.SortBy = key
		switch direction {
		case "", "asc":
		case "desc":
			opts.Desc = true
		default:
			return opts, errQuery("sort direction must be asc or desc")
		}
	}

	return opts, nil
}

func errQuery(msg string) error { return common.NewValidationError("query", msg) }
