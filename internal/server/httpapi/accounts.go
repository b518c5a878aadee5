package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/server/images"
	"github.com/annagruz/taskvault/internal/server/services"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int64  `json:"age"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, token, err := s.accounts.Create(c.Request.Context(), services.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": account.Public(), "token": token})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	account, token, err := s.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": account.Public(), "token": token})
}

func (s *Server) logout(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.accounts.Logout(c.Request.Context(), session.Account.ID, session.Token); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) logoutAll(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.accounts.LogoutAll(c.Request.Context(), session.Account.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) getProfile(c *gin.Context) {
	session := sessionFrom(c)
	c.JSON(http.StatusOK, session.Account.Public())
}

func (s *Server) updateProfile(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session := sessionFrom(c)
	updated, err := s.accounts.Update(c.Request.Context(), session.Account, fields)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated.Public())
}

func (s *Server) deleteAccount(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.accounts.Delete(c.Request.Context(), session.Account); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Account.Public())
}

func (s *Server) setAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar file"})
		return
	}
	if file.Size > images.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload exceeds 1 MiB"})
		return
	}

	f, err := file.Open()
	if err != nil {
		writeError(c, common.ErrInternal)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, images.MaxUploadBytes+1))
	if err != nil {
		writeError(c, common.ErrInternal)
		return
	}

	session := sessionFrom(c)
	if err := s.accounts.SetAvatar(c.Request.Context(), session.Account.ID, raw); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) removeAvatar(c *gin.Context) {
	session := sessionFrom(c)
	if err := s.accounts.RemoveAvatar(c.Request.Context(), session.Account.ID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// getAvatar serves the avatar of any account by ID. Deliberately public:
// the image itself is the only thing disclosed.
func (s *Server) getAvatar(c *gin.Context) {
	data, err := s.accounts.GetAvatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}
