package fileHandler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"files-manager/internal/access"
	"files-manager/internal/apperr"
	"files-manager/internal/model/file"
	"files-manager/internal/service/fileService"
	"files-manager/pkg/middleware"
)

type FileHandler struct {
	files *fileService.FileService
	ctrl  *access.Controller
}

func New(files *fileService.FileService, ctrl *access.Controller) *FileHandler {
	return &FileHandler{files: files, ctrl: ctrl}
}

type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID any    `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

func (h *FileHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var data []byte
	if req.Data != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
			return
		}
		data = decoded
	}

	f, err := h.files.Create(c.Request.Context(), middleware.UserID(c), fileService.CreateParams{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentIDString(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     data,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f.Record())
}

func (h *FileHandler) Show(c *gin.Context) {
	f, err := h.files.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f.Record())
}

func (h *FileHandler) Index(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = 0
	}

	files, err := h.files.List(c.Request.Context(), middleware.UserID(c), c.Query("parentId"), page)
	if err != nil {
		writeError(c, err)
		return
	}

	records := make([]file.Record, 0, len(files))
	for _, f := range files {
		records = append(records, f.Record())
	}
	c.JSON(http.StatusOK, records)
}

func (h *FileHandler) Publish(c *gin.Context) {
	h.setPublic(c, true)
}

func (h *FileHandler) Unpublish(c *gin.Context) {
	h.setPublic(c, false)
}

func (h *FileHandler) setPublic(c *gin.Context, public bool) {
	f, err := h.files.SetPublic(c.Request.Context(), middleware.UserID(c), c.Param("id"), public)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f.Record())
}

// Data serves raw content. The token is optional here: an invalid or
// absent one downgrades the caller to anonymous instead of rejecting.
func (h *FileHandler) Data(c *gin.Context) {
	requester := primitive.NilObjectID
	if token := c.GetHeader("X-Token"); token != "" {
		userID, err := h.ctrl.Resolve(c.Request.Context(), token)
		if err != nil && !errors.Is(err, apperr.ErrUnauthorized) {
			writeError(c, err)
			return
		}
		if err == nil {
			requester = userID
		}
	}

	width := 0
	if size := c.Query("size"); size != "" {
		w, err := strconv.Atoi(size)
		if err != nil {
			writeError(c, apperr.ErrNotFound)
			return
		}
		width = w
	}

	data, f, err := h.files.GetContent(c.Request.Context(), requester, c.Param("id"), width)
	if err != nil {
		writeError(c, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

// parentIDString normalizes the parentId field, which clients send either
// as the number 0 or as a hex id string.
func parentIDString(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return p
	case float64:
		if p == 0 {
			return "0"
		}
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", p)
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}
