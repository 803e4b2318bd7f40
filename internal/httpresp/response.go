package httpresp

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-admin/internal/httperr"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// ActionResult is the uniform answer of every form action.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, ActionResult{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, ActionResult{Success: false, Message: message})
}

func InvalidInputs(c *gin.Context) {
	Fail(c, http.StatusBadRequest, httperr.MsgInvalidInputs)
}

// Error logs err once and answers with the mapped message.
func Error(c *gin.Context, action string, err error) {
	status := http.StatusInternalServerError
	switch {
	case httperr.IsBusiness(err, httperr.CodeAny):
		status = http.StatusBadRequest
	case httperr.IsUniqueViolation(err):
		status = http.StatusConflict
	case httperr.IsNotFound(err):
		status = http.StatusNotFound
	default:
		log.Printf("%s: %v", action, err)
	}
	Fail(c, status, httperr.Message(err))
}
