package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// apiError is the JSON body of every error response.
type apiError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

func respondError(c *gin.Context, e *apiError) {
	c.AbortWithStatusJSON(e.Status, e)
}

type fieldInfo struct {
	name string
	help string
	kind string
}

// Request fields keyed by Go struct field name.
var requestFields = map[string]fieldInfo{
	"Title":    {name: "title", help: "Title of video", kind: "a string"},
	"Creator":  {name: "creator", help: "Creator of video", kind: "a string"},
	"Likes":    {name: "likes", help: "Likes on video", kind: "an integer"},
	"Views":    {name: "views", help: "Views of video", kind: "an integer"},
	"Username": {name: "username", help: "Username", kind: "a string"},
	"Password": {name: "password", help: "Password", kind: "a string"},
}

func fieldByJSONName(name string) fieldInfo {
	for _, f := range requestFields {
		if f.name == name {
			return f
		}
	}
	return fieldInfo{name: name, help: name, kind: "valid"}
}

// validationError turns a binding error into a 400 naming the offending field.
func validationError(err error) *apiError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		f, ok := requestFields[fe.StructField()]
		if !ok {
			f = fieldInfo{name: fe.Field(), help: fe.Field()}
		}
		msg := f.help + " is required"
		if fe.Tag() == "min" {
			msg = f.help + " must not be empty"
		}
		return &apiError{Status: http.StatusBadRequest, Message: msg, Field: f.name}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		f := fieldByJSONName(typeErr.Field)
		return &apiError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("%s must be %s", f.help, f.kind),
			Field:   f.name,
		}
	}

	return &apiError{Status: http.StatusBadRequest, Message: "malformed JSON body"}
}

// bindJSON decodes the request body into obj. An empty body is validated as
// an empty object so the first missing field is reported.
func bindJSON(c *gin.Context, obj any) *apiError {
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		return validationError(err)
	}
	return nil
}
