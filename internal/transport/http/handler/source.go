package handler

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"learningpal/internal/pkg/pdfextract"
	"learningpal/internal/transport/http/response"
)

const maxSourceFileSize = 10 << 20 // 10 MB

// SourceHandler turns an uploaded file into text the learner can submit as
// the source document of a generation request.
type SourceHandler struct{}

func NewSourceHandler() *SourceHandler {
	return &SourceHandler{}
}

func (h *SourceHandler) Extract(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSourceFileSize+1<<20)
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.CodeFileTooLarge, "file too large (max 10MB)")
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxSourceFileSize {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeFileTooLarge, "file too large (max 10MB)")
		return
	}

	f, err := file.Open()
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	text, err := pdfextract.Extract(file.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, pdfextract.ErrUnsupportedType):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFile, err.Error())
		default:
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to extract text: "+err.Error())
		}
		return
	}
	if text == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file contains no extractable text")
		return
	}

	response.OK(c, gin.H{
		"filename": file.Filename,
		"text":     text,
		"chars":    utf8.RuneCountInString(text),
	})
}
