package utils

import (
	"bytes"
	"html/template"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/DianaKab/hw05-final-new/templates"
)

// Pages are rendered into byte buffers rather than straight to the response
// writer, so the index page can be stored in the cache as the exact blob
// that was sent.

var (
	tmplOnce sync.Once
	tmplSet  *template.Template
	tmplErr  error
)

func templateSet() (*template.Template, error) {
	tmplOnce.Do(func() {
		tmplSet, tmplErr = template.ParseFS(templates.FS, "*.html")
	})
	return tmplSet, tmplErr
}

// Render executes the named page template and returns the bytes.
func Render(name string, data any) ([]byte, error) {
	set, err := templateSet()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTML renders the named page template into the response.
func HTML(ctx *gin.Context, status int, name string, data any) {
	b, err := Render(name, data)
	if err != nil {
		if Sugar != nil {
			Sugar.Errorf("render %s failed: %v", name, err)
		}
		ctx.String(http.StatusInternalServerError, "internal server error")
		return
	}
	ctx.Data(status, "text/html; charset=utf-8", b)
}

// NotFound renders the generic not-found page.
func NotFound(ctx *gin.Context) {
	HTML(ctx, http.StatusNotFound, "404.html", gin.H{})
	ctx.Abort()
}
