package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DianaKab/hw05-final-new/middleware"
	"github.com/DianaKab/hw05-final-new/models"
	"github.com/DianaKab/hw05-final-new/utils"
)

// FollowController manages the directed subscription edges between users.
type FollowController struct {
	db *gorm.DB
}

// NewFollowController creates a new FollowController instance.
func NewFollowController(db *gorm.DB) *FollowController {
	return &FollowController{db: db}
}

// Follow subscribes the viewer to the target author and redirects to the
// author's profile. The edge is created at most once: the unique
// (user, author) index is the guard, and a duplicate-key error from a
// concurrent identical request counts as success. Self-follow never creates
// an edge.
func (f *FollowController) Follow(ctx *gin.Context) {
	author, ok := f.resolveAuthor(ctx)
	if !ok {
		return
	}

	viewerID, _ := middleware.ViewerID(ctx)
	if viewerID != author.ID {
		edge := models.Follow{UserID: viewerID, AuthorID: author.ID}
		if err := f.db.Create(&edge).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			serverError(ctx, "create follow", err)
			return
		}
	}

	ctx.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", author.Username))
}

// Unfollow removes the viewer's subscription to the target author, if one
// exists, and redirects to the author's profile. A missing edge is a no-op.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	author, ok := f.resolveAuthor(ctx)
	if !ok {
		return
	}

	viewerID, _ := middleware.ViewerID(ctx)
	if err := f.db.
		Where("user_id = ? AND author_id = ?", viewerID, author.ID).
		Delete(&models.Follow{}).Error; err != nil {
		serverError(ctx, "delete follow", err)
		return
	}

	ctx.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", author.Username))
}

func (f *FollowController) resolveAuthor(ctx *gin.Context) (*models.User, bool) {
	author, err := models.UserByUsername(f.db, ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return nil, false
		}
		serverError(ctx, "load author", err)
		return nil, false
	}
	return author, true
}
