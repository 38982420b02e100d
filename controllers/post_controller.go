package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DianaKab/hw05-final-new/config"
	"github.com/DianaKab/hw05-final-new/middleware"
	"github.com/DianaKab/hw05-final-new/models"
	"github.com/DianaKab/hw05-final-new/utils"
)

// PostController renders post detail and handles the create/edit/comment
// mutations.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// postForm is the submitted state of the create/edit form, kept so invalid
// submissions re-render with what the user typed.
type postForm struct {
	Text    string
	GroupID *uint
	Errors  map[string]string
}

// Detail renders one post with its comments and the comment form.
func (p *PostController) Detail(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}

	comments, err := models.CommentsByPost(p.db, post.ID)
	if err != nil {
		serverError(ctx, "load comments", err)
		return
	}

	viewerID, _ := middleware.ViewerID(ctx)
	utils.HTML(ctx, http.StatusOK, "post_detail.html", gin.H{
		"Post":     post,
		"Comments": comments,
		"IsAuthor": viewerID == post.UserID && viewerID != 0,
	})
}

// Create renders the submission form on GET and creates a post on a valid
// POST, redirecting to the author's profile. Invalid submissions re-render
// the form with field errors and persist nothing.
func (p *PostController) Create(ctx *gin.Context) {
	if ctx.Request.Method != http.MethodPost {
		p.renderPostForm(ctx, postForm{Errors: map[string]string{}}, false, 0)
		return
	}

	form := p.bindPostForm(ctx)
	image, imageErr := p.saveSubmittedImage(ctx)
	if imageErr != "" {
		form.Errors["image"] = imageErr
	}
	if len(form.Errors) > 0 {
		p.renderPostForm(ctx, form, false, 0)
		return
	}

	viewerID, _ := middleware.ViewerID(ctx)
	viewerName, _ := middleware.ViewerUsername(ctx)

	post := models.Post{
		UserID:  viewerID,
		GroupID: form.GroupID,
		Text:    form.Text,
		Image:   image,
	}
	if err := p.db.Create(&post).Error; err != nil {
		serverError(ctx, "create post", err)
		return
	}

	ctx.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", viewerName))
}

// Edit lets the author change text, group and image of an existing post.
// Everyone else, anonymous viewers included, is silently redirected to the
// post detail page. Author and publication date never change.
func (p *PostController) Edit(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	detailURL := fmt.Sprintf("/posts/%d/", post.ID)

	viewerID, authenticated := middleware.ViewerID(ctx)
	if !authenticated || viewerID != post.UserID {
		ctx.Redirect(http.StatusFound, detailURL)
		return
	}

	if ctx.Request.Method != http.MethodPost {
		p.renderPostForm(ctx, postForm{
			Text:    post.Text,
			GroupID: post.GroupID,
			Errors:  map[string]string{},
		}, true, post.ID)
		return
	}

	form := p.bindPostForm(ctx)
	image, imageErr := p.saveSubmittedImage(ctx)
	if imageErr != "" {
		form.Errors["image"] = imageErr
	}
	if len(form.Errors) > 0 {
		p.renderPostForm(ctx, form, true, post.ID)
		return
	}

	updates := map[string]interface{}{
		"text":     form.Text,
		"group_id": form.GroupID,
	}
	if image != "" {
		updates["image"] = image
	}
	if err := p.db.Model(post).Updates(updates).Error; err != nil {
		serverError(ctx, "update post", err)
		return
	}

	ctx.Redirect(http.StatusFound, detailURL)
}

// AddComment attaches a comment to an existing post. An invalid submission
// is dropped without a record and still redirects to the detail page; the
// rejection is only logged.
func (p *PostController) AddComment(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	detailURL := fmt.Sprintf("/posts/%d/", post.ID)

	text := strings.TrimSpace(utils.Sanitize(ctx.PostForm("text")))
	if text == "" {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("empty comment submission dropped post=%d", post.ID)
		}
		ctx.Redirect(http.StatusFound, detailURL)
		return
	}

	viewerID, _ := middleware.ViewerID(ctx)
	comment := models.Comment{
		PostID: post.ID,
		UserID: viewerID,
		Text:   text,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		serverError(ctx, "create comment", err)
		return
	}

	ctx.Redirect(http.StatusFound, detailURL)
}

// loadPost resolves the :id route param into a post, answering 404 when the
// id is malformed or unknown.
func (p *PostController) loadPost(ctx *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.NotFound(ctx)
		return nil, false
	}
	var post models.Post
	if err := p.db.Preload("User").Preload("Group").First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return nil, false
		}
		serverError(ctx, "load post", err)
		return nil, false
	}
	return &post, true
}

// bindPostForm validates the submitted text and group fields.
func (p *PostController) bindPostForm(ctx *gin.Context) postForm {
	form := postForm{Errors: map[string]string{}}

	form.Text = strings.TrimSpace(utils.Sanitize(ctx.PostForm("text")))
	if form.Text == "" {
		form.Errors["text"] = "Text is required."
	}

	if groupParam := strings.TrimSpace(ctx.PostForm("group")); groupParam != "" {
		id, err := strconv.ParseUint(groupParam, 10, 64)
		if err != nil {
			form.Errors["group"] = "Select a valid group."
			return form
		}
		var group models.Group
		if err := p.db.First(&group, uint(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				form.Errors["group"] = "Select a valid group."
				return form
			}
			form.Errors["group"] = "Group lookup failed."
			return form
		}
		form.GroupID = &group.ID
	}

	return form
}

// saveSubmittedImage stores the optional image field. The empty URL with an
// empty message means no file was submitted.
func (p *PostController) saveSubmittedImage(ctx *gin.Context) (url string, errMsg string) {
	header, err := ctx.FormFile("image")
	if err != nil {
		return "", "" // field absent
	}
	url, err = utils.SaveImage(header, config.Get().UploadsDir)
	if err != nil {
		if errors.Is(err, utils.ErrNotImage) {
			return "", "Upload a valid image."
		}
		if utils.Sugar != nil {
			utils.Sugar.Errorf("save image failed: %v", err)
		}
		return "", "Could not store the image."
	}
	return url, ""
}

func (p *PostController) renderPostForm(ctx *gin.Context, form postForm, isEdit bool, postID uint) {
	groups, err := p.allGroups()
	if err != nil {
		serverError(ctx, "load groups", err)
		return
	}
	var selected uint
	if form.GroupID != nil {
		selected = *form.GroupID
	}
	utils.HTML(ctx, http.StatusOK, "create_post.html", gin.H{
		"Form":          form,
		"Groups":        groups,
		"SelectedGroup": selected,
		"IsEdit":        isEdit,
		"PostID":        postID,
	})
}

func (p *PostController) allGroups() ([]models.Group, error) {
	var groups []models.Group
	err := p.db.Order("title ASC").Find(&groups).Error
	return groups, err
}
