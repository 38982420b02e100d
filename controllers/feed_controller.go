package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DianaKab/hw05-final-new/config"
	"github.com/DianaKab/hw05-final-new/middleware"
	"github.com/DianaKab/hw05-final-new/models"
	"github.com/DianaKab/hw05-final-new/utils"
)

const htmlContentType = "text/html; charset=utf-8"

// IndexCachePrefix keys the cached global feed pages.
const IndexCachePrefix = "cache:index:"

// FeedController renders the four feed pages.
type FeedController struct {
	db *gorm.DB
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{db: db}
}

// Index renders the global feed. The whole rendered page is cached for the
// configured window; within it the stored blob is returned as-is even when
// the underlying posts changed. That staleness is an accepted trade-off.
func (f *FeedController) Index(ctx *gin.Context) {
	pageParam := ctx.Query("page")
	key := indexCacheKey(pageParam)

	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, htmlContentType, b)
		return
	}

	posts, err := models.AllPosts(f.db)
	if err != nil {
		serverError(ctx, "load posts", err)
		return
	}
	page := utils.Paginate(posts, pageParam)

	b, err := utils.Render("index.html", gin.H{"Page": page})
	if err != nil {
		serverError(ctx, "render index", err)
		return
	}
	ctx.Data(http.StatusOK, htmlContentType, b)

	ttl := time.Duration(config.Get().IndexCacheSeconds) * time.Second
	utils.CacheSetBytes(key, b, ttl)
}

func indexCacheKey(pageParam string) string {
	if pageParam == "" {
		pageParam = "1"
	}
	return fmt.Sprintf("%spage=%s", IndexCachePrefix, pageParam)
}

// GroupPosts renders the feed of one group, resolved by slug.
func (f *FeedController) GroupPosts(ctx *gin.Context) {
	group, err := models.GroupBySlug(f.db, ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		serverError(ctx, "load group", err)
		return
	}

	posts, err := models.PostsByGroup(f.db, group.ID)
	if err != nil {
		serverError(ctx, "load group posts", err)
		return
	}
	page := utils.Paginate(posts, ctx.Query("page"))

	utils.HTML(ctx, http.StatusOK, "group_list.html", gin.H{
		"Group": group,
		"Page":  page,
	})
}

// Profile renders an author's feed plus, for an authenticated viewer,
// whether they already follow the author.
func (f *FeedController) Profile(ctx *gin.Context) {
	author, err := models.UserByUsername(f.db, ctx.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx)
			return
		}
		serverError(ctx, "load author", err)
		return
	}

	posts, err := models.PostsByAuthor(f.db, author.ID)
	if err != nil {
		serverError(ctx, "load author posts", err)
		return
	}
	page := utils.Paginate(posts, ctx.Query("page"))

	following := false
	viewerID, authenticated := middleware.ViewerID(ctx)
	if authenticated {
		following, err = models.IsFollowing(f.db, viewerID, author.ID)
		if err != nil {
			serverError(ctx, "load follow state", err)
			return
		}
	}

	utils.HTML(ctx, http.StatusOK, "profile.html", gin.H{
		"Author":    author,
		"Page":      page,
		"Following": following,
		"IsSelf":    authenticated && viewerID == author.ID,
	})
}

// FollowIndex renders the feed of authors the viewer follows. The route is
// behind LoginRequired, so the viewer is always resolved here.
func (f *FeedController) FollowIndex(ctx *gin.Context) {
	viewerID, ok := middleware.ViewerID(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, middleware.LoginPath+"?next="+ctx.Request.URL.Path)
		return
	}

	posts, err := models.PostsByFollowed(f.db, viewerID)
	if err != nil {
		serverError(ctx, "load followed posts", err)
		return
	}
	page := utils.Paginate(posts, ctx.Query("page"))

	utils.HTML(ctx, http.StatusOK, "follow.html", gin.H{"Page": page})
}

func serverError(ctx *gin.Context, op string, err error) {
	if utils.Sugar != nil {
		utils.Sugar.Errorf("%s failed: %v", op, err)
	}
	ctx.String(http.StatusInternalServerError, "internal server error")
	ctx.Abort()
}
