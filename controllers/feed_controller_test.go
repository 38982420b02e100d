package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DianaKab/hw05-final-new/controllers"
	"github.com/DianaKab/hw05-final-new/models"
	"github.com/DianaKab/hw05-final-new/utils"
)

var feedBase = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func postMarkers(body string) int {
	return strings.Count(body, `<li class="post">`)
}

func TestIndexShowsPostsNewestFirst(t *testing.T) {
	db, r := newTestServer(t)
	author := createUser(t, db, "leo")
	createPost(t, db, author, nil, "older entry", feedBase)
	createPost(t, db, author, nil, "newer entry", feedBase.Add(time.Hour))

	w := doGet(r, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	newer := strings.Index(body, "newer entry")
	older := strings.Index(body, "older entry")
	if newer == -1 || older == -1 {
		t.Fatalf("both posts should be on page one, body: %s", body)
	}
	if newer > older {
		t.Error("newer post should be rendered before the older one")
	}
}

func TestGroupFeedPagination(t *testing.T) {
	db, r := newTestServer(t)
	author := createUser(t, db, "leo")
	group := createGroup(t, db, "Cats", "cats")
	for i := 0; i < 11; i++ {
		createPost(t, db, author, &group.ID, fmt.Sprintf("cat post %d", i), feedBase.Add(time.Duration(i)*time.Minute))
	}

	w := doGet(r, "/group/cats/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := postMarkers(w.Body.String()); got != 10 {
		t.Errorf("page 1 shows %d posts, want 10", got)
	}

	w = doGet(r, "/group/cats/?page=2", nil)
	if got := postMarkers(w.Body.String()); got != 1 {
		t.Errorf("page 2 shows %d posts, want 1", got)
	}
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	_, r := newTestServer(t)
	w := doGet(r, "/group/nope/", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestProfileFeedShowsOnlyAuthorPosts(t *testing.T) {
	db, r := newTestServer(t)
	leo := createUser(t, db, "leo")
	mia := createUser(t, db, "mia")
	createPost(t, db, leo, nil, "from leo", feedBase)
	createPost(t, db, mia, nil, "from mia", feedBase)

	w := doGet(r, "/profile/leo/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "from leo") {
		t.Error("leo's post missing from his profile")
	}
	if strings.Contains(body, "from mia") {
		t.Error("mia's post leaked into leo's profile")
	}
}

func TestProfileUnknownUsername(t *testing.T) {
	_, r := newTestServer(t)
	w := doGet(r, "/profile/nobody/", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestProfileFollowState(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "author")

	// Anonymous viewers see the follow action, never the unfollow one.
	w := doGet(r, "/profile/author/", nil)
	if !strings.Contains(w.Body.String(), "/profile/author/follow/") {
		t.Error("anonymous profile should offer the follow link")
	}

	if err := db.Create(&models.Follow{UserID: viewer.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
	w = doGet(r, "/profile/author/", sessionCookie(t, viewer))
	if !strings.Contains(w.Body.String(), "/profile/author/unfollow/") {
		t.Error("following viewer should see the unfollow link")
	}
}

func TestFollowIndexRequiresLogin(t *testing.T) {
	_, r := newTestServer(t)
	w := doGet(r, "/follow/", nil)
	wantRedirect(t, w, "/auth/login/?next=/follow/")
}

func TestFollowIndexShowsFollowedAuthorsOnly(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")
	followed := createUser(t, db, "followed")
	stranger := createUser(t, db, "stranger")
	if err := db.Create(&models.Follow{UserID: viewer.ID, AuthorID: followed.ID}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}
	createPost(t, db, followed, nil, "followed author post", feedBase)
	createPost(t, db, stranger, nil, "stranger post", feedBase)

	w := doGet(r, "/follow/", sessionCookie(t, viewer))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "followed author post") {
		t.Error("post from a followed author is missing")
	}
	if strings.Contains(body, "stranger post") {
		t.Error("post from an unfollowed author leaked into the feed")
	}
}

func TestIndexCacheServesStaleBytesUntilCleared(t *testing.T) {
	db, r := newTestServer(t)
	author := createUser(t, db, "leo")
	post := createPost(t, db, author, nil, "soon to be deleted", feedBase)

	first := doGet(r, "/", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}

	// Delete behind the cache's back; within the window the page must not move.
	if err := db.Delete(&models.Post{}, post.ID).Error; err != nil {
		t.Fatalf("delete post: %v", err)
	}

	second := doGet(r, "/", nil)
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached index response should be byte-identical within the cache window")
	}
	if !strings.Contains(second.Body.String(), "soon to be deleted") {
		t.Error("stale page should still show the deleted post")
	}

	// Administrative invalidation makes the next render see the change.
	utils.InvalidateByPrefix(controllers.IndexCachePrefix)
	third := doGet(r, "/", nil)
	if strings.Contains(third.Body.String(), "soon to be deleted") {
		t.Error("after invalidation the deleted post should be gone")
	}
}

func TestUnmatchedPathRenders404Page(t *testing.T) {
	_, r := newTestServer(t)
	w := doGet(r, "/definitely/not/a/route/", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "does not exist") {
		t.Error("generic not-found page expected")
	}
}
