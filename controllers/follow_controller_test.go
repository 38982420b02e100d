package controllers_test

import (
	"testing"

	"github.com/DianaKab/hw05-final-new/models"
)

func TestFollowCreatesEdgeAndRedirects(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")
	createUser(t, db, "someone")

	w := doGet(r, "/profile/someone/follow/", sessionCookie(t, viewer))
	wantRedirect(t, w, "/profile/someone/")

	var edges []models.Follow
	if err := db.Find(&edges).Error; err != nil {
		t.Fatalf("load edges: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(edges))
	}
	author, err := models.UserByUsername(db, "someone")
	if err != nil {
		t.Fatalf("resolve author: %v", err)
	}
	if edges[0].UserID != viewer.ID || edges[0].AuthorID != author.ID {
		t.Errorf("edge = (%d,%d), want (%d,%d)", edges[0].UserID, edges[0].AuthorID, viewer.ID, author.ID)
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")
	createUser(t, db, "someone")
	cookie := sessionCookie(t, viewer)

	wantRedirect(t, doGet(r, "/profile/someone/follow/", cookie), "/profile/someone/")
	wantRedirect(t, doGet(r, "/profile/someone/follow/", cookie), "/profile/someone/")

	if got := countRows(t, db, &models.Follow{}); got != 1 {
		t.Errorf("edge count after double follow = %d, want 1", got)
	}
}

func TestSelfFollowNeverCreatesEdge(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")

	wantRedirect(t, doGet(r, "/profile/viewer/follow/", sessionCookie(t, viewer)), "/profile/viewer/")

	if got := countRows(t, db, &models.Follow{}); got != 0 {
		t.Errorf("self-follow created %d edge(s), want 0", got)
	}
}

func TestUnfollowRemovesEdge(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")
	author := createUser(t, db, "someone")
	if err := db.Create(&models.Follow{UserID: viewer.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create edge: %v", err)
	}

	wantRedirect(t, doGet(r, "/profile/someone/unfollow/", sessionCookie(t, viewer)), "/profile/someone/")

	if got := countRows(t, db, &models.Follow{}); got != 0 {
		t.Errorf("edge count after unfollow = %d, want 0", got)
	}
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")
	other := createUser(t, db, "other")
	author := createUser(t, db, "someone")
	// An unrelated edge must survive.
	if err := db.Create(&models.Follow{UserID: other.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create edge: %v", err)
	}

	wantRedirect(t, doGet(r, "/profile/someone/unfollow/", sessionCookie(t, viewer)), "/profile/someone/")

	if got := countRows(t, db, &models.Follow{}); got != 1 {
		t.Errorf("edge count = %d, want 1 (no-op unfollow)", got)
	}
}

func TestFollowRequiresLogin(t *testing.T) {
	db, r := newTestServer(t)
	createUser(t, db, "someone")

	wantRedirect(t, doGet(r, "/profile/someone/follow/", nil), "/auth/login/?next=/profile/someone/follow/")
	if got := countRows(t, db, &models.Follow{}); got != 0 {
		t.Errorf("edge count = %d, want 0", got)
	}
}

func TestFollowUnknownAuthor(t *testing.T) {
	db, r := newTestServer(t)
	viewer := createUser(t, db, "viewer")

	w := doGet(r, "/profile/ghost/follow/", sessionCookie(t, viewer))
	if w.Code != 404 {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
