package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DianaKab/hw05-final-new/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// A pooled :memory: connection per conn would mean one database per
	// connection; keep a single one.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{}, &models.Group{}, &models.Post{},
		&models.Comment{}, &models.Follow{}, &models.PageView{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func TestAllPostsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	author := models.User{Username: "leo"}
	mustCreate(t, db, &author)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"first", "second", "third"} {
		mustCreate(t, db, &models.Post{
			UserID:    author.ID,
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	posts, err := models.AllPosts(db)
	if err != nil {
		t.Fatalf("AllPosts: %v", err)
	}

	var got []string
	for _, p := range posts {
		got = append(got, p.Text)
	}
	want := []string{"third", "second", "first"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("post order mismatch (-want +got):\n%s", diff)
	}
	if posts[0].User.Username != "leo" {
		t.Errorf("author not preloaded, got %q", posts[0].User.Username)
	}
}

func TestPostsByGroupFiltersOtherGroups(t *testing.T) {
	db := newTestDB(t)
	author := models.User{Username: "leo"}
	mustCreate(t, db, &author)
	cats := models.Group{Title: "Cats", Slug: "cats"}
	dogs := models.Group{Title: "Dogs", Slug: "dogs"}
	mustCreate(t, db, &cats)
	mustCreate(t, db, &dogs)

	mustCreate(t, db, &models.Post{UserID: author.ID, GroupID: &cats.ID, Text: "meow"})
	mustCreate(t, db, &models.Post{UserID: author.ID, GroupID: &dogs.ID, Text: "woof"})
	mustCreate(t, db, &models.Post{UserID: author.ID, Text: "no group"})

	posts, err := models.PostsByGroup(db, cats.ID)
	if err != nil {
		t.Fatalf("PostsByGroup: %v", err)
	}
	if len(posts) != 1 || posts[0].Text != "meow" {
		t.Fatalf("expected only the cats post, got %+v", posts)
	}
	if posts[0].Group == nil || posts[0].Group.Slug != "cats" {
		t.Errorf("group not preloaded: %+v", posts[0].Group)
	}
}

func TestPostsByFollowedJoinsFollowEdges(t *testing.T) {
	db := newTestDB(t)
	viewer := models.User{Username: "viewer"}
	followed := models.User{Username: "followed"}
	stranger := models.User{Username: "stranger"}
	mustCreate(t, db, &viewer)
	mustCreate(t, db, &followed)
	mustCreate(t, db, &stranger)

	mustCreate(t, db, &models.Follow{UserID: viewer.ID, AuthorID: followed.ID})
	mustCreate(t, db, &models.Post{UserID: followed.ID, Text: "from followed"})
	mustCreate(t, db, &models.Post{UserID: stranger.ID, Text: "from stranger"})

	posts, err := models.PostsByFollowed(db, viewer.ID)
	if err != nil {
		t.Fatalf("PostsByFollowed: %v", err)
	}
	if len(posts) != 1 || posts[0].Text != "from followed" {
		t.Fatalf("expected only the followed author's post, got %+v", posts)
	}
}

func TestFollowEdgeUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	a := models.User{Username: "a"}
	b := models.User{Username: "b"}
	mustCreate(t, db, &a)
	mustCreate(t, db, &b)

	mustCreate(t, db, &models.Follow{UserID: a.ID, AuthorID: b.ID})
	err := db.Create(&models.Follow{UserID: a.ID, AuthorID: b.ID}).Error
	if err == nil {
		t.Fatal("expected duplicate edge to be rejected by the unique index")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}

	// Reverse direction is a distinct edge.
	mustCreate(t, db, &models.Follow{UserID: b.ID, AuthorID: a.ID})
}

func TestIsFollowing(t *testing.T) {
	db := newTestDB(t)
	a := models.User{Username: "a"}
	b := models.User{Username: "b"}
	mustCreate(t, db, &a)
	mustCreate(t, db, &b)
	mustCreate(t, db, &models.Follow{UserID: a.ID, AuthorID: b.ID})

	got, err := models.IsFollowing(db, a.ID, b.ID)
	if err != nil || !got {
		t.Errorf("IsFollowing(a,b) = %v, %v; want true", got, err)
	}
	got, err = models.IsFollowing(db, b.ID, a.ID)
	if err != nil || got {
		t.Errorf("IsFollowing(b,a) = %v, %v; want false", got, err)
	}
}

func TestGroupBySlugAndUserByUsername(t *testing.T) {
	db := newTestDB(t)
	mustCreate(t, db, &models.User{Username: "leo"})
	mustCreate(t, db, &models.Group{Title: "Cats", Slug: "cats"})

	if _, err := models.GroupBySlug(db, "cats"); err != nil {
		t.Errorf("GroupBySlug(cats): %v", err)
	}
	if _, err := models.GroupBySlug(db, "nope"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("GroupBySlug(nope) = %v, want ErrRecordNotFound", err)
	}
	if _, err := models.UserByUsername(db, "leo"); err != nil {
		t.Errorf("UserByUsername(leo): %v", err)
	}
	if _, err := models.UserByUsername(db, "nope"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("UserByUsername(nope) = %v, want ErrRecordNotFound", err)
	}
}
