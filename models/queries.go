package models

import "gorm.io/gorm"

// Feed queries return fully materialized, ordered post slices. The handlers
// only ever filter + order + paginate, so the lists are loaded eagerly with
// author and group attached instead of chaining lazy scopes.

// AllPosts returns every post, newest first.
func AllPosts(db *gorm.DB) ([]Post, error) {
	var posts []Post
	err := db.Preload("User").Preload("Group").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// PostsByGroup returns the posts filed under the given group, newest first.
func PostsByGroup(db *gorm.DB, groupID uint) ([]Post, error) {
	var posts []Post
	err := db.Preload("User").Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// PostsByAuthor returns the posts written by the given user, newest first.
func PostsByAuthor(db *gorm.DB, userID uint) ([]Post, error) {
	var posts []Post
	err := db.Preload("User").Preload("Group").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// PostsByFollowed returns posts whose authors the viewer follows, newest first.
func PostsByFollowed(db *gorm.DB, viewerID uint) ([]Post, error) {
	var posts []Post
	err := db.Preload("User").Preload("Group").
		Joins("JOIN follows ON follows.author_id = posts.user_id").
		Where("follows.user_id = ?", viewerID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	return posts, err
}

// CommentsByPost returns a post's comments with authors, oldest first.
func CommentsByPost(db *gorm.DB, postID uint) ([]Comment, error) {
	var comments []Comment
	err := db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// UserByUsername resolves a user by exact username.
func UserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GroupBySlug resolves a group by its URL slug.
func GroupBySlug(db *gorm.DB, slug string) (*Group, error) {
	var group Group
	if err := db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// IsFollowing reports whether viewerID has a follow edge to authorID.
func IsFollowing(db *gorm.DB, viewerID, authorID uint) (bool, error) {
	var count int64
	err := db.Model(&Follow{}).
		Where("user_id = ? AND author_id = ?", viewerID, authorID).
		Count(&count).Error
	return count > 0, err
}
