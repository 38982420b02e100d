// yatubectl is the administrative companion of the web application: it
// manages users and groups (which have no user-facing management surface)
// and clears the index page cache.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/DianaKab/hw05-final-new/config"
	"github.com/DianaKab/hw05-final-new/controllers"
	"github.com/DianaKab/hw05-final-new/models"
	"github.com/DianaKab/hw05-final-new/utils"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "user":
		err = runUser(os.Args[2:])
	case "group":
		err = runGroup(os.Args[2:])
	case "cache":
		err = runCache(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  yatubectl user create -username NAME -password PASSWORD
  yatubectl group create -title TITLE -slug SLUG [-description TEXT]
  yatubectl group delete -slug SLUG
  yatubectl cache clear`)
}

func openDB() *gorm.DB {
	return config.InitDatabase(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.PageView{},
	)
}

func runUser(args []string) error {
	if len(args) < 1 || args[0] != "create" {
		usage()
		return fmt.Errorf("unknown user subcommand")
	}
	fs := flag.NewFlagSet("user create", flag.ExitOnError)
	username := fs.String("username", "", "unique username")
	password := fs.String("password", "", "initial password")
	_ = fs.Parse(args[1:])

	if *username == "" || *password == "" {
		return fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{Username: *username, PasswordHash: string(hash)}
	if err := openDB().Create(&user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Printf("created user %q (id=%d)\n", user.Username, user.ID)
	return nil
}

func runGroup(args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("missing group subcommand")
	}
	switch args[0] {
	case "create":
		fs := flag.NewFlagSet("group create", flag.ExitOnError)
		title := fs.String("title", "", "group title")
		slug := fs.String("slug", "", "unique URL slug")
		description := fs.String("description", "", "group description")
		_ = fs.Parse(args[1:])

		if *title == "" || *slug == "" {
			return fmt.Errorf("title and slug are required")
		}
		group := models.Group{Title: *title, Slug: *slug, Description: *description}
		if err := openDB().Create(&group).Error; err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		fmt.Printf("created group %q (slug=%s)\n", group.Title, group.Slug)
		return nil

	case "delete":
		fs := flag.NewFlagSet("group delete", flag.ExitOnError)
		slug := fs.String("slug", "", "slug of the group to delete")
		_ = fs.Parse(args[1:])

		if *slug == "" {
			return fmt.Errorf("slug is required")
		}
		db := openDB()
		group, err := models.GroupBySlug(db, *slug)
		if err != nil {
			return fmt.Errorf("resolve group: %w", err)
		}
		// Restrict-delete: a group still referenced by posts stays.
		var refs int64
		if err := db.Model(&models.Post{}).Where("group_id = ?", group.ID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return fmt.Errorf("group %q is referenced by %d post(s); refusing to delete", group.Slug, refs)
		}
		if err := db.Delete(group).Error; err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		fmt.Printf("deleted group %q\n", group.Slug)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown group subcommand %q", args[0])
	}
}

func runCache(args []string) error {
	if len(args) < 1 || args[0] != "clear" {
		usage()
		return fmt.Errorf("unknown cache subcommand")
	}
	utils.InvalidateByPrefix(controllers.IndexCachePrefix)
	fmt.Println("index page cache cleared")
	return nil
}
