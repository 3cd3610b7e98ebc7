// Command manage runs administrative tasks against the configured database
// and page cache.
//
//	manage createsuperuser -username boss -email boss@example.com -password secret
//	manage creategroup -title "Group Leo" -slug leo -description "..."
//	manage promote -username leomessi
//	manage clearcache
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/config"
	"github.com/emilythestrangee/yatube/internal/database"
	"github.com/emilythestrangee/yatube/internal/logger"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/service"
	"github.com/emilythestrangee/yatube/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "manage:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: manage <createsuperuser|creategroup|promote|clearcache> [flags]")
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := logger.Init(cfg.AppEnv); err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	pages, closePages, err := cache.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer closePages()

	images, err := storage.NewLocal(cfg.MediaRoot)
	if err != nil {
		return err
	}

	svc := service.New(repository.New(db.GetDB()), images, pages, auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL))
	return dispatch(ctx, svc, pages, args, out)
}

func dispatch(ctx context.Context, svc *service.Services, pages cache.Cache, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)

	switch cmd {
	case "createsuperuser":
		username := fs.String("username", "", "login name")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		user, err := svc.Accounts.CreateSuperuser(ctx, *username, *email, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "superuser %q created (id %d)\n", user.Username, user.ID)

	case "creategroup":
		title := fs.String("title", "", "group title")
		slug := fs.String("slug", "", "url slug")
		description := fs.String("description", "", "description")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		group, err := svc.Admin.CreateGroup(ctx, service.GroupForm{Title: *title, Slug: *slug, Description: *description})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "group %q created at /group/%s/\n", group.Title, group.Slug)

	case "promote":
		username := fs.String("username", "", "user to make an admin")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := svc.Admin.PromoteAdmin(ctx, *username); err != nil {
			return fmt.Errorf("promote %q: %w", *username, err)
		}
		fmt.Fprintf(out, "%q is now an admin\n", *username)

	case "clearcache":
		if !cache.Shared(pages) {
			return errors.New("REDIS_ADDR is not set: the server keeps its page cache in its own process, nothing to clear from here")
		}
		if err := svc.Admin.ClearPageCache(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "page cache cleared")

	default:
		usage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
