package service_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/yatube/internal/auth"
	"github.com/emilythestrangee/yatube/internal/cache"
	"github.com/emilythestrangee/yatube/internal/database/dbtest"
	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/repository"
	"github.com/emilythestrangee/yatube/internal/service"
	"github.com/emilythestrangee/yatube/internal/storage"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

type env struct {
	ctx    context.Context
	repos  *repository.Repositories
	svc    *service.Services
	pages  cache.Cache
	images storage.ImageStore
}

func setup(t *testing.T) *env {
	t.Helper()
	repos := repository.New(dbtest.New(t))
	images, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	pages := cache.NewMemory()
	return &env{
		ctx:    context.Background(),
		repos:  repos,
		svc:    service.New(repos, images, pages, auth.NewTokens("test-secret", time.Hour)),
		pages:  pages,
		images: images,
	}
}

func (e *env) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, e.repos.Users.Create(e.ctx, u))
	return u
}

func (e *env) group(t *testing.T, title, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: title, Slug: slug}
	require.NoError(t, e.repos.Groups.Create(e.ctx, g))
	return g
}

func TestCreatePost(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	g := e.group(t, "Group Leo", "leo")

	before, err := e.repos.Posts.Count(e.ctx)
	require.NoError(t, err)

	post, err := e.svc.Posts.Create(e.ctx, leo, service.PostForm{
		Text:  "  Тестовый текст поста  ",
		Group: strconv.Itoa(g.ID),
		Image: bytes.NewReader(smallGIF),
	})
	require.NoError(t, err)

	after, err := e.repos.Posts.Count(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	saved, err := e.repos.Posts.GetByID(e.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый текст поста", saved.Text)
	assert.Equal(t, leo.ID, saved.AuthorID)
	require.NotNil(t, saved.GroupID)
	assert.Equal(t, g.ID, *saved.GroupID)
	assert.Regexp(t, `^posts/[0-9a-f-]{36}\.gif$`, saved.Image)
}

func TestCreatePostValidation(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")

	tests := []struct {
		name  string
		form  service.PostForm
		field string
	}{
		{"blank text", service.PostForm{Text: "   "}, "text"},
		{"unknown group", service.PostForm{Text: "ok", Group: "999"}, "group"},
		{"garbage group", service.PostForm{Text: "ok", Group: "abc"}, "group"},
		{"not an image", service.PostForm{Text: "ok", Image: bytes.NewReader([]byte("hello"))}, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Posts.Create(e.ctx, leo, tt.form)
			errs, ok := service.AsFormErrors(err)
			require.True(t, ok, "want form errors, got %v", err)
			assert.NotEmpty(t, errs[tt.field])
		})
	}

	cnt, err := e.repos.Posts.Count(e.ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestUpdatePostByAuthor(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	g := e.group(t, "Group Leo", "leo")
	post, err := e.svc.Posts.Create(e.ctx, leo, service.PostForm{Text: "before", Image: bytes.NewReader(smallGIF)})
	require.NoError(t, err)
	image := post.Image

	editable, err := e.svc.Posts.Editable(e.ctx, leo, "leomessi", post.ID)
	require.NoError(t, err)
	require.NoError(t, e.svc.Posts.Update(e.ctx, leo, editable, service.PostForm{Text: "after", Group: strconv.Itoa(g.ID)}))

	saved, err := e.repos.Posts.GetByID(e.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", saved.Text)
	assert.Equal(t, leo.ID, saved.AuthorID)
	require.NotNil(t, saved.GroupID)
	assert.Equal(t, g.ID, *saved.GroupID)
	assert.Equal(t, image, saved.Image)

	cnt, err := e.repos.Posts.Count(e.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestUpdatePostReplacesImageAndClearsGroup(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	g := e.group(t, "Group Leo", "leo")
	post, err := e.svc.Posts.Create(e.ctx, leo, service.PostForm{
		Text:  "before",
		Group: strconv.Itoa(g.ID),
		Image: bytes.NewReader(smallGIF),
	})
	require.NoError(t, err)
	old := post.Image
	require.FileExists(t, filepath.Join(e.images.Root(), old))

	editable, err := e.svc.Posts.Editable(e.ctx, leo, "leomessi", post.ID)
	require.NoError(t, err)
	require.NoError(t, e.svc.Posts.Update(e.ctx, leo, editable, service.PostForm{
		Text:  "after",
		Group: "",
		Image: bytes.NewReader(smallGIF),
	}))

	saved, err := e.repos.Posts.GetByID(e.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", saved.Text)
	assert.Nil(t, saved.GroupID)
	assert.Nil(t, saved.Group)
	require.NotEmpty(t, saved.Image)
	assert.NotEqual(t, old, saved.Image)
	assert.FileExists(t, filepath.Join(e.images.Root(), saved.Image))
	assert.NoFileExists(t, filepath.Join(e.images.Root(), old))
}

func TestUpdatePostByOtherUserIsRejected(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	cr7 := e.user(t, "CR7")
	post, err := e.svc.Posts.Create(e.ctx, leo, service.PostForm{Text: "original"})
	require.NoError(t, err)

	_, err = e.svc.Posts.Editable(e.ctx, cr7, "leomessi", post.ID)
	assert.ErrorIs(t, err, service.ErrNotAuthor)

	err = e.svc.Posts.Update(e.ctx, cr7, post, service.PostForm{Text: "hijacked"})
	assert.ErrorIs(t, err, service.ErrNotAuthor)

	saved, err := e.repos.Posts.GetByID(e.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", saved.Text)

	_, err = e.svc.Posts.Editable(e.ctx, leo, "CR7", post.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAddComment(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	cr7 := e.user(t, "CR7")
	post, err := e.svc.Posts.Create(e.ctx, leo, service.PostForm{Text: "post"})
	require.NoError(t, err)

	_, err = e.svc.Posts.AddComment(e.ctx, cr7, post, service.CommentForm{Text: "Рандомный комментарий"})
	require.NoError(t, err)

	_, err = e.svc.Posts.AddComment(e.ctx, cr7, post, service.CommentForm{Text: " "})
	errs, ok := service.AsFormErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs["text"], "This field is required.")

	detail, err := e.svc.Feed.PostDetail(e.ctx, "leomessi", post.ID, nil)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "CR7", detail.Comments[0].Author.Username)
	assert.Nil(t, detail.Following)
	assert.EqualValues(t, 1, detail.PostCount)
}

func TestFollowRules(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	cr7 := e.user(t, "CR7")

	assert.ErrorIs(t, e.svc.Relationships.Follow(e.ctx, leo, "leomessi"), service.ErrFollowSelf)
	assert.ErrorIs(t, e.svc.Relationships.Follow(e.ctx, leo, "nobody"), service.ErrNotFound)
	assert.ErrorIs(t, e.svc.Relationships.Unfollow(e.ctx, leo, "nobody"), service.ErrNotFound)

	require.NoError(t, e.svc.Relationships.Follow(e.ctx, cr7, "leomessi"))
	require.NoError(t, e.svc.Relationships.Follow(e.ctx, cr7, "leomessi"))

	followers, err := e.repos.Users.CountFollowers(e.ctx, leo.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, followers)

	profile, err := e.svc.Feed.Profile(e.ctx, "leomessi", cr7, 1)
	require.NoError(t, err)
	require.NotNil(t, profile.Following)
	assert.True(t, *profile.Following)
	assert.EqualValues(t, 1, profile.FollowerCount)

	require.NoError(t, e.svc.Relationships.Unfollow(e.ctx, cr7, "leomessi"))
	require.NoError(t, e.svc.Relationships.Unfollow(e.ctx, cr7, "leomessi"))

	following, err := e.svc.Relationships.IsFollowing(e.ctx, cr7, leo.ID)
	require.NoError(t, err)
	assert.False(t, following)

	selfFollows, err := e.repos.Users.CountFollowing(e.ctx, leo.ID)
	require.NoError(t, err)
	assert.Zero(t, selfFollows)

	own, err := e.svc.Feed.Profile(e.ctx, "leomessi", leo, 1)
	require.NoError(t, err)
	assert.Nil(t, own.Following)
}

func TestFollowFeed(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	cr7 := e.user(t, "CR7")
	lonely := e.user(t, "lonely")

	_, err := e.svc.Posts.Create(e.ctx, leo, service.PostForm{Text: "leo post"})
	require.NoError(t, err)
	_, err = e.svc.Posts.Create(e.ctx, cr7, service.PostForm{Text: "cr7 post"})
	require.NoError(t, err)
	require.NoError(t, e.svc.Relationships.Follow(e.ctx, cr7, "leomessi"))

	feed, err := e.svc.Feed.Follow(e.ctx, cr7, 1)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "leo post", feed.Items[0].Text)
	assert.EqualValues(t, 1, feed.Count)

	empty, err := e.svc.Feed.Follow(e.ctx, lonely, 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestGroupFeed(t *testing.T) {
	e := setup(t)
	leo := e.user(t, "leomessi")
	g := e.group(t, "Group Leo", "leo")
	e.group(t, "Other", "other")

	_, err := e.svc.Posts.Create(e.ctx, leo, service.PostForm{Text: "grouped", Group: strconv.Itoa(g.ID)})
	require.NoError(t, err)

	feed, err := e.svc.Feed.Group(e.ctx, "leo", 1)
	require.NoError(t, err)
	assert.Len(t, feed.Page.Items, 1)

	other, err := e.svc.Feed.Group(e.ctx, "other", 1)
	require.NoError(t, err)
	assert.Empty(t, other.Page.Items)

	_, err = e.svc.Feed.Group(e.ctx, "missing", 1)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSignupAndLogin(t *testing.T) {
	e := setup(t)

	user, err := e.svc.Accounts.Signup(e.ctx, service.SignupForm{
		FirstName:       "Leo",
		Username:        "leomessi",
		Email:           "leo@example.com",
		Password:        "barcelona10",
		PasswordConfirm: "barcelona10",
	})
	require.NoError(t, err)
	assert.Equal(t, "Leo", user.FirstName)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = e.svc.Accounts.Signup(e.ctx, service.SignupForm{
		Username: "leomessi", Password: "barcelona10", PasswordConfirm: "barcelona10",
	})
	errs, ok := service.AsFormErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, errs["username"])

	_, err = e.svc.Accounts.Signup(e.ctx, service.SignupForm{
		Username: "CR7", Password: "madrid777", PasswordConfirm: "madrid778",
	})
	errs, ok = service.AsFormErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, errs["password2"])

	_, _, err = e.svc.Accounts.Login(e.ctx, service.LoginForm{Username: "leomessi", Password: "wrong-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = e.svc.Accounts.Login(e.ctx, service.LoginForm{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	logged, token, err := e.svc.Accounts.Login(e.ctx, service.LoginForm{Username: "leomessi", Password: "barcelona10"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	who, err := e.svc.Accounts.Identify(e.ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "leomessi", who.Username)
}

func TestAdminOperations(t *testing.T) {
	e := setup(t)

	admin, err := e.svc.Accounts.CreateSuperuser(e.ctx, "boss", "boss@example.com", "supersecret")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	g, err := e.svc.Admin.CreateGroup(e.ctx, service.GroupForm{Title: "Group Leo", Slug: "leo"})
	require.NoError(t, err)
	assert.NotZero(t, g.ID)

	_, err = e.svc.Admin.CreateGroup(e.ctx, service.GroupForm{Title: "Again", Slug: "leo"})
	errs, ok := service.AsFormErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, errs["slug"])

	_, err = e.svc.Admin.CreateGroup(e.ctx, service.GroupForm{Title: "Bad", Slug: "not a slug"})
	errs, ok = service.AsFormErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, errs["slug"])

	post, err := e.svc.Posts.Create(e.ctx, admin, service.PostForm{Text: "to delete"})
	require.NoError(t, err)
	_, err = e.svc.Posts.AddComment(e.ctx, admin, post, service.CommentForm{Text: "bye"})
	require.NoError(t, err)
	require.NoError(t, e.svc.Admin.DeletePost(e.ctx, post.ID))
	assert.ErrorIs(t, e.svc.Admin.DeletePost(e.ctx, post.ID), service.ErrNotFound)

	require.NoError(t, e.pages.Set(e.ctx, "anon:/", []byte("x"), time.Minute))
	require.NoError(t, e.svc.Admin.ClearPageCache(e.ctx))
	_, hit, err := e.pages.Get(e.ctx, "anon:/")
	require.NoError(t, err)
	assert.False(t, hit)

	e.user(t, "leomessi")
	require.NoError(t, e.svc.Admin.PromoteAdmin(e.ctx, "leomessi"))
	leo, err := e.repos.Users.GetByUsername(e.ctx, "leomessi")
	require.NoError(t, err)
	assert.True(t, leo.IsAdmin())
}

func TestFormErrorsMessage(t *testing.T) {
	errs := service.FormErrors{}
	errs.Add("text", "This field is required.")
	errs.Add("", "Bad form.")
	assert.Equal(t, "invalid form: form: Bad form.; text: This field is required.", errs.Error())
}
