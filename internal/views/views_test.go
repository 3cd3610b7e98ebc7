package views

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/yatube/internal/models"
	"github.com/emilythestrangee/yatube/internal/repository"
)

func TestLoadDefinesEveryPage(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "group.html", "profile.html", "post.html", "new.html", "edit.html",
		"follow.html", "misc/404.html", "misc/500.html", "about/author.html", "about/tech.html",
		"auth/login.html", "auth/signup.html", "auth/logged_out.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestRenderIndex(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	group := &models.Group{ID: 1, Title: "Group Leo", Slug: "leo"}
	page := &repository.Page[models.Post]{
		Items: []models.Post{{
			ID:      3,
			Text:    "Тестовый текст поста",
			PubDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Author:  models.User{Username: "leomessi", FirstName: "Leo"},
			Group:   group,
			Image:   "posts/a.gif",
		}},
		Number:   1,
		NumPages: 2,
		Count:    11,
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "index.html", map[string]any{
		"user": (*models.User)(nil),
		"page": page,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Тестовый текст поста")
	assert.Contains(t, out, `href="/group/leo/"`)
	assert.Contains(t, out, `src="/media/posts/a.gif"`)
	assert.Contains(t, out, `href="?page=2"`)
	assert.Contains(t, out, "/auth/login/")
}

func TestFuncs(t *testing.T) {
	assert.Equal(t, "", mediaURL(""))
	assert.Equal(t, "/media/posts/x.png", mediaURL("posts/x.png"))
	assert.Equal(t, "?page=3", pageQuery(3))
	assert.Equal(t, "1 May 2024", formatDate(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))

	yes := true
	assert.True(t, derefBool(&yes))
	assert.False(t, derefBool(nil))
}
