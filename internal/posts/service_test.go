package posts

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Salehmangrio/postbase/internal/backend"
	"github.com/Salehmangrio/postbase/internal/backend/blobfiles"
	"github.com/Salehmangrio/postbase/internal/backend/local"
	"github.com/Salehmangrio/postbase/internal/database"
	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/pbblob"
	"github.com/Salehmangrio/postbase/internal/pbctx"
	"github.com/Salehmangrio/postbase/internal/pberr"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	conn := backend.MustNewConnection("https://api.example.com/v1", "blog")
	s, err := docstore.NewService(
		conn,
		docstore.Options{DatabaseID: "main", CollectionID: "posts", BucketID: "images", RequiredFields: []string{FieldTitle}},
		local.NewDocuments(database.NewMemory(nil), nil),
		blobfiles.New(pbblob.NewMemoryClient(), blobfiles.Options{Connection: conn}, nil),
		nil,
	)
	require.NoError(t, err)

	return NewService(docstore.NewSoft(s, nil))
}

func ptr[T any](v T) *T { return &v }

func TestPosts(t *testing.T) {
	s := newTestService(t)
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(i int) context.Context {
		return pbctx.NewBuilderBackground().WithFixedClock(base.Add(time.Duration(i) * time.Hour)).Build()
	}

	first, err := s.CreatePost(at(0), Post{Slug: "hello-world", Title: "Hello", Content: "First!", Status: StatusActive, UserID: "acc_1"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, first.Status)

	_, err = s.CreatePost(at(1), Post{Slug: "draft", Title: "Draft", Status: StatusInactive})
	require.NoError(t, err)

	_, err = s.CreatePost(at(2), Post{Slug: "hello-world", Title: "Dup"})
	assert.ErrorIs(t, err, pberr.ErrConflict)

	_, err = s.CreatePost(at(2), Post{Slug: "untitled"})
	assert.ErrorIs(t, err, pberr.ErrValidation)

	expected := Post{
		Slug:      "hello-world",
		Title:     "Hello",
		Content:   "First!",
		Status:    StatusActive,
		UserID:    "acc_1",
		CreatedAt: base,
		UpdatedAt: base,
	}
	if diff := cmp.Diff(&expected, s.GetPost(context.Background(), "hello-world"), cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("GetPost mismatch (-want +got):\n%s", diff)
	}

	active := s.GetPosts(context.Background(), "")
	require.Len(t, active, 1)
	assert.Equal(t, "hello-world", active[0].Slug)
	assert.Len(t, s.GetPosts(context.Background(), "true"), 2)

	updated, err := s.UpdatePost(at(3), "draft", Update{Status: ptr(StatusActive), Content: ptr("Now live")})
	require.NoError(t, err)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "Now live", updated.Content)

	titles := []string{}
	for _, p := range s.GetPosts(context.Background(), "") {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Hello", "Draft"}, titles)

	_, err = s.UpdatePost(at(3), "ghost", Update{Title: ptr("x")})
	assert.ErrorIs(t, err, pberr.ErrNotFound)

	assert.True(t, s.DeletePost(context.Background(), "draft"))
	assert.False(t, s.DeletePost(context.Background(), "draft"))
	assert.Nil(t, s.GetPost(context.Background(), "draft"))
}

func TestCreatePostKeepsStatus(t *testing.T) {
	s := newTestService(t)

	p, err := s.CreatePost(context.Background(), Post{Slug: "no-status", Title: "Untagged"})
	require.NoError(t, err)
	assert.Empty(t, p.Status)

	got := s.GetPost(context.Background(), "no-status")
	require.NotNil(t, got)
	assert.Empty(t, got.Status)

	assert.Empty(t, s.GetPosts(context.Background(), ""))
	assert.Len(t, s.GetPosts(context.Background(), `status == ""`), 1)
}

func TestFeaturedImage(t *testing.T) {
	s := newTestService(t)
	id := pbid.MustParse("fil_0000000000000042")
	ctx := pbctx.NewBuilderBackground().WithFixedIdGenerator(id).Build()

	handle := s.UploadFile(ctx, docstore.Upload{Name: "cover.png", ContentType: "image/png", Data: []byte("png")})
	require.NotNil(t, handle)
	assert.Equal(t, id, handle.ID)

	p, err := s.CreatePost(ctx, Post{Slug: "with-image", Title: "Pic", FeaturedImage: handle.ID})
	require.NoError(t, err)
	assert.Equal(t, handle.ID, p.FeaturedImage)

	loc, err := s.GetFilePreview(ctx, p.FeaturedImage, docstore.PreviewOptions{Width: 640})
	require.NoError(t, err)
	assert.Equal(t, handle.ID, loc.BlobID)
	assert.Contains(t, loc.URL, "/files/fil_0000000000000042/preview")

	assert.Equal(t, []byte("png"), s.DownloadFile(ctx, handle.ID))
	assert.True(t, s.DeleteFile(ctx, handle.ID))
	assert.False(t, s.DeleteFile(ctx, handle.ID))
	assert.Nil(t, s.DownloadFile(ctx, handle.ID))
}
