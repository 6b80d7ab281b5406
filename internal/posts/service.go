package posts

import (
	"context"

	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/pberr"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

// Service is the post-level view of a document store. Like docstore.Soft, only create, update and preview report
// errors.
type Service struct {
	store *docstore.Soft
}

func NewService(store *docstore.Soft) *Service {
	return &Service{store: store}
}

// CreatePost stores p under its slug with the status as given; a post without one is left out of the default listing.
func (s *Service) CreatePost(ctx context.Context, p Post) (*Post, error) {
	if p.Title == "" {
		return nil, pberr.Validationf("posts.CreatePost", "title is required")
	}

	doc, err := s.store.CreateDocument(ctx, p.Slug, p.fields())
	if err != nil {
		return nil, err
	}
	return fromDocument(doc), nil
}

func (s *Service) UpdatePost(ctx context.Context, slug string, u Update) (*Post, error) {
	doc, err := s.store.UpdateDocument(ctx, slug, u.fields())
	if err != nil {
		return nil, err
	}
	return fromDocument(doc), nil
}

func (s *Service) DeletePost(ctx context.Context, slug string) bool {
	return s.store.DeleteDocument(ctx, slug)
}

// GetPosts lists the posts matching filterExpr; the empty expression lists the active ones.
func (s *Service) GetPosts(ctx context.Context, filterExpr string) []Post {
	docs := s.store.ListDocuments(ctx, filterExpr)
	out := make([]Post, 0, len(docs))
	for i := range docs {
		out = append(out, *fromDocument(&docs[i]))
	}
	return out
}

// GetPost returns nil when the post does not exist or cannot be read.
func (s *Service) GetPost(ctx context.Context, slug string) *Post {
	doc := s.store.GetDocument(ctx, slug)
	if doc == nil {
		return nil
	}
	return fromDocument(doc)
}

func (s *Service) UploadFile(ctx context.Context, in docstore.Upload) *docstore.BlobHandle {
	return s.store.UploadBlob(ctx, in)
}

func (s *Service) DownloadFile(ctx context.Context, id pbid.ID) []byte {
	return s.store.DownloadBlob(ctx, id)
}

func (s *Service) DeleteFile(ctx context.Context, id pbid.ID) bool {
	return s.store.DeleteBlob(ctx, id)
}

func (s *Service) GetFilePreview(ctx context.Context, id pbid.ID, opts docstore.PreviewOptions) (docstore.PreviewLocator, error) {
	return s.store.PreviewReference(ctx, id, opts)
}
