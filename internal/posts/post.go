// Package posts stores blog posts as documents, keyed by slug, with featured images in the blob bucket.
package posts

import (
	"time"

	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/pbid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Document field names.
const (
	FieldTitle         = "title"
	FieldContent       = "content"
	FieldFeaturedImage = "featuredImage"
	FieldStatus        = "status"
	FieldUserID        = "userId"
)

type Post struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	FeaturedImage pbid.ID   `json:"featured_image,omitempty"`
	Status        string    `json:"status"`
	UserID        pbid.ID   `json:"user_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Update names the fields of a post to change. Nil fields are left alone. The author cannot be changed.
type Update struct {
	Title         *string
	Content       *string
	FeaturedImage *pbid.ID
	Status        *string
}

func (p *Post) fields() map[string]any {
	return map[string]any{
		FieldTitle:         p.Title,
		FieldContent:       p.Content,
		FieldFeaturedImage: p.FeaturedImage.String(),
		FieldStatus:        p.Status,
		FieldUserID:        p.UserID.String(),
	}
}

func (u *Update) fields() map[string]any {
	out := map[string]any{}
	if u.Title != nil {
		out[FieldTitle] = *u.Title
	}
	if u.Content != nil {
		out[FieldContent] = *u.Content
	}
	if u.FeaturedImage != nil {
		out[FieldFeaturedImage] = u.FeaturedImage.String()
	}
	if u.Status != nil {
		out[FieldStatus] = *u.Status
	}
	return out
}

func fromDocument(doc *docstore.Document) *Post {
	str := func(k string) string {
		s, _ := doc.Fields[k].(string)
		return s
	}

	return &Post{
		Slug:          doc.Key,
		Title:         str(FieldTitle),
		Content:       str(FieldContent),
		FeaturedImage: pbid.ID(str(FieldFeaturedImage)),
		Status:        str(FieldStatus),
		UserID:        pbid.ID(str(FieldUserID)),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
