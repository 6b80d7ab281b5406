package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Salehmangrio/postbase/internal/auth"
	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/posts"
	"github.com/Salehmangrio/postbase/internal/service"
)

func postsService(dm *service.DependencyManager) *posts.Service {
	return posts.NewService(docstore.NewSoft(dm.GetDocStore(), dm.GetLogger()))
}

func parseOptionalId(s string) (pbid.ID, error) {
	if s == "" {
		return pbid.Nil, nil
	}
	return pbid.Parse(s)
}

func cmdPost() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage blog posts",
	}

	cmd.AddCommand(cmdPostCreate())
	cmd.AddCommand(cmdPostUpdate())
	cmd.AddCommand(cmdPostGet())
	cmd.AddCommand(cmdPostList())
	cmd.AddCommand(cmdPostDelete())

	return cmd
}

func cmdPostCreate() *cobra.Command {
	var p posts.Post
	var featuredImage, userId string

	cmd := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Slug = args[0]

			var err error
			if p.FeaturedImage, err = parseOptionalId(featuredImage); err != nil {
				return errors.Wrap(err, "invalid --featured-image")
			}
			if p.UserID, err = parseOptionalId(userId); err != nil {
				return errors.Wrap(err, "invalid --user-id")
			}

			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				if p.UserID.IsNil() {
					// Author defaults to the logged in account, if any.
					if ident, err := auth.NewSoft(dm.GetAuth(), dm.GetLogger()).GetCurrentUser(ctx); err == nil {
						p.UserID = ident.ID
					}
				}

				created, err := postsService(dm).CreatePost(ctx, p)
				if err != nil {
					return err
				}

				statusOk(cmd, "created post %s", created.Slug)
				o := OutputSingle[*posts.Post](cmd)
				o.Emit(created)
				o.Done()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&p.Title, "title", "", "post title")
	cmd.Flags().StringVar(&p.Content, "content", "", "post body")
	cmd.Flags().StringVar(&p.Status, "status", posts.StatusActive, "post status")
	cmd.Flags().StringVar(&featuredImage, "featured-image", "", "blob id of the featured image")
	cmd.Flags().StringVar(&userId, "user-id", "", "author account id; defaults to the current account")

	return cmd
}

func cmdPostUpdate() *cobra.Command {
	var title, content, status, featuredImage string

	cmd := &cobra.Command{
		Use:   "update <slug>",
		Short: "Change the given fields of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u posts.Update
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("content") {
				u.Content = &content
			}
			if flags.Changed("status") {
				u.Status = &status
			}
			if flags.Changed("featured-image") {
				id, err := parseOptionalId(featuredImage)
				if err != nil {
					return errors.Wrap(err, "invalid --featured-image")
				}
				u.FeaturedImage = &id
			}

			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				updated, err := postsService(dm).UpdatePost(ctx, args[0], u)
				if err != nil {
					return err
				}

				statusOk(cmd, "updated post %s", updated.Slug)
				o := OutputSingle[*posts.Post](cmd)
				o.Emit(updated)
				o.Done()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&content, "content", "", "post body")
	cmd.Flags().StringVar(&status, "status", "", "post status")
	cmd.Flags().StringVar(&featuredImage, "featured-image", "", "blob id of the featured image")

	return cmd
}

func cmdPostGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <slug>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				p := postsService(dm).GetPost(ctx, args[0])
				if p == nil {
					return errors.Errorf("post '%s' not found", args[0])
				}

				o := OutputSingle[*posts.Post](cmd)
				o.Emit(p)
				o.Done()
				return nil
			})
		},
	}
}

func cmdPostList() *cobra.Command {
	var filterExpr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts; active posts unless --filter is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				o := OutputMultiple[posts.Post](cmd)
				o.EmitAll(postsService(dm).GetPosts(ctx, filterExpr))
				o.Done()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filterExpr, "filter", "", `filter expression, e.g. 'status == "inactive"'`)

	return cmd
}

func cmdPostDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				if !postsService(dm).DeletePost(ctx, args[0]) {
					return errors.Errorf("failed to delete post '%s'", args[0])
				}

				statusOk(cmd, "deleted post %s", args[0])
				return nil
			})
		},
	}
}
