package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Salehmangrio/postbase/internal/docstore"
	"github.com/Salehmangrio/postbase/internal/pbid"
	"github.com/Salehmangrio/postbase/internal/service"
)

func cmdFile() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage files in the bucket",
	}

	cmd.AddCommand(cmdFileUpload())
	cmd.AddCommand(cmdFileDownload())
	cmd.AddCommand(cmdFileDelete())
	cmd.AddCommand(cmdFilePreview())

	return cmd
}

func blobIdArg(args []string) (pbid.ID, error) {
	id, err := pbid.Parse(args[0])
	if err != nil {
		return pbid.Nil, errors.Wrapf(err, "invalid file id '%s'", args[0])
	}
	return id, nil
}

func cmdFileUpload() *cobra.Command {
	var name, contentType string

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "failed to read '%s'", args[0])
			}
			if name == "" {
				name = filepath.Base(args[0])
			}

			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				handle := postsService(dm).UploadFile(ctx, docstore.Upload{
					Name:        name,
					ContentType: contentType,
					Data:        data,
				})
				if handle == nil {
					return errors.Errorf("failed to upload '%s'", args[0])
				}

				statusOk(cmd, "uploaded %s (%s) as %s", handle.Name, humanSize(handle.Size), handle.ID)
				o := OutputSingle[*docstore.BlobHandle](cmd)
				o.Emit(handle)
				o.Done()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "stored name; defaults to the file's base name")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type; sniffed when empty")

	return cmd
}

func cmdFileDownload() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a file to --out, or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := blobIdArg(args)
			if err != nil {
				return err
			}

			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				data := postsService(dm).DownloadFile(ctx, id)
				if data == nil {
					return errors.Errorf("failed to download '%s'", id)
				}

				if out == "" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}

				if err := os.WriteFile(out, data, 0o644); err != nil {
					return errors.Wrapf(err, "failed to write '%s'", out)
				}
				statusOk(cmd, "wrote %s to %s", humanSize(int64(len(data))), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "destination path")

	return cmd
}

func cmdFileDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := blobIdArg(args)
			if err != nil {
				return err
			}

			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				if !postsService(dm).DeleteFile(ctx, id) {
					return errors.Errorf("failed to delete '%s'", id)
				}

				statusOk(cmd, "deleted %s", id)
				return nil
			})
		},
	}
}

func cmdFilePreview() *cobra.Command {
	var opts docstore.PreviewOptions

	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Print where a preview of a file can be fetched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := blobIdArg(args)
			if err != nil {
				return err
			}

			return withDependencies(cmd, func(ctx context.Context, dm *service.DependencyManager) error {
				loc, err := postsService(dm).GetFilePreview(ctx, id, opts)
				if err != nil {
					return err
				}

				if loc.URL == "" {
					statusWarn(cmd, "backend has no preview endpoint; use the blob id")
				}
				o := OutputSingle[docstore.PreviewLocator](cmd)
				o.Emit(loc)
				o.Done()
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "preview width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "preview height in pixels")
	cmd.Flags().IntVar(&opts.Quality, "quality", 0, "preview quality, 0-100")

	return cmd
}
