package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mmcdole/reel/internal/config"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/spf13/cobra"
)

const (
	commandTimeout = 30 * time.Second
	uploadTimeout  = 10 * time.Minute
)

// withApp opens the app, runs fn with a deadline and closes the app
func withApp(configPath *string, timeout time.Duration, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(*configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, a)
}

func loginCmd(configPath *string) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				reader := bufio.NewReader(cmd.InOrStdin())

				if email == "" {
					var err error
					if email, err = promptLine(reader, out, "Email: "); err != nil {
						return fmt.Errorf("failed to read email: %w", err)
					}
				}
				password, err := promptPassword(reader, out)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				if err := a.session.Login(ctx, email, password); err != nil {
					if errors.Is(err, domain.ErrAuthFailed) {
						return errors.New("invalid email or password")
					}
					return err
				}

				u := a.session.User()
				fmt.Fprintf(out, "✓ Logged in as %s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func logoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				a.session.Logout(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
				return nil
			})
		},
	}
}

func whoamiCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				if !a.session.IsAuthenticated() {
					fmt.Fprintln(out, "Not logged in")
					return nil
				}

				a.session.CheckAuth(ctx)
				u := a.session.User()
				if u == nil {
					return fmt.Errorf("%w: session expired, run 'reel login'", domain.ErrAuthFailed)
				}
				fmt.Fprintf(out, "%s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
}

func categoriesCmd(configPath *string) *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List video categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				a.categories.FetchCategories(ctx, reload)
				if msg := a.categories.ErrorMessage(); msg != "" {
					return errors.New(msg)
				}
				printCategories(cmd.OutOrStdout(), a.categories.Categories())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reload, "reload", false, "bypass the category cache")
	return cmd
}

func videosCmd(configPath *string) *cobra.Command {
	var (
		page     int
		category string
		term     string
	)

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				update := domain.FilterUpdate{}
				if category != "" {
					cat, err := resolveCategory(ctx, a, category)
					if err != nil {
						return err
					}
					update = update.And(domain.WithCategory(cat.ID))
				}
				if term != "" {
					update = update.And(domain.WithSearch(term))
				}

				if err := a.videos.SetFilter(ctx, update); err != nil {
					return err
				}

				if page != 1 {
					p := a.videos.Pagination()
					if !p.InRange(page) {
						return fmt.Errorf("page %d out of range (1-%d)", page, p.LastPage)
					}
					if err := a.videos.SetPage(ctx, page); err != nil {
						return err
					}
				}

				printVideoPage(cmd.OutOrStdout(), a.videos.Videos(), a.videos.Pagination())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().StringVar(&category, "category", "", "category name, slug or id")
	cmd.Flags().StringVarP(&term, "search", "s", "", "search term")
	return cmd
}

func featuredCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "featured",
		Short: "List featured videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				if err := a.videos.FetchFeaturedVideos(ctx); err != nil {
					return err
				}
				printVideos(cmd.OutOrStdout(), a.videos.Featured())
				return nil
			})
		},
	}
}

func videoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "video <id>",
		Short: "Show a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				v, err := fetchVideo(ctx, a, id)
				if err != nil {
					return err
				}
				printVideo(cmd.OutOrStdout(), v, a.client.ResolveMediaURL(v.FilePath))
				return nil
			})
		},
	}
}

func playCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Play a video in an external player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(configPath, commandTimeout, func(ctx context.Context, a *app) error {
				v, err := fetchVideo(ctx, a, id)
				if err != nil {
					return err
				}
				if err := a.launcher.Launch(a.client.ResolveMediaURL(v.FilePath)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "▶ Playing %s\n", v.Title)
				return nil
			})
		},
	}
}

func uploadCmd(configPath *string) *cobra.Command {
	var (
		title       string
		description string
		category    string
		thumbnail   string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, uploadTimeout, func(ctx context.Context, a *app) error {
				if nav := a.guard.Resolve("/upload"); nav.Redirected {
					return fmt.Errorf("%w: run 'reel login' first", domain.ErrAuthFailed)
				}

				cat, err := resolveCategory(ctx, a, category)
				if err != nil {
					return err
				}

				videoPath, err := config.ExpandPath(args[0])
				if err != nil {
					return err
				}
				f, err := os.Open(videoPath)
				if err != nil {
					return fmt.Errorf("failed to open video: %w", err)
				}
				defer f.Close()

				req := domain.UploadRequest{
					Title:       title,
					Description: description,
					CategoryID:  cat.ID,
					FileName:    filepath.Base(videoPath),
					Video:       f,
				}

				if thumbnail != "" {
					thumbPath, err := config.ExpandPath(thumbnail)
					if err != nil {
						return err
					}
					thumb, err := os.Open(thumbPath)
					if err != nil {
						return fmt.Errorf("failed to open thumbnail: %w", err)
					}
					defer thumb.Close()
					req.ThumbnailName = filepath.Base(thumbPath)
					req.Thumbnail = thumb
				}

				v, err := a.videos.Upload(ctx, a.session.Token(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Uploaded %q (id %d)\n", v.Title, v.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "video title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "video description")
	cmd.Flags().StringVar(&category, "category", "", "category name, slug or id")
	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "thumbnail image")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid video id %q", s)
	}
	return id, nil
}

func fetchVideo(ctx context.Context, a *app, id int64) (*domain.Video, error) {
	v := a.videos.FetchVideo(ctx, id)
	if v == nil {
		return nil, fmt.Errorf("%w: video %d", domain.ErrItemNotFound, id)
	}
	return v, nil
}

func resolveCategory(ctx context.Context, a *app, name string) (domain.Category, error) {
	a.categories.FetchCategories(ctx, false)
	if msg := a.categories.ErrorMessage(); msg != "" {
		return domain.Category{}, errors.New(msg)
	}
	cat, ok := a.categories.Resolve(name)
	if !ok {
		return domain.Category{}, fmt.Errorf("unknown category %q", name)
	}
	return cat, nil
}
