package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// UploadVideo publishes a new video as multipart/form-data. The file is
// streamed, never buffered whole. Uploads are not retried.
func (c *Client) UploadVideo(ctx context.Context, token string, up domain.UploadRequest) (*domain.Video, error) {
	if token == "" {
		return nil, domain.ErrAuthFailed
	}
	if err := validateUpload(up); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, up))
	}()

	body, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/videos",
		body:        pr,
		contentType: mw.FormDataContentType(),
		token:       token,
	})
	// Unblock the writer if the request ended before the body was drained
	pr.Close()
	if err != nil {
		return nil, err
	}

	var resp VideoResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}

	video := MapVideo(resp.Data)
	return &video, nil
}

func validateUpload(up domain.UploadRequest) error {
	var missing []string
	if strings.TrimSpace(up.Title) == "" {
		missing = append(missing, "title")
	}
	if up.CategoryID == 0 {
		missing = append(missing, "category")
	}
	if up.Video == nil {
		missing = append(missing, "video file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("upload is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func writeUploadForm(mw *multipart.Writer, up domain.UploadRequest) error {
	fields := [][2]string{
		{"title", up.Title},
		{"description", up.Description},
		{"category_id", strconv.FormatInt(up.CategoryID, 10)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	if err := writeFilePart(mw, "video", up.FileName, up.Video); err != nil {
		return err
	}
	if up.Thumbnail != nil {
		if err := writeFilePart(mw, "thumbnail", up.ThumbnailName, up.Thumbnail); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeFilePart(mw *multipart.Writer, field, name string, r io.Reader) error {
	if name == "" {
		name = field
	}
	part, err := mw.CreateFormFile(field, filepath.Base(name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		if errors.Is(err, io.ErrClosedPipe) {
			return err
		}
		return fmt.Errorf("failed to read %s: %w", field, err)
	}
	return nil
}
