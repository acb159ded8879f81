package drive

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// XLSXMimeType is the export format used for spreadsheet backups.
const XLSXMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Service struct {
	srv *drive.Service
}

func NewService(ctx context.Context, credentialsJSON []byte) (*Service, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

// NewWithService wraps an already configured client.
func NewWithService(srv *drive.Service) *Service {
	return &Service{srv: srv}
}

type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
}

// Describe returns the metadata of fileID.
func (s *Service) Describe(ctx context.Context, fileID string) (*File, error) {
	f, err := s.srv.Files.Get(fileID).
		Fields("id, name, mimeType, modifiedTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve file %s: %w", fileID, err)
	}
	return &File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, ModifiedTime: f.ModifiedTime}, nil
}

// ExportXLSX streams the whole spreadsheet fileID as an .xlsx workbook.
func (s *Service) ExportXLSX(ctx context.Context, fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Export(fileID, XLSXMimeType).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("unable to export file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("unable to read export of %s: %w", fileID, err)
	}
	return nil
}
