package drive

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func TestExportXLSX(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/files/sheet-id/export"))
		assert.Equal(t, XLSXMimeType, r.URL.Query().Get("mimeType"))
		_, _ = w.Write([]byte("PK-workbook"))
	}))
	defer ts.Close()

	srv, err := drive.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewWithService(srv).ExportXLSX(context.Background(), "sheet-id", &buf))
	assert.Equal(t, "PK-workbook", buf.String())
}
