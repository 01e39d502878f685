package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>report</html>"))
	}))
	defer server.Close()

	res, err := resty.New().R().
		SetFormData(map[string]string{"fd_user": "someone"}).
		Post(server.URL + "/login_action.php")
	require.NoError(t, err)

	message := FormatMessage(res)
	require.True(t, strings.HasPrefix(message, "---- REQUEST ----\n\nPOST "+server.URL+"/login_action.php"))
	require.Contains(t, message, "fd_user=someone")
	require.Contains(t, message, "---- RESPONSE ----\n\n200 ")
	require.Contains(t, message, "X-Test: yes")
	require.True(t, strings.HasSuffix(message, "<html>report</html>"))
}

func TestFormatMessageWithoutRequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>report</html>"))
	}))
	defer server.Close()

	res, err := resty.New().R().Get(server.URL + "/individual_calculations.phtml?t=0")
	require.NoError(t, err)

	var message string
	require.NotPanics(t, func() {
		message = FormatMessage(res)
	})
	require.True(t, strings.HasPrefix(message, "---- REQUEST ----\n\nGET "+server.URL+"/individual_calculations.phtml?t=0"))
	require.True(t, strings.HasSuffix(message, "<html>report</html>"))
}

func TestFormatHeaders(t *testing.T) {
	require.Equal(t, "", formatHeaders(http.Header{}))
	require.Equal(t, "A: 1\nB: 2\nB: 3", formatHeaders(http.Header{"B": {"2", "3"}, "A": {"1"}}))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "messages")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("1", "contents")

	written, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(written))
}
