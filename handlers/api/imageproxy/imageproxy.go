// Package imageproxy fetches a remote image server-side and hands it back as
// a data URI, working around cross-origin restrictions when the client needs
// pixel access (AI analysis). Normal display renders the remote URL directly.
package imageproxy

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"moodboard/core"
	"moodboard/handlers/api/apierror"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// Remote images above this size are rejected.
const maxImageSize = 16 << 20

type response struct {
	DataURI string `json:"dataUri"`
}

// HandleFetch fetches the image at the url query parameter and responds with
// {"dataUri": "data:<mime>;base64,..."}.
func HandleFetch() http.HandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("url")
		parsed, err := url.Parse(raw)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "url must be an absolute http(s) url"})
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, parsed.String(), nil)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid url"})
			return
		}

		resp, err := client.Do(req)
		if err != nil {
			logrus.WithError(err).WithField("url", raw).Warn("Image fetch failed")
			apierror.Render(w, r, fmt.Errorf("%w: fetch image: %v", core.ErrExternalService, err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			apierror.Render(w, r, fmt.Errorf("%w: image host returned status %d", core.ErrExternalService, resp.StatusCode))
			return
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
		if err != nil {
			apierror.Render(w, r, fmt.Errorf("%w: read image body: %v", core.ErrExternalService, err))
			return
		}
		if len(data) > maxImageSize {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, map[string]string{"error": "image too large"})
			return
		}

		contentType := resp.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			contentType = http.DetectContentType(data)
			if !strings.HasPrefix(contentType, "image/") {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, map[string]string{"error": "url does not point to an image"})
				return
			}
		}

		render.JSON(w, r, response{
			DataURI: fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)),
		})
	}
}
