package web

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/deploy"
)

// BannerHTML renders the version banner paragraph.
func BannerHTML(info deploy.Info) string {
	return fmt.Sprintf(
		`<p class="cleverage-tools-version">Version: <strong>%s</strong> | Revision: <strong>%s</strong> | Date: <strong>%s</strong></p>`,
		html.EscapeString(info.Version),
		html.EscapeString(info.Revision),
		html.EscapeString(info.Date),
	)
}

// InjectBanner inserts banner before the last </footer>, else before the
// last </body>, else at the end of page.
func InjectBanner(page []byte, banner string) []byte {
	for _, marker := range []string{"</footer>", "</body>"} {
		if idx := bytes.LastIndex(page, []byte(marker)); idx >= 0 {
			out := make([]byte, 0, len(page)+len(banner))
			out = append(out, page[:idx]...)
			out = append(out, banner...)
			return append(out, page[idx:]...)
		}
	}

	return append(page, banner...)
}

// FooterBanner decorates HTML responses with the version banner. Backend
// pages (under adminPath) use raw values and honour EnableAdminhtml; other
// pages use the (unknown) placeholders and honour EnableFrontend.
func FooterBanner(r *deploy.Reader, banner config.Banner, adminPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			admin := isAdminPath(req.URL.Path, adminPath)
			if (admin && !banner.EnableAdminhtml) || (!admin && !banner.EnableFrontend) {
				next.ServeHTTP(w, req)
				return
			}

			// the body must come back uncompressed to be rewritten
			req.Header.Del("Accept-Encoding")

			rec := &bufferedResponse{header: make(http.Header), status: http.StatusOK}
			next.ServeHTTP(rec, req)

			body := rec.body.Bytes()
			if isHTML(rec.header) && rec.header.Get("Content-Encoding") == "" {
				info := r.Banner()
				if admin {
					info = adminInfo(r)
				}

				body = InjectBanner(body, BannerHTML(info))
				rec.header.Set("Content-Length", strconv.Itoa(len(body)))
			}

			for k, v := range rec.header {
				w.Header()[k] = v
			}
			w.WriteHeader(rec.status)
			_, _ = w.Write(body)
		})
	}
}

// adminInfo mirrors the backend footer which prints empty values as is.
func adminInfo(r *deploy.Reader) deploy.Info {
	var info deploy.Info
	info.Version, _ = r.Version()
	info.Revision, _ = r.Revision()
	if d, ok := r.Date(); ok {
		info.Date = d.Format(deploy.BannerDateLayout)
	}

	return info
}

func isAdminPath(path, adminPath string) bool {
	adminPath = strings.TrimSuffix(adminPath, "/")
	return adminPath != "" && (path == adminPath || strings.HasPrefix(path, adminPath+"/"))
}

func isHTML(h http.Header) bool {
	mediaType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
	wrote  bool
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if !b.wrote {
		b.status = status
		b.wrote = true
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.wrote = true
	return b.body.Write(p)
}
