// Package deploy reads the version information written next to the platform
// by the deployment pipeline.
//
// VERSION and REVISION are plain text files looked up in the platform root
// first and in its parent directory second. The deployment date is the
// modification time of the first of VERSION, ../VERSION, REVISION and
// ../REVISION that exists.
package deploy

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// UnknownAPI replaces missing values in API responses
	UnknownAPI = "<unknown>"

	// UnknownBanner replaces missing values in the page banner
	UnknownBanner = "(unknown)"

	// APIDateLayout is ISO 8601 with a numeric zone offset
	APIDateLayout = "2006-01-02T15:04:05-07:00"

	// BannerDateLayout is the human readable banner date
	BannerDateLayout = "2006-01-02 15:04:05"
)

type (
	// Reader looks up deployment files around a platform root.
	Reader struct {
		Root string
	}

	// Info is the version information presented to users.
	Info struct {
		Version  string `json:"version"`
		Revision string `json:"revision"`
		Date     string `json:"date"`
	}

	// RawInfo is the version information with missing values left null.
	RawInfo struct {
		Version  *string    `json:"version"`
		Revision *string    `json:"revision"`
		Date     *time.Time `json:"date"`
	}
)

// NewReader creates a reader for the given platform root.
func NewReader(root string) *Reader {
	return &Reader{Root: root}
}

// Version returns the trimmed content of VERSION, if any.
func (r *Reader) Version() (string, bool) {
	return r.content("VERSION")
}

// Revision returns the trimmed content of REVISION, if any.
func (r *Reader) Revision() (string, bool) {
	return r.content("REVISION")
}

// Date returns the deployment date in UTC, if any deployment file exists.
func (r *Reader) Date() (time.Time, bool) {
	for _, path := range append(r.candidates("VERSION"), r.candidates("REVISION")...) {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return fi.ModTime().UTC().Truncate(time.Second), true
		}
	}

	return time.Time{}, false
}

// Raw returns the version information with nil for missing values.
func (r *Reader) Raw() RawInfo {
	var info RawInfo
	if v, ok := r.Version(); ok {
		info.Version = &v
	}
	if v, ok := r.Revision(); ok {
		info.Revision = &v
	}
	if d, ok := r.Date(); ok {
		info.Date = &d
	}

	return info
}

// API returns the version information as served by the REST endpoint.
func (r *Reader) API() Info {
	return r.info(UnknownAPI, APIDateLayout)
}

// Banner returns the version information as shown in page footers.
func (r *Reader) Banner() Info {
	return r.info(UnknownBanner, BannerDateLayout)
}

func (r *Reader) info(unknown, layout string) Info {
	info := Info{Version: unknown, Revision: unknown, Date: unknown}

	if v, ok := r.Version(); ok {
		info.Version = v
	}
	if v, ok := r.Revision(); ok {
		info.Revision = v
	}
	if d, ok := r.Date(); ok {
		info.Date = d.Format(layout)
	}

	return info
}

func (r *Reader) content(name string) (string, bool) {
	for _, path := range r.candidates(name) {
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		return strings.TrimSpace(string(data)), true
	}

	return "", false
}

func (r *Reader) candidates(name string) []string {
	return []string{
		filepath.Join(r.Root, name),
		filepath.Join(r.Root, "..", name),
	}
}
