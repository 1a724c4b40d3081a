// Package web serves the deployment version over HTTP and decorates proxied
// platform pages with a version banner.
//
// Routes:
//
//	GET /cleverage_tools/version          raw version, revision and date (null when missing)
//	GET /rest/V1/cleverage/tools/version  API form, missing values read <unknown>
//
// Every other request is forwarded to the configured upstream. HTML responses
// get a banner paragraph appended to their footer when enabled for the area
// (backend pages live under the admin path, everything else is frontend).
package web
