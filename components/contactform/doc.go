// Package contactform serves the contact form over net/http.
//
// A GET on the base path mounts a new session and renders the empty form.
// Field updates, submissions, and resets are POSTed to sub-paths and carry
// the session id in the "_session" form value or the session cookie. The
// JSON endpoint under {base}/api validates and echoes a submission without a
// session. Sessions live in memory and expire after an idle TTL.
package contactform
