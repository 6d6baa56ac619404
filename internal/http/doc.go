// Package httpapp serves the microblog's hypermedia surface.
//
// Seven resources, all rendered as HTML from embedded templates:
//
//	GET  /                    all messages, newest first
//	GET  /messages/:id        a single message
//	POST /messages/           create a message (Basic auth required)
//	GET  /users/:id           a user profile
//	GET  /user-messages/:id   all messages by one user
//	GET  /users/              all users
//	POST /users/              register a user
//	GET  /register/           registration form
//
// GET responses carry the content type negotiated from the Accept header
// (text/xml, application/xml, application/xhtml+xml, or text/html as the
// fallback). POST /messages/ is the only protected route: missing or
// invalid credentials get a 401 challenge with the configured realm, a
// non-Basic scheme gets a 400.
package httpapp
