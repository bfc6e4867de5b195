package application

import "expvar"

// Counters published on /debug/vars.
var (
	registrations = expvar.NewInt("blog_registrations")
	logins        = expvar.NewInt("blog_logins")
	loginFailures = expvar.NewInt("blog_login_failures")
	postsCreated  = expvar.NewInt("blog_posts_created")
	postsUpdated  = expvar.NewInt("blog_posts_updated")
	postsDeleted  = expvar.NewInt("blog_posts_deleted")
)
