package web

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Views
	RouteRoot   = "/"
	RouteSignIn = "/sign-in"
	RouteSignUp = "/sign-up"
	RouteTask   = "/tasks/{id}"

	// Mutations
	RouteSignOut    = "/sign-out"
	RouteTasks      = "/tasks"
	RouteTaskToggle = "/tasks/{id}/toggle"
	RouteTaskDelete = "/tasks/{id}/delete"

	// Server-sent navigation events
	RouteEvents = "/events"
	RouteFocus  = "/events/focus"

	// Static Asset Routes (patterns)
	RouteStatic = "/static/{file}"
)

// ViewerCookieName identifies the browser's viewer
const ViewerCookieName = "viewer_id"
