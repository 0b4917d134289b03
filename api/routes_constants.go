package api

// Route path constants
const (
	RouteRPC    = "/_rpc"
	RouteHealth = "/healthz"
)

// Procedure names, posted to RouteRPC + "/" + name
const (
	// Queries
	ProcWhoAmI    = "whoami"
	ProcListTodos = "list-todos"
	ProcGetTodo   = "get-todo"

	// Mutations
	ProcSignIn          = "sign-in"
	ProcSignUp          = "sign-up"
	ProcSignOut         = "sign-out"
	ProcCreateTodo      = "create-todo"
	ProcDeleteTodo      = "delete-todo"
	ProcToggleCompleted = "toggle-completed"
)

// AuthCookieName carries the signed session token
const AuthCookieName = "auth"
