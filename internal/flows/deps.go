package flows

// Deps groups flow dependency sets. Root engine builds this once and delegates
// request methods to the matching flow implementation.
type Deps struct {
	Login    LoginDeps
	Register RegisterDeps
	Logout   LogoutDeps
	Refresh  RefreshDeps
	Validate ValidateDeps
}
