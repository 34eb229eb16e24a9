package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Validate.ParseAccess != nil
}

func (s Service) Login(ctx context.Context, email, password string) LoginResult {
	return RunLogin(ctx, email, password, s.deps.Login)
}

func (s Service) Register(ctx context.Context, in RegisterInput) RegisterResult {
	return RunRegister(ctx, in, s.deps.Register)
}

func (s Service) Logout(ctx context.Context, sessionID string) error {
	return RunLogout(ctx, sessionID, s.deps.Logout)
}

func (s Service) Refresh(ctx context.Context, req RefreshRequest) RefreshResult {
	return RunRefresh(ctx, req, s.deps.Refresh)
}

func (s Service) Validate(ctx context.Context, tokenStr string) ValidateResult {
	return RunValidate(ctx, tokenStr, s.deps.Validate)
}
