package auth

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// SessionChecker asks the backend whether the ambient credential still
// identifies a valid session. Implemented by the services layer through
// the refresh endpoint.
type SessionChecker interface {
	CheckSession(ctx context.Context) (*Session, error)
}

// Verifier performs the one-shot startup reconciliation: it resolves the
// state's loading flag exactly once, populating the session when the stored
// credential is still valid and leaving it absent otherwise.
type Verifier struct {
	state   *State
	checker SessionChecker
	logger  *log.Logger
	once    sync.Once
}

// NewVerifier creates a Verifier writing into state.
func NewVerifier(state *State, checker SessionChecker, logger *log.Logger) *Verifier {
	return &Verifier{state: state, checker: checker, logger: logger}
}

// Run performs the startup check. Subsequent calls are no-ops. A failed
// check is the normal signed-out path, logged at debug and never surfaced
// as an error. If ctx is cancelled before the result can be applied, the
// result is discarded and no state is mutated.
func (v *Verifier) Run(ctx context.Context) {
	v.once.Do(func() {
		sess, err := v.checker.CheckSession(ctx)

		// The calling tree may have been torn down while the check was in
		// flight; a late result must not mutate state after teardown.
		if ctx.Err() != nil {
			return
		}

		if err != nil || sess == nil {
			if err != nil && v.logger != nil {
				v.logger.Debug("session verification found no valid credential", "err", err)
			}
			v.state.MarkResolved()
			return
		}

		v.state.Set(*sess)
		if v.logger != nil {
			v.logger.Debug("session restored", "user_id", sess.UserID, "role", sess.Role)
		}
	})
}
