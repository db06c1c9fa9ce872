package api

import (
	"errors"
	"net/http"
	"time"

	"fleetops/dashboard/internal/common"
	"fleetops/dashboard/internal/constants"
	reqctx "fleetops/dashboard/internal/context"
	"fleetops/dashboard/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

var errNoSession = errors.New("request carries no session")

// session returns the request's session, answering 500 when the session middleware did not run.
func session(w http.ResponseWriter, r *http.Request, initTime time.Time) (*services.SessionState, bool) {
	state := reqctx.GetSession(r.Context())
	if state == nil {
		common.RespondError(w, initTime, constants.ErrCodeInternal, errNoSession, http.StatusInternalServerError)
		return nil, false
	}
	return state, true
}
