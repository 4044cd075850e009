package reporter

import (
	"context"
	"errors"
	"net/http"

	"github.com/BeAPI/redirect-loop/internal/model"
)

// Reporter delivers a detected loop incident to its destination.
//
// Implementations must never return control flow decisions to the detector:
// a reporter either records the incident and returns, or terminates the
// request itself via ErrRequestTerminated.
type Reporter interface {
	// Report delivers the incident. w is the response writer of the
	// request in which the loop was detected; log-only reporters ignore it.
	Report(ctx context.Context, w http.ResponseWriter, incident *model.Incident)
}

// ErrRequestTerminated is the panic value DebugReporter raises after
// writing its diagnostic document. The guard middleware recovers it and
// ends the request quietly; any other panic value is re-raised.
var ErrRequestTerminated = errors.New("request terminated by redirect loop diagnostic")
