package kaltura

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// Error codes the client reacts to.
const (
	codeInvalidKS = "INVALID_KS"
	codeExpiredKS = "EXPIRED_KS"
)

// APIError is a KalturaAPIException returned by the service.
type APIError struct {
	Service string
	Action  string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s.%s: %s: %s", e.Service, e.Action, e.Code, e.Message)
}

// Unwrap classifies the error as kmeta.ErrNotFound for *_NOT_FOUND codes and
// kmeta.ErrStoreFailed otherwise.
func (e *APIError) Unwrap() error {
	if strings.HasSuffix(e.Code, "NOT_FOUND") {
		return kmeta.ErrNotFound
	}
	return kmeta.ErrStoreFailed
}

func (e *APIError) sessionExpired() bool {
	return e.Code == codeInvalidKS || e.Code == codeExpiredKS
}

func isSessionExpired(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.sessionExpired()
}
