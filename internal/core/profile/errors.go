package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCredential  = errors.New("profile: missing credential")
	ErrUnrecoverable      = errors.New("profile: unrecoverable lookup failure")
	ErrProvisioningFailed = errors.New("profile: provisioning failed")
	ErrExhausted          = errors.New("profile: resolution exhausted")
)

// LookupError は current_employee の取得がエラー応答で終わったことを表します。
type LookupError struct {
	StatusCode int
	Body       string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("profile: lookup failed status=%d body=%s", e.StatusCode, e.Body)
}

// MissingRecord は応答本文が「ロールが存在しない」状態を示しているかを返します。
func (e *LookupError) MissingRecord() bool {
	return strings.Contains(e.Body, "role") && strings.Contains(e.Body, "does not exist")
}
