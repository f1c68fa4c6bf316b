package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport marks network or HTTP failures. Per-record, never fatal
	// to a batch.
	ErrTransport = errors.New("transport error")
	// ErrParse marks malformed catalog payloads. Same handling as
	// ErrTransport.
	ErrParse = errors.New("parse error")
	// ErrConfiguration marks missing credentials or invalid settings and is
	// fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups for ids the catalog does not know.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error carrying catalog and operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, catalogName, operation, message string, err error) error {
	detail := buildDetail(catalogName, operation, message)
	if marker == nil {
		marker = ErrTransport
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error should abort the run rather than degrade a
// single record's enrichment.
func Fatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(catalogName, operation, message string) string {
	parts := make([]string, 0, 3)
	if catalogName = strings.TrimSpace(catalogName); catalogName != "" {
		parts = append(parts, catalogName)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "catalog failure"
	}
	return strings.Join(parts, ": ")
}
