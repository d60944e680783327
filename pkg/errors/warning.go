package errors

import "fmt"

// CacheWarning reports a counter-cache step that failed after the primary
// store already committed. The primary mutation is never rolled back; the
// cache is a reconciled projection, so callers surface the warning alongside
// the successful result instead of failing the operation.
type CacheWarning struct {
	Op  string // cache operation that failed, e.g. "decrement"
	Key string // cache key involved
	Err error
}

func (w *CacheWarning) Error() string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("counter cache %s for %s failed: %v", w.Op, w.Key, w.Err)
}

func (w *CacheWarning) Unwrap() error {
	if w == nil {
		return nil
	}
	return w.Err
}

// Message is the caller-facing summary included in response payloads.
func (w *CacheWarning) Message() string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("counter cache %s failed; count for %s may lag until reconciled", w.Op, w.Key)
}
