package collector

import (
	"fmt"
	"time"
)

// FetchError reports a failed price table retrieval.
type FetchError struct {
	Source     string
	Day        time.Time
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	day := e.Day.Format("02.01.2006")
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s prices for %s: status %d: %v", e.Source, day, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s prices for %s: %v", e.Source, day, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
