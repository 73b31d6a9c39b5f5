// Package mockapi implements the canned search and translate services. There
// is no ranking and no translation model: results come from fixed tables
// after a fixed delay.
package mockapi

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/gompa/internal/errs"
	"golang.org/x/text/language"
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field string
	Code  errs.Code
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, errs.Msg(e.Code))
}

type Service struct {
	searchDelay    atomic.Int64
	translateDelay atomic.Int64
	now            func() time.Time
}

func New(searchDelay, translateDelay time.Duration) *Service {
	s := &Service{now: time.Now}
	s.SetDelays(searchDelay, translateDelay)
	return s
}

// SetDelays changes the simulated processing time of later requests.
func (s *Service) SetDelays(search, translate time.Duration) {
	s.searchDelay.Store(int64(search))
	s.translateDelay.Store(int64(translate))
}

func (s *Service) Delays() (search, translate time.Duration) {
	return s.searchWait(), s.translateWait()
}

func (s *Service) searchWait() time.Duration    { return time.Duration(s.searchDelay.Load()) }
func (s *Service) translateWait() time.Duration { return time.Duration(s.translateDelay.Load()) }

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// normalizeLang reduces a BCP 47 tag to its base language ("zh-CN" -> "zh").
// Unparseable values are lower-cased and kept as is.
func normalizeLang(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	tag, err := language.Parse(s)
	if err != nil {
		return strings.ToLower(s)
	}
	base, _ := tag.Base()
	return base.String()
}
