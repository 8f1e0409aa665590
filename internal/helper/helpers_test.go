package helper

import (
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *recordingReporter) ReportServerError(_ *http.Request, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func TestBackgroundTask(t *testing.T) {
	var wg sync.WaitGroup
	reporter := &recordingReporter{}
	h := New("http://localhost", &wg, reporter)

	ran := make(chan struct{}, 1)
	h.BackgroundTask(nil, func() error {
		ran <- struct{}{}
		return nil
	})
	h.BackgroundTask(nil, func() error {
		return errors.New("publish failed")
	})
	h.BackgroundTask(nil, func() error {
		panic("boom")
	})

	wg.Wait()

	<-ran
	require.Len(t, reporter.errs, 2)
	assert.ElementsMatch(t, []string{"publish failed", "boom"},
		[]string{reporter.errs[0].Error(), reporter.errs[1].Error()})
}

func TestNewEmailData(t *testing.T) {
	h := New("http://localhost:4444", &sync.WaitGroup{}, nil)

	assert.Equal(t, "http://localhost:4444", h.NewEmailData()["BaseURL"])
}
