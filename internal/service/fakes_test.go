package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mmcdole/astrodaily/internal/domain"
)

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]error
	calls     []string
	fallback  error // used for dates not in responses
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: map[string]error{}}
}

// on registers the outcome for a date; a nil error yields a valid record
func (f *fakeFetcher) on(date string, err error) *fakeFetcher {
	f.responses[date] = err
	return f
}

func (f *fakeFetcher) Fetch(ctx context.Context, date time.Time) (*domain.ContentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := domain.FormatDate(date)
	f.calls = append(f.calls, key)

	err, ok := f.responses[key]
	if !ok {
		err = f.fallback
		if err == nil {
			err = notFound()
		}
	}
	if err != nil {
		return nil, err
	}
	return testRecord(key), nil
}

func testRecord(date string) *domain.ContentRecord {
	rec, err := domain.NewContentRecord(domain.RecordFields{
		Date:        date,
		Title:       "Record " + date,
		Explanation: "explanation",
		MediaType:   "image",
		URL:         "https://example.com/" + date + ".jpg",
	})
	if err != nil {
		panic(err)
	}
	return rec
}

func notFound() error {
	return &domain.FetchError{Kind: domain.FetchStatus, StatusCode: 404}
}

type memoryCache struct {
	mu        sync.Mutex
	record    *domain.ContentRecord
	images    map[string][]byte
	putErr    error
	imageGets int
	// hitAfter makes GetImage miss until it has been called this many times
	hitAfter int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{images: map[string][]byte{}}
}

func (c *memoryCache) PutRecord(r *domain.ContentRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	cp := *r
	c.record = &cp
	return nil
}

func (c *memoryCache) GetRecord() (*domain.ContentRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.record == nil {
		return nil, false
	}
	cp := *c.record
	return &cp, true
}

func (c *memoryCache) PutImage(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	c.images[key] = append([]byte(nil), data...)
	return nil
}

func (c *memoryCache) GetImage(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageGets++
	if c.imageGets <= c.hitAfter {
		return nil, false
	}
	data, ok := c.images[key]
	return data, ok
}

func (c *memoryCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = nil
	c.images = map[string][]byte{}
	return nil
}

var errDiskFull = errors.New("disk full")

func fixedClock(date string) domain.Clock {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return domain.ClockFunc(func() time.Time { return d.Add(15 * time.Hour) })
}
