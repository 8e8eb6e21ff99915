package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/meinhoongagan/roadside-assist/storage"
)

type fakeUploader struct {
	mu      sync.Mutex
	next    int
	stored  map[string]string
	deleted []string
	failOn  string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{stored: map[string]string{}}
}

func (f *fakeUploader) Upload(_ context.Context, file storage.File, folder string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && file.Name == f.failOn {
		return storage.Object{}, errors.New("upload failed")
	}
	body, _ := io.ReadAll(file.Body)
	f.next++
	id := fmt.Sprintf("%s/img-%d", folder, f.next)
	f.stored[id] = string(body)
	return storage.Object{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, publicID)
	f.deleted = append(f.deleted, publicID)
	return nil
}

func file(name string) storage.File {
	return storage.File{Name: name, ContentType: "image/jpeg", Body: strings.NewReader("data-" + name)}
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]any
	hits    int
}

func newMemCache() *memCache { return &memCache{entries: map[string]any{}} }

func (m *memCache) Get(_ context.Context, key string, dest any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return false
	}
	if p, ok := dest.(*DirectoryPage); ok {
		*p = v.(DirectoryPage)
		m.hits++
		return true
	}
	return false
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

type sentMail struct {
	Kind, To, Payload string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) record(kind, to, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{Kind: kind, To: to, Payload: payload})
	return f.err
}

func (f *fakeMailer) SendVerification(to, _, link string) error { return f.record("verify", to, link) }
func (f *fakeMailer) SendResetOTP(to, _, otp string) error      { return f.record("otp", to, otp) }
func (f *fakeMailer) SendPasswordChanged(to, _ string) error    { return f.record("changed", to, "") }
func (f *fakeMailer) SendNewRequest(to, _, problemType, _, _ string) error {
	return f.record("request", to, problemType)
}

func (f *fakeMailer) last(kind string) (sentMail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Kind == kind {
			return f.sent[i], true
		}
	}
	return sentMail{}, false
}
