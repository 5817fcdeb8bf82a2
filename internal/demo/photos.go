package demo

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kabu1204/go-monad/deferred"
)

var (
	ErrLogin  = errors.New("could not retrieve API token")
	ErrPhotos = errors.New("could not retrieve photo ids")
	ErrExport = errors.New("could not export photos")
)

const (
	StepLogin  = "login"
	StepPhotos = "photos"
	StepExport = "export"
)

type PhotoAPI interface {
	Login(username, password string) *deferred.Deferred[string]
	GetPhotos(token string) *deferred.Deferred[[]string]
	ExportFiles(token string, photoIDs []string) *deferred.Deferred[string]
}

// ExportPhotos trades credentials for a token, lists the user's photos and
// exports them, yielding the download link. The first failing step rejects
// the result and no later step is called.
func ExportPhotos(api PhotoAPI, username, password string) *deferred.Deferred[string] {
	return deferred.Bind(api.Login(username, password), func(token string) *deferred.Deferred[string] {
		return deferred.Bind(api.GetPhotos(token), func(ids []string) *deferred.Deferred[string] {
			return api.ExportFiles(token, ids)
		})
	})
}

// StubPhotoAPI settles every call after Latency on a timer. FailAt names the
// step that rejects.
type StubPhotoAPI struct {
	Latency time.Duration
	FailAt  string
	Photos  []string

	mu    sync.Mutex
	calls []string
}

func (s *StubPhotoAPI) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *StubPhotoAPI) record(step string) {
	s.mu.Lock()
	s.calls = append(s.calls, step)
	s.mu.Unlock()
}

func settleLater[T any](s *StubPhotoAPI, step string, v T, failure error) *deferred.Deferred[T] {
	s.record(step)
	return deferred.New(func(resolve func(T), reject func(error)) {
		time.AfterFunc(s.Latency, func() {
			if s.FailAt == step {
				reject(failure)
				return
			}
			resolve(v)
		})
	})
}

func (s *StubPhotoAPI) Login(username, password string) *deferred.Deferred[string] {
	token := fmt.Sprintf("token-%s-%d", username, len(password))
	return settleLater(s, StepLogin, token, ErrLogin)
}

func (s *StubPhotoAPI) GetPhotos(token string) *deferred.Deferred[[]string] {
	return settleLater(s, StepPhotos, s.Photos, ErrPhotos)
}

func (s *StubPhotoAPI) ExportFiles(token string, photoIDs []string) *deferred.Deferred[string] {
	link := fmt.Sprintf("https://exports.example.com/%s/%s.zip", token, strings.Join(photoIDs, "-"))
	return settleLater(s, StepExport, link, ErrExport)
}
