package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabu1204/go-monad/result"
)

func TestCoordinatesOf(t *testing.T) {
	full := &Response{Location: &Location{
		Country: "USA",
		City:    &City{Name: "Boston", Coordinates: &Coordinates{Latitude: 1234, Longitude: 2345}},
	}}

	testCases := []struct {
		name     string
		resp     *Response
		expected string
	}{
		{name: "full response", resp: full, expected: "[1234, 2345]"},
		{name: "nil response", resp: nil, expected: ErrNoCoordinates},
		{name: "missing location", resp: &Response{}, expected: ErrNoCoordinates},
		{
			name:     "missing coordinates",
			resp:     &Response{Location: &Location{City: &City{Name: "Boston"}}},
			expected: ErrNoCoordinates,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DescribeCoordinates(tc.resp))
		})
	}
}

func TestLastElements(t *testing.T) {
	out := LastElements([][]int{{1, 2, 3}, {1, 2}, {}, {4, 5}, {1}})

	assert.Equal(t, []result.Result[string, int]{
		result.Success[string](3),
		result.Success[string](2),
		result.Failure[string, int](ErrEmptyArray),
		result.Success[string](5),
		result.Success[string](1),
	}, out)
}

func TestExportPhotos(t *testing.T) {
	testCases := []struct {
		name          string
		failAt        string
		expectedLink  string
		expectedErr   error
		expectedCalls []string
	}{
		{
			name:          "all steps succeed",
			expectedLink:  "https://exports.example.com/token-ann-6/p1-p2.zip",
			expectedCalls: []string{StepLogin, StepPhotos, StepExport},
		},
		{
			name:          "login fails",
			failAt:        StepLogin,
			expectedErr:   ErrLogin,
			expectedCalls: []string{StepLogin},
		},
		{
			name:          "photo listing fails",
			failAt:        StepPhotos,
			expectedErr:   ErrPhotos,
			expectedCalls: []string{StepLogin, StepPhotos},
		},
		{
			name:          "export fails",
			failAt:        StepExport,
			expectedErr:   ErrExport,
			expectedCalls: []string{StepLogin, StepPhotos, StepExport},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := &StubPhotoAPI{Latency: time.Millisecond, FailAt: tc.failAt, Photos: []string{"p1", "p2"}}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			link, err := ExportPhotos(api, "ann", "secret").Await(ctx)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedLink, link)
			}
			assert.Equal(t, tc.expectedCalls, api.Calls())
		})
	}
}
