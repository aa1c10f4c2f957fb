package demo

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/fieldkit/internal/action"
	"github.com/muurk/fieldkit/internal/transport"
)

func newTestClient(t *testing.T) (*Backend, *transport.Client) {
	t.Helper()
	b := NewBackend()
	srv := b.Start()
	t.Cleanup(srv.Close)
	c := transport.NewClient(srv.URL)
	c.MaxRetries = 0
	return b, c
}

func TestBackendCitySearch(t *testing.T) {
	_, c := newTestClient(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", nil},
		{"spain", []string{"Madrid", "Barcelona"}},
		{"sao", []string{"São Paulo"}},
		{"berlin", []string{"Berlin"}},
		{"atlantis", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			records, err := c.Search(context.Background(), CitiesPath, tt.query)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Len(t, records, len(cities))
				return
			}
			got := make([]string, 0, len(records))
			for _, r := range records {
				got = append(got, r["text"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBackendSignupAccepted(t *testing.T) {
	b, c := newTestClient(t)

	var resp SignupResponse
	err := c.PostJSON(context.Background(), SignupPath, Signup{Name: "Ana", Email: "ana@example.com", City: "lis"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ID)
	require.Len(t, b.Signups(), 1)
	assert.Equal(t, "Ana", b.Signups()[0].Name)
}

func TestBackendSignupFieldErrors(t *testing.T) {
	b, c := newTestClient(t)

	err := c.PostJSON(context.Background(), SignupPath, Signup{Name: "Ana", Email: "ana@taken.example", City: "xyz"}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, action.StatusOf(err))

	var te *transport.Error
	require.ErrorAs(t, err, &te)
	body, err := te.JSON()
	require.NoError(t, err)
	errs, err := action.ParseServerErrors(body)
	require.NoError(t, err)

	m := errs.Map()
	assert.Equal(t, []string{"This email is already registered"}, m["email"])
	assert.Equal(t, []string{"Unknown city"}, m["city"])
	assert.Empty(t, b.Signups())
}

func TestBackendSignupServerError(t *testing.T) {
	_, c := newTestClient(t)

	err := c.PostJSON(context.Background(), SignupPath, Signup{Name: "boom"}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, action.StatusOf(err))
}
