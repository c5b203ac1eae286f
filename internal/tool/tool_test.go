package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"newsletter-press/internal/domain/entity"
	"newsletter-press/internal/infra/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its arguments",
		Schema:      json.RawMessage(`{"type": "object"}`),
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			return string(args), nil
		},
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(echoTool("a"), echoTool("a"))
	assert.Error(t, err)
}

func TestNewRegistry_RejectsEmptyName(t *testing.T) {
	_, err := NewRegistry(echoTool(""))
	assert.Error(t, err)
}

func TestRegistry_ListIsSorted(t *testing.T) {
	r, err := NewRegistry(echoTool("zeta"), echoTool("alpha"), echoTool("mid"))
	require.NoError(t, err)

	descriptors := r.List()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "alpha", descriptors[0].Name)
	assert.Equal(t, "mid", descriptors[1].Name)
	assert.Equal(t, "zeta", descriptors[2].Name)
	assert.Equal(t, "echoes its arguments", descriptors[0].Description)
}

func TestNewRegistry_FromAppendedSlice(t *testing.T) {
	var tools []Tool
	tools = append(tools, echoTool("research"))
	tools = append(tools, echoTool("editing"), echoTool("export"))

	r, err := NewRegistry(tools...)
	require.NoError(t, err)
	assert.Len(t, r.List(), 3)
}

func TestRegistry_Dispatch(t *testing.T) {
	r, err := NewRegistry(echoTool("echo"))
	require.NoError(t, err)

	result, err := r.Dispatch(context.Background(), "echo", json.RawMessage(`{"x":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, result)
}

func TestRegistry_DispatchUnknownTool(t *testing.T) {
	r, err := NewRegistry(echoTool("echo"))
	require.NoError(t, err)

	_, err = r.Dispatch(context.Background(), "missing", nil)

	var br *BadRequestError
	require.ErrorAs(t, err, &br)
	assert.Equal(t, entity.KindBadRequest, NewErrorRecord(err).Kind)
}

func TestNewErrorRecord(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind entity.ErrorKind
	}{
		{"source auth", entity.NewSourceAuthError(entity.SourceTwitter, "no token"), entity.KindSourceAuth},
		{"rate limited", entity.NewSourceRateLimited(entity.SourceArxiv), entity.KindSourceRateLimited},
		{"validation", &entity.ValidationFailedError{}, entity.KindValidationFailed},
		{"publish", entity.NewPublishError("upload", 3, errors.New("boom")), entity.KindPublish},
		{"bad request", BadRequest("nope"), entity.KindBadRequest},
		{"unclassified", errors.New("boom"), entity.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewErrorRecord(tt.err)
			assert.Equal(t, tt.kind, record.Kind)
			assert.NotEmpty(t, record.Message)
		})
	}
}

func TestDecodeArgs(t *testing.T) {
	type args struct {
		N int `json:"n"`
	}

	t.Run("empty record keeps defaults", func(t *testing.T) {
		v := args{N: 7}
		require.NoError(t, decodeArgs(nil, &v))
		assert.Equal(t, 7, v.N)
	})

	t.Run("null record keeps defaults", func(t *testing.T) {
		v := args{N: 7}
		require.NoError(t, decodeArgs(json.RawMessage(`null`), &v))
		assert.Equal(t, 7, v.N)
	})

	t.Run("malformed record is a bad request", func(t *testing.T) {
		var v args
		err := decodeArgs(json.RawMessage(`{`), &v)
		var br *BadRequestError
		assert.ErrorAs(t, err, &br)
	})

	t.Run("values override defaults", func(t *testing.T) {
		v := args{N: 7}
		require.NoError(t, decodeArgs(json.RawMessage(`{"n": 3}`), &v))
		assert.Equal(t, 3, v.N)
	})
}

// stubWindowFetcher records the window it was called with.
type stubWindowFetcher struct {
	window source.Window
	items  []entity.ContentItem
	err    error
}

func (s *stubWindowFetcher) Fetch(_ context.Context, w source.Window) ([]entity.ContentItem, error) {
	s.window = w
	return s.items, s.err
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)
}

func dispatchOne(t *testing.T, tl Tool, args string) (any, error) {
	t.Helper()
	r, err := NewRegistry(tl)
	require.NoError(t, err)
	return r.Dispatch(context.Background(), tl.Name, json.RawMessage(args))
}
