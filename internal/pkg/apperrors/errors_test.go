package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("create order: %w", NotEligible("Listing already requested", nil))
	assert.ErrorIs(t, err, ErrNotEligible)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, KindNotEligible, KindOf(err))
}

func TestKindOf_Uncategorised(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestUpstream_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("Image upload failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Image upload failed: connection refused", err.Error())
}

func TestStatusCode(t *testing.T) {
	cases := map[Kind]int{
		KindInvalidInput:       http.StatusBadRequest,
		KindNotFound:           http.StatusNotFound,
		KindForbidden:          http.StatusForbidden,
		KindNotEligible:        http.StatusConflict,
		KindInvalidTransition:  http.StatusConflict,
		KindConfigurationError: http.StatusInternalServerError,
		KindUpstreamFailure:    http.StatusBadGateway,
		KindInternal:           http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, StatusCode(k), string(k))
	}
}
