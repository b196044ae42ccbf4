package apperr

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorIsSurvivesWithField(t *testing.T) {
	sentinel := Conflict("This SKU already exists")
	err := errors.Wrap(sentinel.WithField("sku"), "create product")

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.False(t, errors.Is(err, Conflict("other message")))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		t.Run(kind.String(), func(t *testing.T) {
			assert.Equal(t, status, HTTPStatus(kind))
		})
	}
}

func TestInternalMessageHidesCause(t *testing.T) {
	err := Internal("Failed to fetch products", errors.New("dial tcp: refused"))
	assert.Equal(t, "Failed to fetch products", err.Message)
	assert.Contains(t, err.Error(), "dial tcp")
}
