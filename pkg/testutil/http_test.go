package testutil

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadBody_RepeatableReads(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"conflict","message":"already exists"}`))
	})

	rr := DoRequest(handler, NewRequest(t, http.MethodGet, "/"))

	// One assertion reading the body must not starve the next.
	AssertErrorCode(t, rr, "conflict")
	errResp := UnmarshalErrorResponse(t, rr)
	assert.Equal(t, "already exists", errResp["message"])
}
