package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	FullName string `json:"full_name"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		strict  bool
		wantErr string
	}{
		{name: "valid", body: `{"full_name":"Kofi Boateng"}`},
		{name: "unknown field tolerated", body: `{"full_name":"Kofi","id":3}`},
		{name: "unknown field strict", body: `{"full_name":"Kofi","id":3}`, strict: true, wantErr: `body contains unknown key "id"`},
		{name: "empty body", body: ``, wantErr: "body must not be empty"},
		{name: "wrong type", body: `{"full_name":12}`, wantErr: `body contains incorrect JSON type for field "full_name"`},
		{name: "two values", body: `{"full_name":"a"}{"full_name":"b"}`, wantErr: "body must only contain a single JSON value"},
		{name: "truncated", body: `{"full_name":`, wantErr: "body contains badly-formed JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dst payload
			var err error
			if tt.strict {
				err = DecodeJSONStrict(w, r, &dst)
			} else {
				err = DecodeJSON(w, r, &dst)
			}

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, dst.FullName)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
