package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponses(t *testing.T) {
	statsJSON := `{"total_workouts":3,"most_frequent_exercise":"Squat"}`

	testCases := []struct {
		name         string
		write        func(w http.ResponseWriter)
		expectedCode int
		expectedType string
		expectedBody string
	}{
		{
			name: "bytes with status",
			write: func(w http.ResponseWriter) {
				WriteResponseBytes(w, ContentType.JSON, []byte(statsJSON), http.StatusAccepted)
			},
			expectedCode: http.StatusAccepted,
			expectedType: ContentType.JSON,
			expectedBody: statsJSON,
		},
		{
			name:         "bytes ok",
			write:        func(w http.ResponseWriter) { WriteResponseBytesOK(w, ContentType.JSON, []byte("[]")) },
			expectedCode: http.StatusOK,
			expectedType: ContentType.JSON,
			expectedBody: "[]",
		},
		{
			name:         "string with status",
			write:        func(w http.ResponseWriter) { WriteResponse(w, ContentType.Text, "invalid user id", http.StatusBadRequest) },
			expectedCode: http.StatusBadRequest,
			expectedType: ContentType.Text,
			expectedBody: "invalid user id",
		},
		{
			name:         "text ok",
			write:        func(w http.ResponseWriter) { WriteTextResponseOK(w, "a1b2c3d") },
			expectedCode: http.StatusOK,
			expectedType: ContentType.Text,
			expectedBody: "a1b2c3d",
		},
		{
			name:         "json ok",
			write:        func(w http.ResponseWriter) { WriteJSONResponseOK(w, statsJSON) },
			expectedCode: http.StatusOK,
			expectedType: ContentType.JSON,
			expectedBody: statsJSON,
		},
		{
			name:         "no content type",
			write:        func(w http.ResponseWriter) { WriteResponse(w, "", "", http.StatusNotFound) },
			expectedCode: http.StatusNotFound,
			expectedType: "",
			expectedBody: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.write(rr)

			assert.Equal(t, tc.expectedCode, rr.Code)
			assert.Equal(t, tc.expectedType, rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedBody, rr.Body.String())
		})
	}
}
