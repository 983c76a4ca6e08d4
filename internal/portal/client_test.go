package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient("test-token", &Options{BaseURL: serverURL})
}

func TestPublishedTerms_Success(t *testing.T) {
	var gotPath, gotToken, gotContentType string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("token")
		gotContentType = r.Header.Get("content-type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"DataList":[{"DropdownId":303,"DropdownName":"2025 May Term 2","DropdownCode":"25T2"}]}`))
	}))
	defer server.Close()

	resp, raw, err := newTestClient(server.URL).PublishedTerms(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/WebServices/api/HelperService/GetTimeTablePublishedTerms", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Empty(t, gotBody)

	require.Len(t, resp.DataList, 1)
	assert.Equal(t, 303, resp.DataList[0].DropdownID)
	assert.Equal(t, "2025 May Term 2", resp.DataList[0].DropdownName)
	assert.Contains(t, string(raw), "DropdownCode")
}

func TestCoursesByTerm_SendsTermID(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"DataList":[{"CourseID":1,"CourseCode":"ABC101","CourseDescription":"Intro"}]}`))
	}))
	defer server.Close()

	resp, _, err := newTestClient(server.URL).CoursesByTerm(context.Background(), 303)
	require.NoError(t, err)

	assert.Equal(t, float64(303), gotBody["TermId"])
	require.Len(t, resp.DataList, 1)
	assert.Equal(t, "ABC101", resp.DataList[0].CourseCode)
}

func TestClassSchedule_JoinsCourseIDs(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"DataList":[]}`))
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).ClassSchedule(context.Background(), 303, []int{11, 22, 33})
	require.NoError(t, err)

	assert.Equal(t, "11,22,33", gotBody["CourseIds"])
	assert.Equal(t, true, gotBody["IsAllWeek"])
	assert.Equal(t, float64(303), gotBody["TermId"])
}

func TestPost_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).PublishedTerms(context.Background())
	require.Error(t, err)

	var portalErr *Error
	require.ErrorAs(t, err, &portalErr)
	assert.Equal(t, http.StatusUnauthorized, portalErr.Status)
	assert.Contains(t, portalErr.Body, "token expired")
	assert.Contains(t, err.Error(), "401")
}

func TestPost_BodyExcerptTruncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).PublishedTerms(context.Background())
	require.Error(t, err)

	var portalErr *Error
	require.ErrorAs(t, err, &portalErr)
	assert.Len(t, portalErr.Body, excerptLen+3) // 200 chars plus "..."
}

func TestPost_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close() // connection refused from here on

	_, _, err := newTestClient(server.URL).PublishedTerms(context.Background())
	require.Error(t, err)

	var portalErr *Error
	require.ErrorAs(t, err, &portalErr)
	assert.Zero(t, portalErr.Status)
	assert.NotNil(t, portalErr.Cause)
}

func TestPublishedTerms_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"DataList": not json`))
	}))
	defer server.Close()

	_, _, err := newTestClient(server.URL).PublishedTerms(context.Background())
	require.Error(t, err)

	var portalErr *Error
	require.ErrorAs(t, err, &portalErr)
	assert.Contains(t, portalErr.Message, "malformed")
}
