package linkedin

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForm_Request(t *testing.T) {
	v := url.Values{
		"keywords":         {"  Python Developer  "},
		"location":         {"Karachi, Pakistan , "},
		"company":          {""},
		"school":           {"MIT"},
		"open_to":          {"proBono", "boardMember"},
		"profile_language": {"en", "fr"},
		"network_distance": {"1", "3"},
		"max_results":      {"100"},
		"count":            {"20"},
	}

	req := ParseForm(v).Request()
	assert.Equal(t, map[string]string{
		"keywords":         "Python Developer",
		"location":         "Karachi,Pakistan",
		"school":           "MIT",
		"open_to":          "proBono,boardMember",
		"profile_language": "en,fr",
		"network_distance": "1,3",
	}, req.Filters)
	assert.Equal(t, 100, req.MaxResults)
	assert.Equal(t, 20, req.Count)
	assert.False(t, req.IncludeDetails)
}

func TestParseForm_Defaults(t *testing.T) {
	f := ParseForm(url.Values{"keywords": {"   "}, "max_results": {"abc"}})
	req := f.Request()
	assert.Empty(t, req.Filters)
	assert.Equal(t, DefaultMaxResults, req.MaxResults)
	assert.Equal(t, DefaultCount, req.Count)
	assert.NoError(t, f.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		v    url.Values
		want string
	}{
		{"max results too large", url.Values{"max_results": {"1001"}}, "max_results must be at most 1000"},
		{"negative count", url.Values{"count": {"-1"}}, "count must be at least 1"},
		{"count too large", url.Values{"count": {"101"}}, "count must be at most 100"},
		{"bad distance", url.Values{"network_distance": {"4"}}, "network_distance must be one of"},
		{"non numeric distance", url.Values{"network_distance": {"x"}}, "network_distance must be one of"},
		{"unsupported language", url.Values{"profile_language": {"xx"}}, "profile_language must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseForm(tt.v).Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, ParseForm(url.Values{"max_results": {"1000"}, "count": {"100"}, "network_distance": {"2"}}).Validate())
}

func TestFormRedisplayHelpers(t *testing.T) {
	f := ParseForm(url.Values{
		"industry":         {"IT,Healthcare"},
		"profile_language": {"de"},
		"network_distance": {"2"},
		"open_to":          {"proBono"},
	})
	assert.Equal(t, "IT, Healthcare", f.Text("industry"))
	assert.True(t, f.HasLanguage("de"))
	assert.False(t, f.HasLanguage("en"))
	assert.True(t, f.HasDistance("2"))
	assert.True(t, f.HasOpenTo("proBono"))
	assert.False(t, f.HasOpenTo("boardMember"))
}

func TestDistanceLabel(t *testing.T) {
	assert.Equal(t, "1st", DistanceLabel("DISTANCE_1"))
	assert.Equal(t, "2nd", DistanceLabel("DISTANCE_2"))
	assert.Equal(t, "3rd+", DistanceLabel("DISTANCE_3"))
	assert.Equal(t, "OUT_OF_NETWORK", DistanceLabel("OUT_OF_NETWORK"))
}

func TestRelay_MirrorsUpstream(t *testing.T) {
	var gotBody, gotType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad filters"}`))
	}))
	defer upstream.Close()

	relay := NewRelay(upstream.URL, upstream.Client())
	body := `{"filters":{"keywords":"go"},"max_results":40}`
	req := httptest.NewRequest(http.MethodPost, "/api/linkedin/people-search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	relay.ServeHTTP(rec, req)

	assert.Equal(t, body, gotBody)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail":"bad filters"}`, rec.Body.String())
}

func TestRelay_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := upstream.URL
	upstream.Close()

	relay := NewRelay(addr, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/linkedin/people-search", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	relay.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"detail":"Search failed"}`, rec.Body.String())
}

func TestRelay_RejectsOversizedBody(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	relay := NewRelay(upstream.URL, upstream.Client())
	body := `{"filters":{"keywords":"` + strings.Repeat("a", maxRelayBody) + `"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/linkedin/people-search", strings.NewReader(body))
	rec := httptest.NewRecorder()
	relay.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"detail":"request body too large"}`, rec.Body.String())
	assert.False(t, called, "a truncated body is never forwarded")
}
