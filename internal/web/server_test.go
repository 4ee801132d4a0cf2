package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/wiki-wordcloud/models"
	"github.com/dtnitsch/wiki-wordcloud/pkg/pipeline"
	"github.com/dtnitsch/wiki-wordcloud/pkg/wordcloud"
)

type fakeResolver struct {
	res      *pipeline.Result
	err      error
	calls    int
	category string
}

func (f *fakeResolver) Resolve(ctx context.Context, category string, opts pipeline.ResolveOptions) (*pipeline.Result, error) {
	f.calls++
	f.category = category
	return f.res, f.err
}

func newTestServer(t *testing.T, r Resolver) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(r, slog.New(slog.NewTextHandler(io.Discard, nil))).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postAnalyze(t *testing.T, srv *httptest.Server, form url.Values) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.PostForm(srv.URL+"/analyze", form)
	if err != nil {
		t.Fatalf("POST /analyze error = %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error = %v", err)
	}
	return resp, body
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, &fakeResolver{})
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	if !strings.Contains(string(body), "/analyze") {
		t.Error("index page does not reference /analyze")
	}
}

func TestPalettes(t *testing.T) {
	srv := newTestServer(t, &fakeResolver{})
	resp, err := http.Get(srv.URL + "/color-palettes")
	if err != nil {
		t.Fatalf("GET /color-palettes error = %v", err)
	}
	defer resp.Body.Close()

	var got map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(got) != 13 {
		t.Errorf("got %d palettes, want 13", len(got))
	}
	if len(got["RGB"]) != 3 {
		t.Errorf("RGB = %v", got["RGB"])
	}
}

func TestAnalyze(t *testing.T) {
	r := &fakeResolver{res: &pipeline.Result{
		Frequencies: models.FrequencyTable{"cat": 3, "probe": 300, "orbit": 90},
		Origin:      pipeline.OriginFresh,
	}}
	srv := newTestServer(t, r)

	resp, body := postAnalyze(t, srv, url.Values{"category": {"Foo"}, "palette": {"rgb"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}

	var cloud wordcloud.Cloud
	if err := json.Unmarshal(body, &cloud); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	want := []wordcloud.Word{
		{Text: "probe", Size: 100},
		{Text: "orbit", Size: 45},
		{Text: "cat", Size: 20},
	}
	if len(cloud.Words) != len(want) {
		t.Fatalf("words = %+v, want %+v", cloud.Words, want)
	}
	for i := range want {
		if cloud.Words[i] != want[i] {
			t.Errorf("word %d = %+v, want %+v", i, cloud.Words[i], want[i])
		}
	}
	if len(cloud.Colors) != 3 || cloud.Colors[0] != "#ff0000" {
		t.Errorf("colors = %v", cloud.Colors)
	}
	if r.category != "Foo" {
		t.Errorf("resolved category %q, want Foo", r.category)
	}
}

func TestAnalyze_DefaultPalette(t *testing.T) {
	r := &fakeResolver{res: &pipeline.Result{Frequencies: models.FrequencyTable{"cat": 3}, Origin: pipeline.OriginCache}}
	srv := newTestServer(t, r)

	_, body := postAnalyze(t, srv, url.Values{"category": {"Foo"}})
	var cloud wordcloud.Cloud
	if err := json.Unmarshal(body, &cloud); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(cloud.Colors) != 10 || cloud.Colors[0] != "#1f77b4" {
		t.Errorf("colors = %v, want Default", cloud.Colors)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		resolveErr error
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{
			name:       "missing category",
			form:       url.Values{"palette": {"Default"}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Category is required",
		},
		{
			name:       "blank category",
			form:       url.Values{"category": {"   "}},
			wantStatus: http.StatusBadRequest,
			wantError:  "Category is required",
		},
		{
			name:       "pipeline failure",
			form:       url.Values{"category": {"Foo"}},
			resolveErr: pipeline.ErrEmptyCategory,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Error analyzing category: no pages found in category",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeResolver{err: tt.resolveErr}
			srv := newTestServer(t, r)

			resp, body := postAnalyze(t, srv, tt.form)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var got errorResponse
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("decode error = %v (%s)", err, body)
			}
			if got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
			if r.calls != tt.wantCalls {
				t.Errorf("resolver called %d times, want %d", r.calls, tt.wantCalls)
			}
		})
	}
}

func TestAnalyze_StaleHeader(t *testing.T) {
	ts := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	r := &fakeResolver{res: &pipeline.Result{
		Frequencies: models.FrequencyTable{"cat": 3},
		Origin:      pipeline.OriginStale,
		Timestamp:   ts,
		RunErr:      errors.New("upstream down"),
	}}
	srv := newTestServer(t, r)

	resp, _ := postAnalyze(t, srv, url.Values{"category": {"Foo"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache-Stale"); got != "2024-04-01T00:00:00Z" {
		t.Errorf("X-Cache-Stale = %q", got)
	}
}

func TestAnalyze_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeResolver{})
	resp, err := http.Get(srv.URL + "/analyze")
	if err != nil {
		t.Fatalf("GET /analyze error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestAnalyze_MultipartForm(t *testing.T) {
	r := &fakeResolver{res: &pipeline.Result{Frequencies: models.FrequencyTable{"cat": 3}, Origin: pipeline.OriginFresh}}
	srv := newTestServer(t, r)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("category", "Foo"); err != nil {
		t.Fatal(err)
	}
	if err := mw.WriteField("palette", "Dracula"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(srv.URL+"/analyze", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /analyze error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var cloud wordcloud.Cloud
	if err := json.NewDecoder(resp.Body).Decode(&cloud); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if r.calls != 1 || r.category != "Foo" {
		t.Errorf("resolver calls = %d, category = %q", r.calls, r.category)
	}
	if len(cloud.Colors) != 10 || cloud.Colors[0] != "#282a36" {
		t.Errorf("colors = %v, want Dracula", cloud.Colors)
	}
}

func TestAnalyze_CategoryPrefixStripped(t *testing.T) {
	r := &fakeResolver{res: &pipeline.Result{Frequencies: models.FrequencyTable{"cat": 3}, Origin: pipeline.OriginCache}}
	srv := newTestServer(t, r)

	resp, _ := postAnalyze(t, srv, url.Values{"category": {"category:Foo"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if r.category != "Foo" {
		t.Errorf("resolved category %q, want Foo", r.category)
	}
}
