package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"gend/internal/engine"
	"gend/internal/llm"
	"gend/pkg/types"
)

// fakeService implements Service with programmable results.
type fakeService struct {
	models  []types.Model
	status  types.StatusResponse
	ready   bool
	genErr  error
	chunks  []string
	lastReq types.GenerateRequest
}

func (f *fakeService) ListModels() []types.Model      { return f.models }
func (f *fakeService) Status() types.StatusResponse   { return f.status }
func (f *fakeService) Ready() bool                    { return f.ready }
func (f *fakeService) Generate(ctx context.Context, req types.GenerateRequest, w io.Writer, flush func()) error {
	f.lastReq = req
	if f.genErr != nil {
		return f.genErr
	}
	for _, c := range f.chunks {
		line, _ := json.Marshal(types.TokenChunk{Token: c})
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
		if flush != nil {
			flush()
		}
	}
	final, _ := json.Marshal(types.GenerateResult{Done: true, Content: strings.Join(f.chunks, ""), FinishReason: "eos"})
	_, err := w.Write(append(final, '\n'))
	return err
}

func postGenerate(t *testing.T, h http.Handler, body, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGenerateStreamsNDJSON(t *testing.T) {
	svc := &fakeService{ready: true, chunks: []string{"Hello", " world"}}
	h := NewMux(svc)
	rr := postGenerate(t, h, `{"prompt":"hi"}`, "application/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Fatalf("content type = %q", ct)
	}
	lines := strings.Split(strings.TrimRight(rr.Body.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), rr.Body.String())
	}
	var final types.GenerateResult
	if err := json.Unmarshal([]byte(lines[2]), &final); err != nil || !final.Done {
		t.Fatalf("bad final line %q: %v", lines[2], err)
	}
}

func TestGenerateRequestDecoding(t *testing.T) {
	svc := &fakeService{ready: true}
	h := NewMux(svc)
	rr := postGenerate(t, h, `{"prompt":"p","top_k":5,"stop":["END"],"reset":false}`, "application/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	req := svc.lastReq
	if req.Prompt != "p" || req.TopK == nil || *req.TopK != 5 {
		t.Fatalf("request not decoded: %+v", req)
	}
	if len(req.Stop) != 1 || req.Stop[0] != "END" || req.Reset == nil || *req.Reset {
		t.Fatalf("request not decoded: %+v", req)
	}
}

func TestGenerateContentTypeRequired(t *testing.T) {
	h := NewMux(&fakeService{ready: true})
	rr := postGenerate(t, h, `{"prompt":"p"}`, "text/plain")
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rr.Code)
	}
	rr = postGenerate(t, h, `{"prompt":"p"}`, "")
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestGenerateInvalidBody(t *testing.T) {
	h := NewMux(&fakeService{ready: true})
	rr := postGenerate(t, h, `{`, "application/json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil || e.Code != 400 {
		t.Fatalf("bad error payload %q: %v", rr.Body.String(), err)
	}
}

func TestGenerateEmptyPrompt(t *testing.T) {
	h := NewMux(&fakeService{ready: true})
	rr := postGenerate(t, h, `{"prompt":"  "}`, "application/json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

type teapotError struct{}

func (teapotError) Error() string   { return "teapot" }
func (teapotError) StatusCode() int { return http.StatusTeapot }

func TestGenerateErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid config", llm.ErrInvalidConfig("bad stop"), http.StatusBadRequest},
		{"engine unavailable", engine.ErrUnavailable("not built"), http.StatusServiceUnavailable},
		{"eval failure", engine.ErrEval(8), http.StatusInternalServerError},
		{"load failure", engine.ErrLoad("/m", "gpt2", "bad magic"), http.StatusInternalServerError},
		{"http error", teapotError{}, http.StatusTeapot},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewMux(&fakeService{ready: true, genErr: tc.err})
			rr := postGenerate(t, h, `{"prompt":"p"}`, "application/json")
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestModelsEndpoint(t *testing.T) {
	svc := &fakeService{models: []types.Model{{ID: "m.bin", Type: "gpt2"}}}
	h := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp types.ModelsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Models) != 1 || resp.Models[0].ID != "m.bin" {
		t.Fatalf("unexpected models: %+v", resp)
	}
}

func TestStatusEndpoint(t *testing.T) {
	svc := &fakeService{status: types.StatusResponse{State: "ready", EngineBuilt: true}}
	h := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var st types.StatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.State != "ready" || !st.EngineBuilt {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	svc := &fakeService{ready: false}
	h := NewMux(svc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz (degraded) = %d", rr.Code)
	}

	svc.ready = true
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("readyz (ready) = %d", rr.Code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	h := NewMux(&fakeService{ready: true})
	rr := postGenerate(t, h, `{"prompt":"`+strings.Repeat("a", 64)+`"}`, "application/json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}
