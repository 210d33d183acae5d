package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// Reply is a canned HTTP response.
type Reply struct {
	Status int
	Body   string
}

// JSONReply encodes value as a 200 response body.
func JSONReply(t *testing.T, value any) Reply {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return Reply{Status: http.StatusOK, Body: string(data)}
}

// PredictionServer fakes the prediction service. Each endpoint answers with a
// configurable Reply and counts its calls. When Gate is set, /predict blocks
// until the channel is closed or receives a value.
type PredictionServer struct {
	*httptest.Server

	Gate chan struct{}

	mu         sync.Mutex
	predict    Reply
	importance Reply
	openapi    Reply
	bodies     [][]byte
	headers    []http.Header

	predictCalls    atomic.Int64
	importanceCalls atomic.Int64
	started         chan struct{}
}

// NewPredictionServer starts a fake service that predicts the sample result
// and ranks the sample importance list. It is closed with the test.
func NewPredictionServer(t *testing.T) *PredictionServer {
	t.Helper()

	s := &PredictionServer{
		predict:    JSONReply(t, SampleResult()),
		importance: JSONReply(t, SampleImportance()),
		openapi:    Reply{Status: http.StatusNotFound, Body: `{"detail":"Not Found"}`},
		started:    make(chan struct{}, 16),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/feature_importance", func(w http.ResponseWriter, r *http.Request) {
		s.importanceCalls.Add(1)
		s.mu.Lock()
		reply := s.importance
		s.mu.Unlock()
		write(w, reply)
	})
	mux.HandleFunc("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		reply := s.openapi
		s.mu.Unlock()
		write(w, reply)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// SetPredict changes the /predict reply.
func (s *PredictionServer) SetPredict(reply Reply) {
	s.mu.Lock()
	s.predict = reply
	s.mu.Unlock()
}

// SetImportance changes the /feature_importance reply.
func (s *PredictionServer) SetImportance(reply Reply) {
	s.mu.Lock()
	s.importance = reply
	s.mu.Unlock()
}

// SetOpenAPI changes the /openapi.json reply.
func (s *PredictionServer) SetOpenAPI(reply Reply) {
	s.mu.Lock()
	s.openapi = reply
	s.mu.Unlock()
}

// PredictCalls reports how many /predict requests arrived.
func (s *PredictionServer) PredictCalls() int {
	return int(s.predictCalls.Load())
}

// ImportanceCalls reports how many /feature_importance requests arrived.
func (s *PredictionServer) ImportanceCalls() int {
	return int(s.importanceCalls.Load())
}

// Started receives once per /predict request after it has been counted.
func (s *PredictionServer) Started() <-chan struct{} {
	return s.started
}

// Bodies returns the raw /predict request bodies received so far.
func (s *PredictionServer) Bodies() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.bodies...)
}

// Headers returns the /predict request headers received so far.
func (s *PredictionServer) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

func (s *PredictionServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, `{"detail":"Method Not Allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	s.predictCalls.Add(1)

	s.mu.Lock()
	s.bodies = append(s.bodies, body)
	s.headers = append(s.headers, r.Header.Clone())
	reply := s.predict
	gate := s.Gate
	s.mu.Unlock()

	select {
	case s.started <- struct{}{}:
	default:
	}
	if gate != nil {
		<-gate
	}
	write(w, reply)
}

func write(w http.ResponseWriter, reply Reply) {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply.Body)
}
