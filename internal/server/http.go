package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/prattcalc/internal/expression"
	"github.com/karupanerura/prattcalc/internal/types"
)

const basePath = "/v1/evaluations"

const (
	succeededState = "SUCCEEDED"
	failedState    = "FAILED"
)

type evaluation struct {
	mu sync.RWMutex

	Name       string             `json:"name"`
	Expression string             `json:"expression"`
	CreateTime time.Time          `json:"createTime"`
	State      string             `json:"state"`
	Tokens     []expression.Token `json:"tokens,omitempty"`
	Tree       string             `json:"tree,omitempty"`
	Result     *int64             `json:"result,omitempty"`
	Error      any                `json:"error,omitempty"`
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
	now         func() time.Time
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == basePath {
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
			return

		case http.MethodPost:
			h.createEvaluation(w, r)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
	}

	if !strings.HasPrefix(r.URL.Path, basePath+"/") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	evaluationID := strings.TrimPrefix(r.URL.Path, basePath+"/")
	if evaluationID == "" || strings.ContainsRune(evaluationID, '/') {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getEvaluation(w, r, evaluationID)
		return

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
}

type createEvaluationRequest struct {
	Expression *string `json:"expression"`
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req createEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.Expression == nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id := fmt.Sprintf("%012x", atomic.AddUint64(&h.idBase, 1))
	ev := &evaluation{
		Name:       basePath + "/" + id,
		Expression: *req.Expression,
		CreateTime: h.now().UTC(),
	}
	h.evaluate(ev)
	h.evaluations.Store(id, ev)

	ev.mu.RLock()
	defer ev.mu.RUnlock()
	if ev.State == failedState {
		if err := resJSON(w, http.StatusUnprocessableEntity, ev); err != nil {
			log.Printf("failed to write response: %v", err)
		}
		return
	}
	if err := resJSON(w, http.StatusOK, ev); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) evaluate(ev *evaluation) {
	ret, err := expression.Run(ev.Expression)

	ev.mu.Lock()
	defer ev.mu.Unlock()
	if err == nil {
		ev.State = succeededState
		ev.Tokens = ret.Tokens
		ev.Tree = ret.Tree
		ev.Result = &ret.Value
		return
	}

	ev.State = failedState
	var exception types.Exception
	if errors.As(err, &exception) {
		ev.Error = exception.Exception()
	} else {
		log.Printf("failed to evaluate expression: %v", err)
		ev.Error = map[string]any{"message": err.Error()}
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	for _, ev := range results {
		ev.mu.RLock()
	}
	defer func() {
		for _, ev := range results {
			ev.mu.RUnlock()
		}
	}()
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreateTime.Equal(results[j].CreateTime) {
			return results[i].Name < results[j].Name
		}
		return results[i].CreateTime.Before(results[j].CreateTime)
	})

	if err := resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results}); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ev := ret.(*evaluation)

	ev.mu.RLock()
	defer ev.mu.RUnlock()
	if err := resJSON(w, http.StatusOK, ev); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{now: time.Now}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
