package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/katalvlaran/knapsack/config"
	"github.com/katalvlaran/knapsack/instance"
	"github.com/katalvlaran/knapsack/knapsack"
)

const scenarioOneJSON = `{"capacity": 9, "items": [
	{"name": "tent", "value": 5, "weight": 4},
	{"name": "stove", "value": 6, "weight": 5},
	{"value": 3, "weight": 2}]}`

const scenarioTwoJSON = `{"capacity": 5, "items": [
	{"value": 1, "weight": 2},
	{"value": 1, "weight": 3},
	{"value": 2, "weight": 5},
	{"value": 3, "weight": 1}], "node_limit": 1}`

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeSolve(rec *httptest.ResponseRecorder) SolveResponse {
	var resp SolveResponse
	ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())

	return resp
}

var _ = Describe("Server", func() {
	var (
		cfg config.Config
		h   http.Handler
	)

	BeforeEach(func() {
		cfg = config.Default()
	})

	JustBeforeEach(func() {
		srv, err := New(cfg, logr.Discard(), nil)
		Expect(err).NotTo(HaveOccurred())
		h = srv.Handler()
	})

	Context("health", func() {
		It("reports healthy on GET", func() {
			rec := do(h, http.MethodGet, "/healthz", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON(`{"status":"healthy"}`))
		})

		It("rejects other methods", func() {
			Expect(do(h, http.MethodPost, "/healthz", "").Code).To(Equal(http.StatusMethodNotAllowed))
		})
	})

	Context("solve", func() {
		It("returns the optimum with item names", func() {
			rec := do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("X-Cache")).To(Equal("MISS"))

			resp := decodeSolve(rec)
			Expect(resp.Value).To(Equal(int64(11)))
			Expect(resp.Contained).To(Equal([]bool{true, true, false}))
			Expect(resp.Selected).To(Equal([]string{"tent", "stove"}))
			Expect(resp.TotalWeight).To(Equal(int64(9)))
			Expect(resp.Optimal).To(BeTrue())
			Expect(resp.Algo).To(Equal("branch-and-bound"))
			Expect(resp.Stats.Expanded).To(BeNumerically(">", 0))
		})

		It("serves a repeated request from the cache", func() {
			Expect(do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON).Header().Get("X-Cache")).To(Equal("MISS"))

			rec := do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("X-Cache")).To(Equal("HIT"))
			Expect(decodeSolve(rec).Value).To(Equal(int64(11)))
		})

		It("keys the cache on the normalized algorithm", func() {
			withDP := strings.Replace(scenarioOneJSON, `"capacity": 9`, `"capacity": 9, "algo": "dp"`, 1)
			withDynamic := strings.Replace(scenarioOneJSON, `"capacity": 9`, `"capacity": 9, "algo": "Dynamic"`, 1)

			rec := do(h, http.MethodPost, "/api/v1/solve", withDP)
			Expect(rec.Header().Get("X-Cache")).To(Equal("MISS"))
			resp := decodeSolve(rec)
			Expect(resp.Algo).To(Equal("dynamic"))
			Expect(resp.Value).To(Equal(int64(11)))
			Expect(resp.Stats.CachePoints).To(BeNumerically(">", 0))

			Expect(do(h, http.MethodPost, "/api/v1/solve", withDynamic).Header().Get("X-Cache")).To(Equal("HIT"))
			Expect(do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON).Header().Get("X-Cache")).To(Equal("MISS"))
		})

		It("returns the incumbent when the node budget runs out and does not cache it", func() {
			rec := do(h, http.MethodPost, "/api/v1/solve", scenarioTwoJSON)
			Expect(rec.Code).To(Equal(http.StatusOK))
			resp := decodeSolve(rec)
			Expect(resp.Optimal).To(BeFalse())
			Expect(resp.Value).To(Equal(int64(3)))
			Expect(resp.Contained).To(Equal([]bool{false, false, false, true}))
			Expect(resp.Selected).To(Equal([]string{"item-3"}))

			Expect(do(h, http.MethodPost, "/api/v1/solve", scenarioTwoJSON).Header().Get("X-Cache")).To(Equal("MISS"))
		})

		DescribeTable("rejects bad requests",
			func(body string) {
				rec := do(h, http.MethodPost, "/api/v1/solve", body)
				Expect(rec.Code).To(Equal(http.StatusBadRequest))

				var e ErrorResponse
				Expect(json.Unmarshal(rec.Body.Bytes(), &e)).To(Succeed())
				Expect(e.Message).NotTo(BeEmpty())
			},
			Entry("malformed JSON", `{"capacity": `),
			Entry("unknown field", `{"capacity": 1, "items": [], "colour": "red"}`),
			Entry("negative weight", `{"capacity": 1, "items": [{"value": 1, "weight": -1}]}`),
			Entry("negative capacity", `{"capacity": -1, "items": []}`),
			Entry("unknown algorithm", `{"capacity": 1, "items": [], "algo": "greedy"}`),
			Entry("bad time limit", `{"capacity": 1, "items": [], "time_limit": "soon"}`),
			Entry("negative node limit", `{"capacity": 1, "items": [], "node_limit": -2}`),
		)

		It("answers 503 when the dynamic solver runs out of time on a huge capacity", func() {
			body := `{"capacity": 3000000000, "items": [{"value": 1, "weight": 1}], "algo": "dynamic", "time_limit": "20ms"}`
			start := time.Now()
			rec := do(h, http.MethodPost, "/api/v1/solve", body)
			Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
		})

		It("rejects GET", func() {
			Expect(do(h, http.MethodGet, "/api/v1/solve", "").Code).To(Equal(http.StatusMethodNotAllowed))
		})

		It("solves an empty instance", func() {
			rec := do(h, http.MethodPost, "/api/v1/solve", `{"capacity": 0, "items": []}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			resp := decodeSolve(rec)
			Expect(resp.Value).To(BeZero())
			Expect(resp.Selected).To(BeEmpty())
			Expect(resp.Optimal).To(BeTrue())
		})
	})

	Context("with a small body limit", func() {
		BeforeEach(func() {
			cfg.Server.MaxBodyBytes = 32
		})

		It("answers 413", func() {
			rec := do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON)
			Expect(rec.Code).To(Equal(http.StatusRequestEntityTooLarge))
		})
	})

	Context("with the cache disabled", func() {
		BeforeEach(func() {
			cfg.Server.CacheSize = 0
		})

		It("never hits", func() {
			do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON)
			Expect(do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON).Header().Get("X-Cache")).To(Equal("MISS"))
		})
	})

	Context("metrics", func() {
		It("exposes solve and cache counters", func() {
			do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON)
			do(h, http.MethodPost, "/api/v1/solve", scenarioOneJSON)

			rec := do(h, http.MethodGet, "/metrics", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			body, err := io.ReadAll(rec.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`knapsack_solves_total{algo="branch-and-bound",outcome="optimal"} 1`))
			Expect(string(body)).To(ContainSubstring(`knapsack_response_cache_total{result="hit"} 1`))
			Expect(string(body)).To(ContainSubstring(`knapsack_response_cache_total{result="miss"} 1`))
		})
	})
})

var _ = Describe("responseCache", func() {
	var (
		c   *responseCache
		now time.Time
	)

	BeforeEach(func() {
		now = time.Unix(1_700_000_000, 0)
		c = newResponseCache(2, time.Minute)
		c.now = func() time.Time { return now }
	})

	It("evicts the oldest key once full", func() {
		c.put("a", &SolveResponse{Value: 1})
		c.put("b", &SolveResponse{Value: 2})
		c.put("a", &SolveResponse{Value: 10})
		c.put("c", &SolveResponse{Value: 3})

		_, ok := c.get("a")
		Expect(ok).To(BeFalse())
		got, ok := c.get("b")
		Expect(ok).To(BeTrue())
		Expect(got.Value).To(Equal(int64(2)))
		Expect(c.len()).To(Equal(2))
	})

	It("keeps a fixed key ring across many evictions", func() {
		for i := 0; i < 1000; i++ {
			c.put(strconv.Itoa(i), &SolveResponse{Value: int64(i)})
		}
		Expect(c.keys).To(HaveLen(2))
		Expect(c.len()).To(Equal(2))
		_, ok := c.get("997")
		Expect(ok).To(BeFalse())
		for _, k := range []string{"998", "999"} {
			_, ok := c.get(k)
			Expect(ok).To(BeTrue(), k)
		}
	})

	It("expires entries after the TTL", func() {
		c.put("a", &SolveResponse{Value: 1})
		now = now.Add(59 * time.Second)
		_, ok := c.get("a")
		Expect(ok).To(BeTrue())

		now = now.Add(2 * time.Second)
		_, ok = c.get("a")
		Expect(ok).To(BeFalse())
	})

	It("is a no-op when disabled", func() {
		off := newResponseCache(0, time.Minute)
		Expect(off).To(BeNil())
		off.put("a", &SolveResponse{})
		_, ok := off.get("a")
		Expect(ok).To(BeFalse())
		Expect(off.len()).To(BeZero())
	})
})

var _ = Describe("normalize", func() {
	base := knapsack.DefaultOptions()

	It("caps the time budget", func() {
		req := SolveRequest{Document: instance.Document{Capacity: 1}, TimeLimit: "1h"}
		_, opts, err := normalize(&req, base, time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.TimeLimit).To(Equal(time.Second))
		Expect(req.TimeLimit).To(Equal("1s"))
		Expect(req.Algo).To(Equal("branch-and-bound"))
	})

	It("keeps a smaller requested budget and node limit", func() {
		req := SolveRequest{TimeLimit: "250ms", NodeLimit: 7, Algo: "DP"}
		_, opts, err := normalize(&req, base, time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(opts.TimeLimit).To(Equal(250 * time.Millisecond))
		Expect(opts.NodeLimit).To(Equal(7))
		Expect(opts.Algo).To(Equal(knapsack.Dynamic))
	})

	It("rejects oversized instances", func() {
		req := SolveRequest{Document: instance.Document{Items: make([]instance.Item, MaxItems+1)}}
		_, _, err := normalize(&req, base, 0)
		Expect(err).To(MatchError(errTooManyItems))
	})
})
