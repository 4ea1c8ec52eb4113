package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flyer-route-service/internal/adapters/graphsource"
	"flyer-route-service/internal/adapters/jobstore"
	"flyer-route-service/internal/api/dto"
	"flyer-route-service/internal/domain"
	"flyer-route-service/internal/services"
)

// newTestServer serves a 4x4 residential grid about 100 m per block
// around (40.0013, -74.9982).
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	const cols, rows = 4, 4
	id := func(r, c int) domain.NodeID { return domain.NodeID(r*cols + c + 1) }

	var nodes []domain.Node
	var edges []domain.Edge
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			nodes = append(nodes, domain.Node{
				ID:    id(r, c),
				Coord: domain.Coordinates{Lat: 40 + float64(r)*0.0009, Lon: -75 + float64(c)*0.00118},
			})
			if c+1 < cols {
				edges = append(edges, domain.Edge{From: id(r, c), To: id(r, c+1), LengthM: 100, Weight: 10, Name: fmt.Sprintf("Row %d", r), RoadClass: "residential"})
			}
			if r+1 < rows {
				edges = append(edges, domain.Edge{From: id(r, c), To: id(r+1, c), LengthM: 100, Weight: 10, Name: fmt.Sprintf("Col %d", c), RoadClass: "residential"})
			}
		}
	}

	graphs := graphsource.NewRepositorySource(graphsource.NewMemoryRoadNetwork(nodes, edges))
	srv := httptest.NewServer(NewRouter(graphs, jobstore.NewMemoryJobStore(), services.DefaultGenerateConfig()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, payload string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, body
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var e map[string]string
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return e["error"]
}

const circleRequest = `{
	"area": {"type": "circle", "center": {"lat": 40.0013, "lng": -74.9982}, "radius_m": 1000},
	"num_routes": 2,
	"total_flyers": 500
}`

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	res, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var h dto.HealthResponse
	if err := json.Unmarshal(body, &h); err != nil || h.Status != "ok" {
		t.Fatalf("health = %+v, %v", h, err)
	}
	if res.Header.Get(requestIDHeader) == "" {
		t.Fatalf("missing %s header", requestIDHeader)
	}

	res, _ = doJSON(t, http.MethodPost, srv.URL+"/api/health", "")
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("POST status = %d, want 405", res.StatusCode)
	}
}

func TestGenerateAndFetchJob(t *testing.T) {
	srv := newTestServer(t)

	res, body := doJSON(t, http.MethodPost, srv.URL+"/api/generate", circleRequest)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body=%s, want 200", res.StatusCode, body)
	}
	var job dto.JobResponse
	if err := json.Unmarshal(body, &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.TravelMode != "walking" || job.BalanceBy != "weight" {
		t.Fatalf("defaults = %s/%s, want walking/weight", job.TravelMode, job.BalanceBy)
	}
	if len(job.Routes) == 0 || len(job.Routes) > 2 {
		t.Fatalf("routes = %d, want 1..2", len(job.Routes))
	}

	flyers := 0
	for _, r := range job.Routes {
		flyers += r.AssignedFlyers
		if len(r.Waypoints) == 0 || len(r.TurnByTurn) == 0 {
			t.Fatalf("route %d has no walk: %+v", r.RouteID, r)
		}
	}
	if flyers != 500 {
		t.Fatalf("flyers = %d, want 500", flyers)
	}
	if job.Summary.TotalAddressesEstimated != 240 {
		t.Fatalf("addresses = %v, want 240", job.Summary.TotalAddressesEstimated)
	}

	res, body = doJSON(t, http.MethodGet, srv.URL+"/api/jobs/"+job.JobID, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get job status = %d, want 200", res.StatusCode)
	}
	var fetched dto.JobResponse
	if err := json.Unmarshal(body, &fetched); err != nil || fetched.JobID != job.JobID {
		t.Fatalf("fetched job = %s, %v; want %s", fetched.JobID, err, job.JobID)
	}

	res, body = doJSON(t, http.MethodGet, srv.URL+"/api/jobs/"+job.JobID+"/routes/1", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get route status = %d, want 200", res.StatusCode)
	}
	var route dto.RouteResponse
	if err := json.Unmarshal(body, &route); err != nil || route.RouteID != 1 {
		t.Fatalf("route = %+v, %v", route, err)
	}

	res, body = doJSON(t, http.MethodGet, srv.URL+"/api/jobs/"+job.JobID+"/routes/99", "")
	if res.StatusCode != http.StatusNotFound || errorMessage(t, body) != "Route not found" {
		t.Fatalf("missing route = %d %s, want 404", res.StatusCode, body)
	}

	res, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/jobs/"+job.JobID, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", res.StatusCode)
	}
	res, body = doJSON(t, http.MethodGet, srv.URL+"/api/jobs/"+job.JobID, "")
	if res.StatusCode != http.StatusNotFound || errorMessage(t, body) != "Job not found" {
		t.Fatalf("deleted job = %d %s, want 404", res.StatusCode, body)
	}
}

func TestGenerateValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad area type",
			body: `{"area": {"type": "square"}}`,
			want: "area.type must be 'circle' or 'polygon'",
		},
		{
			name: "too many routes",
			body: `{"area": {"type": "circle", "center": {"lat": 40, "lng": -75}, "radius_m": 500}, "num_routes": 21}`,
			want: "num_routes must be between 1 and 20",
		},
		{
			name: "zero routes",
			body: `{"area": {"type": "circle", "center": {"lat": 40, "lng": -75}, "radius_m": 500}, "num_routes": 0}`,
			want: "num_routes must be between 1 and 20",
		},
		{
			name: "unknown field",
			body: `{"area": {"type": "circle"}, "nope": 1}`,
			want: "invalid json body",
		},
		{
			name: "two objects",
			body: `{"area": {"type": "circle"}} {}`,
			want: "body must contain only one JSON object",
		},
		{
			name: "empty area",
			body: `{"area": {"type": "circle", "center": {"lat": 10, "lng": 10}, "radius_m": 500}}`,
			want: "No roads found in the specified area. Try a larger area.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := doJSON(t, http.MethodPost, srv.URL+"/api/generate", tc.body)
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d body=%s, want 400", res.StatusCode, body)
			}
			if got := errorMessage(t, body); got != tc.want {
				t.Fatalf("error = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestUnknownJob(t *testing.T) {
	srv := newTestServer(t)

	res, body := doJSON(t, http.MethodGet, srv.URL+"/api/jobs/job_missing", "")
	if res.StatusCode != http.StatusNotFound || errorMessage(t, body) != "Job not found" {
		t.Fatalf("get = %d %s, want 404", res.StatusCode, body)
	}
	res, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/jobs/job_missing", "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("delete = %d, want 404", res.StatusCode)
	}
}
