//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripweave-ai/tripweave/internal/api/handlers"
	"github.com/tripweave-ai/tripweave/internal/cache"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/fanout"
	"github.com/tripweave-ai/tripweave/internal/jobs"
	"github.com/tripweave-ai/tripweave/internal/openai"
	"github.com/tripweave-ai/tripweave/internal/pipeline"
	"github.com/tripweave-ai/tripweave/internal/providers"
	"github.com/tripweave-ai/tripweave/internal/repository"
	"github.com/tripweave-ai/tripweave/internal/retrieval"
	"github.com/tripweave-ai/tripweave/internal/scoring"
	"github.com/tripweave-ai/tripweave/internal/server"
	"github.com/tripweave-ai/tripweave/internal/service"
	"github.com/tripweave-ai/tripweave/internal/storage"
	"github.com/tripweave-ai/tripweave/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	RustFSC      *testutil.RustFSContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	S3Client     *storage.S3Client
	IndexWorker  *jobs.Worker
	BinaryDir    string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with containers and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	s3C := testutil.NewRustFSContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        s3C.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "test-documents",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}

	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser, worker := startServer(t, pool, s3Client, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		RustFSC:      s3C,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		S3Client:     s3Client,
		IndexWorker:  worker,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.IndexWorker != nil {
		e.IndexWorker.Stop()
	}
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the tripweave and tripweaved binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "tripweave-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "tripweaved"), "./cmd/tripweaved")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build tripweaved: %v\n%s", err, out)
	}

	cmd = exec.Command("go", "build", "-o", filepath.Join(tmpDir, "tripweave"), "./cmd/tripweave")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build tripweave: %v\n%s", err, out)
	}
}

// RunTripweave runs the tripweave CLI command against the test server
func (e *E2ETestEnv) RunTripweave(workDir string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "tripweave"), args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("TRIPWEAVE_API_URL=%s", e.ServerURL),
		// Keep the global config inside the test sandbox.
		fmt.Sprintf("HOME=%s", workDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", filepath.Join(workDir, ".config")),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("POST", path, body)
}

// Put performs a PUT request
func (e *E2ETestEnv) Put(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("PUT", path, body)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return parseAPIResponse(resp)
}

// UploadDocument posts a multipart document upload
func (e *E2ETestEnv) UploadDocument(filename, scope string, content []byte) (*APIResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if scope != "" {
		if err := writer.WriteField("scope", scope); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", e.ServerURL+"/documents", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return parseAPIResponse(resp)
}

func parseAPIResponse(resp *http.Response) (*APIResponse, error) {
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// SHA256Sum calculates SHA256 hash of data
func SHA256Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// fakeFlightProvider serves canned offers so plan runs exercise the full
// pipeline without external search credentials.
type fakeFlightProvider struct{}

func (p *fakeFlightProvider) FindFlights(ctx context.Context, criteria providers.SearchCriteria) ([]domain.FlightOffer, error) {
	return []domain.FlightOffer{
		{ID: "fl-1", Airline: "TestAir", FlightNo: "TA100", Origin: criteria.Origin, Destination: criteria.Destination, Price: 420, Currency: "USD", Provider: "fake"},
		{ID: "fl-2", Airline: "TestAir", FlightNo: "TA200", Origin: criteria.Origin, Destination: criteria.Destination, Price: 610, Currency: "USD", Provider: "fake"},
	}, nil
}

type fakeHotelProvider struct{}

func (p *fakeHotelProvider) FindHotels(ctx context.Context, criteria providers.SearchCriteria) ([]domain.HotelOffer, error) {
	return []domain.HotelOffer{
		{ID: "h-1", Name: "Harbor View", City: criteria.Destination, Stars: 4.5, ReviewCount: 900, PricePerNight: 150, Currency: "USD", Provider: "fake"},
		{ID: "h-2", Name: "Budget Stay", City: criteria.Destination, Stars: 3.1, ReviewCount: 200, PricePerNight: 70, Currency: "USD", Provider: "fake"},
	}, nil
}

// startServer starts the HTTP server with all handlers and a background
// index worker, mirroring the serve command wiring.
func startServer(t *testing.T, pool *pgxpool.Pool, s3Client *storage.S3Client, port int) (string, func(), *jobs.Worker) {
	kv := cache.NewMemoryCache()
	embedder := retrieval.NewLocalEmbedder(openai.DefaultEmbeddingDimensions)

	chunkStore := repository.NewChunkStore(pool)
	sources := repository.NewSources(pool)
	txRunner := repository.NewTxRunner(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	tripPlanRepo := repository.NewTripPlanRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	indexJobRepo := repository.NewIndexJobRepository(pool)

	indexer := retrieval.NewIndexer(sources, chunkStore, embedder, kv)
	retriever := retrieval.NewRetriever(chunkStore, embedder, indexer)
	ingester := retrieval.NewDocumentIngester(chunkStore, embedder, s3Client)

	registry := providers.Registry{
		Flights: &fakeFlightProvider{},
		Hotels:  &fakeHotelProvider{},
	}
	coordinator := fanout.NewCoordinator(registry, kv)
	plannerPipeline := pipeline.New(coordinator,
		scoring.NewGoalEvaluator(scoring.DefaultPenaltyFactor),
		scoring.NewUtilityEvaluator(), retriever)

	plannerSvc := service.NewPlannerService(registry, plannerPipeline, coordinator,
		scoring.NewUtilityEvaluator(), retriever, indexer)
	bookingSvc := service.NewBookingService(txRunner, bookingRepo)
	tripPlanSvc := service.NewTripPlanService(txRunner, tripPlanRepo)
	historySvc := service.NewHistoryService(txRunner, profileRepo)
	documentSvc := service.NewDocumentService(txRunner, documentRepo, s3Client, ingester)

	indexProcessor := jobs.NewIndexWorker(indexJobRepo, indexer, ingester, documentRepo)
	worker := jobs.NewWorker(indexProcessor, 250*time.Millisecond)
	go worker.Start(context.Background())

	cfg := server.RouterConfig{
		PlanHandler:     handlers.NewPlanHandler(plannerSvc),
		BookingHandler:  handlers.NewBookingHandler(bookingSvc),
		TripPlanHandler: handlers.NewTripPlanHandler(tripPlanSvc),
		HistoryHandler:  handlers.NewHistoryHandler(historySvc),
		DocumentHandler: handlers.NewDocumentHandler(documentSvc),
	}

	router := server.NewRouter(cfg)
	addr := fmt.Sprintf(":%d", port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, worker
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("server did not become ready in time")
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
