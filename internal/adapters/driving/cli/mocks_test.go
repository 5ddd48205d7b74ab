package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/custodia-labs/pagechat/internal/core/domain"
	"github.com/custodia-labs/pagechat/internal/core/ports/driving"
)

// mockFactory implements Factory for testing.
type mockFactory struct {
	settings    driving.SettingsService
	settingsErr error
	pipeline    *Pipeline
	pipelineErr error
	home        string
}

func (f *mockFactory) Settings(home string) (driving.SettingsService, error) {
	f.home = home
	return f.settings, f.settingsErr
}

func (f *mockFactory) Pipeline(_ context.Context, home string) (*Pipeline, error) {
	f.home = home
	return f.pipeline, f.pipelineErr
}

// mockLoader implements driving.LoaderService for testing.
type mockLoader struct {
	report *domain.LoadReport
	err    error
	urls   []string
}

func (m *mockLoader) Load(_ context.Context, urls []string) (*domain.LoadReport, error) {
	m.urls = urls
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// mockIndex implements driving.IndexService for testing.
type mockIndex struct {
	stats   *domain.IndexStats
	err     error
	sources []domain.IndexedSource
	ensured int
	built   int
	docs    []domain.Document
}

func (m *mockIndex) Ensure(_ context.Context, docs []domain.Document) (*domain.IndexStats, error) {
	m.ensured++
	m.docs = docs
	return m.stats, m.err
}

func (m *mockIndex) Build(_ context.Context, docs []domain.Document) (*domain.IndexStats, error) {
	m.built++
	m.docs = docs
	return m.stats, m.err
}

func (m *mockIndex) Sources(_ context.Context) ([]domain.IndexedSource, error) {
	return m.sources, nil
}

// mockSession implements driving.SessionService for testing.
type mockSession struct {
	mu      sync.Mutex
	answers map[string]*domain.Answer
	errs    map[string]error
	asked   []string
}

func (m *mockSession) Ask(_ context.Context, input string) (*domain.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.asked = append(m.asked, input)
	if err, ok := m.errs[input]; ok {
		return nil, err
	}
	if a, ok := m.answers[input]; ok {
		return a, nil
	}
	return &domain.Answer{Text: "I don't know."}, nil
}

func (m *mockSession) Transcript() []domain.Message { return nil }

func (m *mockSession) Memory() domain.Memory { return nil }

func (m *mockSession) IsProcessing() bool { return false }

func (m *mockSession) Asked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.asked...)
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings     domain.AppSettings
	validateErr  error
	embeddingErr error
	llmErr       error
	saved        *domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.embeddingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.llmErr }

// Ensure mocks implement the interfaces.
var (
	_ Factory                 = (*mockFactory)(nil)
	_ driving.LoaderService   = (*mockLoader)(nil)
	_ driving.IndexService    = (*mockIndex)(nil)
	_ driving.SessionService  = (*mockSession)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

// newTestPipeline returns a pipeline over two loaded pages.
func newTestPipeline() (*Pipeline, *mockLoader, *mockIndex, *mockSession) {
	settings := domain.DefaultAppSettings()
	settings.Sources.URLs = []string{"https://example.edu/tuition", "https://example.edu/aid"}

	loader := &mockLoader{report: &domain.LoadReport{
		Documents: []domain.Document{
			{ID: "doc-1", URI: "https://example.edu/tuition", Title: "Tuition", Content: "Tuition is $138 per credit hour."},
		},
		Failures: []domain.PageFailure{
			{URL: "https://example.edu/aid", Err: domain.ErrFetchFailed},
		},
	}}
	index := &mockIndex{
		stats: &domain.IndexStats{Manifest: domain.IndexManifest{ChunkCount: 1}},
		sources: []domain.IndexedSource{
			{URL: "https://example.edu/tuition", Title: "Tuition", ChunkCount: 1},
		},
	}
	session := &mockSession{}

	return &Pipeline{
		Settings: &settings,
		Loader:   loader,
		Index:    index,
		Session:  session,
	}, loader, index, session
}

// executeCommand runs rootCmd with args against f, feeding in as stdin.
func executeCommand(t *testing.T, f Factory, in string, args ...string) (string, error) {
	t.Helper()

	SetFactory(f)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(in))
	rootCmd.SetArgs(append(args, "--env-file", ""))

	t.Cleanup(func() {
		SetFactory(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		plain = false
		rebuildIndex = false
		homeDir = ""
		verbose = false
		envFile = ".env"
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
