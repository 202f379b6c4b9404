package installer

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/config"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/model"
)

// fakeClient serves canned responses or errors per call, counting attempts.
type fakeClient struct {
	attempts int32
	handler  func(attempt int32) (*http.Response, error)
}

func (f *fakeClient) Do(req *http.Request) (*http.Response, error) {
	n := atomic.AddInt32(&f.attempts, 1)
	return f.handler(n)
}

func okResponse(body string) *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}
}

func statusResponse(code int) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(""))}
}

func fastInstallerConfig() config.InstallerConfig {
	return config.InstallerConfig{
		Concurrency:      5,
		RetryBase:        1 * time.Millisecond,
		RetryFactor:      2,
		RetryMaxAttempts: 3,
		TotalTimeout:     5 * time.Second,
		AttemptTimeout:   2 * time.Second,
	}
}

func testResource(id, installPath, url string) *model.Resource {
	return &model.Resource{
		ID:          id,
		Type:        model.KindAgent,
		Name:        id,
		Description: "test fixture",
		Source:      model.Source{URL: url},
		InstallPath: installPath,
	}
}

func singleLevelPlan(r *model.Resource) *model.InstallPlan {
	return &model.InstallPlan{
		Target:    r,
		ToInstall: [][]*model.Resource{{r}},
		Missing:   map[string]model.DependencyRef{},
	}
}

func TestAtomicWriteProducesCompleteFileNoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "agents", "a.md")
	require.NoError(t, atomicWrite(final, []byte("hello world")))

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	_, err = os.Stat(final + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be removed after a successful rename")
}

func TestInstallRetriesOn5xxThenSucceeds(t *testing.T) {
	defer goleak.VerifyNone(t)

	client := &fakeClient{handler: func(n int32) (*http.Response, error) {
		if n < 3 {
			return statusResponse(http.StatusServiceUnavailable), nil
		}
		return okResponse("payload"), nil
	}}

	dir := t.TempDir()
	in := New(dir, fastInstallerConfig(), client, nil)
	r := testResource("flaky", "agents/flaky.md", "https://example.com/flaky.md")
	plan := singleLevelPlan(r)

	results, err := in.Install(context.Background(), plan, Options{Parallel: true}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.EqualValues(t, 3, client.attempts, "expected exactly 3 attempts before success")

	data, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestInstallStopsRetryingOn404(t *testing.T) {
	client := &fakeClient{handler: func(n int32) (*http.Response, error) {
		return statusResponse(http.StatusNotFound), nil
	}}

	dir := t.TempDir()
	in := New(dir, fastInstallerConfig(), client, nil)
	r := testResource("missing", "agents/missing.md", "https://example.com/missing.md")
	plan := singleLevelPlan(r)

	results, err := in.Install(context.Background(), plan, Options{}, nil)
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.EqualValues(t, 1, client.attempts, "404 must be terminal, not retried")
	var crmErr *crmerr.Error
	require.ErrorAs(t, err, &crmErr)
	assert.Equal(t, crmerr.KindNetwork, crmErr.Kind)
}

func TestInstallExhaustsRetriesOn429(t *testing.T) {
	client := &fakeClient{handler: func(n int32) (*http.Response, error) {
		return statusResponse(http.StatusTooManyRequests), nil
	}}

	dir := t.TempDir()
	in := New(dir, fastInstallerConfig(), client, nil)
	r := testResource("ratelimited", "agents/ratelimited.md", "https://example.com/ratelimited.md")
	plan := singleLevelPlan(r)

	_, err := in.Install(context.Background(), plan, Options{}, nil)
	require.Error(t, err)
	assert.EqualValues(t, 3, client.attempts, "expected all 3 attempts exhausted on a persistent 429")
}

func TestInstallSkipsExistingFileWithoutForce(t *testing.T) {
	client := &fakeClient{handler: func(n int32) (*http.Response, error) {
		t.Fatal("fetch should not be called for an already-installed resource")
		return nil, nil
	}}

	dir := t.TempDir()
	r := testResource("already-here", "agents/already-here.md", "https://example.com/already-here.md")
	path, err := resolvePath(dir, r.InstallPath)
	require.NoError(t, err)
	require.NoError(t, atomicWrite(path, []byte("existing")))

	in := New(dir, fastInstallerConfig(), client, nil)
	results, err := in.Install(context.Background(), singleLevelPlan(r), Options{}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
}

func TestInstallRejectsPathEscapingRoot(t *testing.T) {
	dir := t.TempDir()
	client := &fakeClient{handler: func(n int32) (*http.Response, error) { return okResponse("x"), nil }}
	in := New(dir, fastInstallerConfig(), client, nil)
	r := testResource("escape", "../../etc/passwd", "https://example.com/escape.md")

	results, err := in.Install(context.Background(), singleLevelPlan(r), Options{}, nil)
	require.Error(t, err)
	require.Len(t, results, 1)
	var crmErr *crmerr.Error
	require.ErrorAs(t, err, &crmErr)
	assert.Equal(t, crmerr.KindPathSecurity, crmErr.Kind)
}

func TestInstallRejectsPathEqualToRoot(t *testing.T) {
	dir := t.TempDir()
	_, err := resolvePath(dir, ".")
	require.Error(t, err)
	var crmErr *crmerr.Error
	require.ErrorAs(t, err, &crmErr)
	assert.Equal(t, crmerr.KindPathSecurity, crmErr.Kind)
}

func TestInstallRejectsSymlinkedIntermediateComponent(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real-agents")
	require.NoError(t, os.MkdirAll(real, 0o755))
	link := filepath.Join(dir, "agents")
	require.NoError(t, os.Symlink(real, link))

	_, err := resolvePath(dir, filepath.Join("agents", "a.md"))
	require.Error(t, err)
	var crmErr *crmerr.Error
	require.ErrorAs(t, err, &crmErr)
	assert.Equal(t, crmerr.KindPathSecurity, crmErr.Kind)
}

func TestInstallLevelBarrierCommitsOnlyAfterWholeLevelFetched(t *testing.T) {
	defer goleak.VerifyNone(t)

	var inFlight, maxInFlight, fetchesDone int32
	client := &fakeClient{handler: func(n int32) (*http.Response, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			old := atomic.LoadInt32(&maxInFlight)
			if cur <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&fetchesDone, 1)
		return okResponse("data"), nil
	}}

	dir := t.TempDir()
	in := New(dir, fastInstallerConfig(), client, nil)
	level := []*model.Resource{
		testResource("one", "agents/one.md", "https://example.com/one.md"),
		testResource("two", "agents/two.md", "https://example.com/two.md"),
		testResource("three", "agents/three.md", "https://example.com/three.md"),
	}
	plan := &model.InstallPlan{Target: level[0], ToInstall: [][]*model.Resource{level}, Missing: map[string]model.DependencyRef{}}

	var earlyWrites int32
	progress := func(ev ProgressEvent) {
		if ev.Phase == PhaseWriting && atomic.LoadInt32(&fetchesDone) != int32(len(level)) {
			atomic.AddInt32(&earlyWrites, 1)
		}
	}

	results, err := in.Install(context.Background(), plan, Options{Parallel: true}, progress)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Greater(t, atomic.LoadInt32(&maxInFlight), int32(1), "expected fetches within a level to run concurrently")
	assert.Zero(t, atomic.LoadInt32(&earlyWrites), "no file in the level may be written before every fetch in it has finished")
}

func TestInstallRecordsAuditLogEntryOnSuccess(t *testing.T) {
	client := &fakeClient{handler: func(n int32) (*http.Response, error) { return okResponse("payload"), nil }}
	dir := t.TempDir()
	in := New(dir, fastInstallerConfig(), client, nil)
	r := testResource("audited", "agents/audited.md", "https://example.com/audited.md")

	_, err := in.Install(context.Background(), singleLevelPlan(r), Options{}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".install-history"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"audited"`)
}
