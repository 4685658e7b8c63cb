package pipeline_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/myrmex-org/myrmex/pkg/events"
	"github.com/myrmex-org/myrmex/pkg/pipeline"
	"github.com/stretchr/testify/require"
)

func loadRole(ctx context.Context, e pipeline.Entry) (string, error) {
	if e.Dir || filepath.Ext(e.Name) == ".txt" {
		return "", pipeline.ErrArtifactNotFound
	}
	return strings.TrimSuffix(e.Name, filepath.Ext(e.Name)), nil
}

func identity(s string) string { return s }

func TestCollectionLoad(t *testing.T) {
	bus := events.NewBus()

	c := pipeline.NewCollection[string]("Roles")
	require.Equal(t, pipeline.NotLoaded, c.State())

	items, err := c.Load(context.Background(), bus, "testdata/roles", loadRole)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, items)
	require.Equal(t, pipeline.Loaded, c.State())
}

func TestCollectionLoadHooks(t *testing.T) {
	bus := events.NewBus()

	c := pipeline.NewCollection[string]("Roles")

	events.On(bus, c.BeforeLoadEvent(), func(ctx context.Context, dir string) (string, error) {
		require.Equal(t, "elsewhere", dir)
		return "testdata/roles", nil
	})

	events.On(bus, c.AfterLoadEvent(), func(ctx context.Context, items []string) ([]string, error) {
		return append(items, "gamma"), nil
	})

	items, err := c.Load(context.Background(), bus, "elsewhere", loadRole)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, items)
	require.Equal(t, items, c.Items)
}

func TestCollectionLoadMissing(t *testing.T) {
	c := pipeline.NewCollection[string]("Roles")

	items, err := c.Load(context.Background(), events.NewBus(), "testdata/missing", loadRole)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCollectionLoadError(t *testing.T) {
	c := pipeline.NewCollection[string]("Roles")

	_, err := c.Load(context.Background(), events.NewBus(), "testdata/roles", func(ctx context.Context, e pipeline.Entry) (string, error) {
		return "", fmt.Errorf("bad document")
	})
	require.EqualError(t, err, "could not load testdata/roles/alpha.json: bad document")
	require.Equal(t, pipeline.Failed, c.State())
}

func TestCollectionAssemble(t *testing.T) {
	c := pipeline.NewCollection[string]("Apis")
	c.Items = []string{"a"}

	require.NoError(t, c.Assemble(func(items []string) error { return nil }))
	require.Equal(t, pipeline.Assembled, c.State())

	require.Error(t, c.Assemble(func(items []string) error { return fmt.Errorf("err") }))
	require.Equal(t, pipeline.Failed, c.State())
}

func TestDeployKeepsOrder(t *testing.T) {
	c := pipeline.NewCollection[int]("Lambdas")

	var running, peak int32

	rs := c.Deploy(context.Background(), []int{1, 2, 3, 4, 5, 6}, 3, strconv.Itoa, func(ctx context.Context, i int) pipeline.Report {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Duration(7-i) * time.Millisecond)
		atomic.AddInt32(&running, -1)

		return pipeline.Report{Name: fmt.Sprintf("fn-%d", i), Operation: pipeline.OperationCreation}
	})

	require.Len(t, rs, 6)
	for i, r := range rs {
		require.Equal(t, fmt.Sprintf("fn-%d", i+1), r.Name)
	}
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	require.False(t, rs.Failed())
	require.Equal(t, pipeline.Deployed, c.State())
}

func TestDeployFailureDoesNotCancel(t *testing.T) {
	c := pipeline.NewCollection[string]("Roles")

	rs := c.Deploy(context.Background(), []string{"a", "b", "c"}, 0, identity, func(ctx context.Context, s string) pipeline.Report {
		if s == "b" {
			return pipeline.Report{Name: s, Error: fmt.Errorf("AccessDenied")}
		}
		return pipeline.Report{Name: s, Operation: pipeline.OperationUpToDate}
	})

	require.True(t, rs.Failed())
	require.Equal(t, 1, rs.Failures())
	require.True(t, rs[1].Failed)
	require.Equal(t, pipeline.OperationUpToDate, rs[2].Operation)
	require.Equal(t, pipeline.Failed, c.State())
}

func TestDeployCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	rs := pipeline.Deploy(ctx, []string{"a", "b", "c"}, 1, identity, func(ctx context.Context, s string) pipeline.Report {
		if s == "a" {
			cancel()
		}
		return pipeline.Report{Name: s, Operation: pipeline.OperationCreation}
	})

	require.Equal(t, 2, rs.Failures())
	require.False(t, rs[0].Failed)
	require.Equal(t, "b", rs[1].Name)
	require.Equal(t, "c", rs[2].Name)
	require.Equal(t, context.Canceled, rs[2].Error)
}

func TestBuildName(t *testing.T) {
	require.Equal(t, "DEV_api_v1", pipeline.BuildName("api", "DEV", "v1"))
	require.Equal(t, "api_v1", pipeline.BuildName("api", "", "v1"))
	require.Equal(t, "DEV_api", pipeline.BuildName("api", "DEV", ""))
	require.Equal(t, "api", pipeline.BuildName("api", "", ""))

	ctx := pipeline.Context{Environment: "QA", Stage: "v2"}
	require.Equal(t, "QA_planet-express_v2", ctx.Name("planet-express"))
}

func TestFilter(t *testing.T) {
	f, err := pipeline.NewFilter(nil)
	require.NoError(t, err)
	require.True(t, f.Match("anything"))

	f, err = pipeline.NewFilter([]string{"api-*", "lambda"})
	require.NoError(t, err)
	require.True(t, f.Match("api-delivery"))
	require.True(t, f.Match("lambda"))
	require.False(t, f.Match("other"))

	require.Equal(t, []string{"api-a", "lambda"}, pipeline.Select(f, []string{"api-a", "lambda", "x"}, func(s string) string { return s }))

	_, err = pipeline.NewFilter([]string{"[a"})
	require.Error(t, err)
}

func TestEquivalent(t *testing.T) {
	doc := map[string]interface{}{
		"Version":   "2012-10-17",
		"Statement": []interface{}{map[string]interface{}{"Effect": "Allow", "Action": "s3:*"}},
	}

	eq, err := pipeline.Equivalent(doc, `{"Statement":[{"Action":"s3:*","Effect":"Allow"}],"Version":"2012-10-17"}`)
	require.NoError(t, err)
	require.True(t, eq)

	eq, err = pipeline.Equivalent(doc, `{"Statement":[],"Version":"2012-10-17"}`)
	require.NoError(t, err)
	require.False(t, eq)

	_, err = pipeline.Equivalent(doc, "{")
	require.Error(t, err)

	data, err := pipeline.Canonical(doc)
	require.NoError(t, err)
	require.Equal(t, `{"Statement":[{"Action":"s3:*","Effect":"Allow"}],"Version":"2012-10-17"}`, string(data))
}
