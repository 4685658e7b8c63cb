package cors_test

import (
	"context"
	"testing"

	"github.com/myrmex-org/myrmex/pkg/config"
	"github.com/myrmex-org/myrmex/pkg/myrmex"
	"github.com/myrmex-org/myrmex/pkg/plugins/apigateway"
	"github.com/myrmex-org/myrmex/pkg/plugins/cors"
	"github.com/stretchr/testify/require"
)

func testShop(t *testing.T, project config.Tree) *apigateway.Api {
	m := myrmex.New(nil)

	_, err := m.Init(context.Background(), &config.Project{Root: "testdata/project", Config: project})
	require.NoError(t, err)

	ag := apigateway.New(nil)

	require.NoError(t, m.RegisterPlugin(ag.Plugin()))
	require.NoError(t, m.RegisterPlugin(cors.New().Plugin()))

	apis, err := ag.Apis(context.Background())
	require.NoError(t, err)
	require.NoError(t, ag.Assemble(context.Background(), apis))
	require.Len(t, apis.Items, 1)

	return apis.Items[0]
}

func TestOptionsEndpoint(t *testing.T) {
	api := testShop(t, nil)

	require.Len(t, api.Endpoints, 5)

	options := api.Endpoint("/items", "OPTIONS")
	require.NotNil(t, options)

	spec := config.Tree(options.Spec)
	require.Equal(t, "mock", spec.Get("x-amazon-apigateway-integration.type"))

	params := spec.Map("x-amazon-apigateway-integration.responses.default.responseParameters")
	require.Equal(t, map[string]interface{}{
		"method.response.header.Access-Control-Allow-Methods": "'GET,POST,OPTIONS'",
		"method.response.header.Access-Control-Allow-Headers": "'Content-Type'",
		"method.response.header.Access-Control-Allow-Origin":  "'https://shop.example.com'",
	}, params)

	require.Equal(t, map[string]interface{}{"type": "string"}, spec.Get("responses.200.headers.Access-Control-Allow-Origin"))
}

func TestExistingOptionsEndpointIsKept(t *testing.T) {
	api := testShop(t, nil)

	options := api.Endpoint("/items/{id}", "OPTIONS")
	require.NotNil(t, options)
	require.Nil(t, options.Spec["responses"])

	require.Nil(t, config.Tree(api.Endpoint("/items/{id}", "GET").Spec).Get("responses.200.headers"))
}

func TestAllowOriginOnMethods(t *testing.T) {
	api := testShop(t, nil)

	get := config.Tree(api.Endpoint("/items", "GET").Spec)
	require.Equal(t, map[string]interface{}{"type": "string"}, get.Get("responses.200.headers.Access-Control-Allow-Origin"))
	require.Equal(t, "'https://shop.example.com'", get.Map("x-amazon-apigateway-integration.responses.default.responseParameters")["method.response.header.Access-Control-Allow-Origin"])

	post := config.Tree(api.Endpoint("/items", "POST").Spec)
	require.NotNil(t, post.Get("responses.201.headers.Location"))
	require.NotNil(t, post.Get("responses.201.headers.Access-Control-Allow-Origin"))
	require.Equal(t, "'https://admin.example.com'", post.Map("x-amazon-apigateway-integration.responses.default.responseParameters")["method.response.header.Access-Control-Allow-Origin"])
}

func TestProjectConfiguration(t *testing.T) {
	api := testShop(t, config.Tree{
		"cors": map[string]interface{}{
			"Access-Control-Allow-Headers": "Authorization",
			"Access-Control-Max-Age":       "300",
		},
	})

	spec := config.Tree(api.Endpoint("/items", "OPTIONS").Spec)

	params := spec.Map("x-amazon-apigateway-integration.responses.default.responseParameters")
	require.Equal(t, "'Content-Type'", params["method.response.header.Access-Control-Allow-Headers"])
	require.Equal(t, "'300'", params["method.response.header.Access-Control-Max-Age"])
	require.NotNil(t, spec.Get("responses.200.headers.Access-Control-Max-Age"))
}
