package cors

import (
	"fmt"
	"strings"

	"github.com/myrmex-org/myrmex/pkg/plugins/apigateway"
)

const headerParameter = "method.response.header."

// optionsSpec is the specification of a mock endpoint answering the
// preflight requests with the given headers
func optionsSpec(headers map[string]string) map[string]interface{} {
	responseHeaders := map[string]interface{}{}
	parameters := map[string]interface{}{}

	for k, v := range headers {
		if k == AllowMethods {
			v = strings.Join(withoutAny(splitMethods(v)), ",")
		}

		responseHeaders[k] = map[string]interface{}{"type": "string"}
		parameters[headerParameter+k] = "'" + v + "'"
	}

	return map[string]interface{}{
		apigateway.Extension: map[string]interface{}{},
		"summary":            "CORS support",
		"description":        "Enable CORS by returning correct headers",
		"consumes":           []interface{}{"application/json"},
		"produces":           []interface{}{"application/json"},
		"tags":               []interface{}{"CORS"},
		"responses": map[string]interface{}{
			"200": map[string]interface{}{
				"description": "Default response for CORS method",
				"headers":     responseHeaders,
			},
		},
		"x-amazon-apigateway-integration": map[string]interface{}{
			"type": "mock",
			"requestTemplates": map[string]interface{}{
				"application/json": `{"statusCode": 200}`,
			},
			"responses": map[string]interface{}{
				"default": map[string]interface{}{
					"statusCode":         "200",
					"responseParameters": parameters,
					"responseTemplates": map[string]interface{}{
						"application/json": "{}",
					},
				},
			},
		},
	}
}

// allowOrigin adds the Access-Control-Allow-Origin header to the responses
// of an endpoint, keeping any value it already declares
func allowOrigin(e *apigateway.Endpoint, origin string) {
	responses, _ := e.Spec["responses"].(map[string]interface{})

	for _, r := range responses {
		rm, ok := r.(map[string]interface{})
		if !ok {
			continue
		}

		hs, ok := rm["headers"].(map[string]interface{})
		if !ok {
			hs = map[string]interface{}{}
			rm["headers"] = hs
		}

		if _, ok := hs[AllowOrigin]; !ok {
			hs[AllowOrigin] = map[string]interface{}{"type": "string"}
		}
	}

	integration, _ := e.Spec["x-amazon-apigateway-integration"].(map[string]interface{})
	irs, _ := integration["responses"].(map[string]interface{})

	for _, r := range irs {
		rm, ok := r.(map[string]interface{})
		if !ok {
			continue
		}

		ps, ok := rm["responseParameters"].(map[string]interface{})
		if !ok {
			ps = map[string]interface{}{}
			rm["responseParameters"] = ps
		}

		if _, ok := ps[headerParameter+AllowOrigin]; !ok {
			ps[headerParameter+AllowOrigin] = "'" + origin + "'"
		}
	}
}

func splitMethods(s string) []string {
	ms := []string{}

	for _, m := range strings.Split(s, ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			ms = append(ms, m)
		}
	}

	return ms
}

// withoutAny drops ANY, which only means something to API Gateway
func withoutAny(ms []string) []string {
	res := []string{}

	for _, m := range ms {
		if m != "ANY" {
			res = append(res, m)
		}
	}

	return res
}

func toStrings(m map[string]interface{}) map[string]string {
	res := map[string]string{}

	for k, v := range m {
		res[k] = fmt.Sprint(v)
	}

	return res
}
