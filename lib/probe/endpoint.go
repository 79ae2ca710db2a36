package probe

import (
	"apiprobe/lib/textutil"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/antzucaro/matchr"
)

var ErrUnknownEndpoint = errors.New("unknown endpoint")

const (
	AuthValidation   = "auth_validation"
	InsertSimulation = "insert_simulation"
)

// Endpoint describes one API call under test.
type Endpoint struct {
	Name   string
	Url    string
	Method string
	// encoded as the JSON request body, nil means no body
	Body any
}

// Environments maps an environment name to the base url of the
// simulation API in it.
func Environments() map[string]string {
	return map[string]string{
		"development": "https://superleme.abensoft:8443/",
		"production":  "https://www.superleme.com.br/",
	}
}

const DefaultEnvironment = "development"

// DefaultEndpoints returns the calls the browser extension makes against
// the simulation API, in the order they are probed.
func DefaultEndpoints(baseUrl string) []Endpoint {
	if !strings.HasSuffix(baseUrl, "/") {
		baseUrl += "/"
	}
	return []Endpoint{
		{
			Name:   AuthValidation,
			Url:    baseUrl + "api/model/sl_cad_interacao_simulacao/get/acessos_agrupados_json",
			Method: http.MethodGet,
		},
		{
			Name:   InsertSimulation,
			Url:    baseUrl + "api/model/sl_cad_interacao_simulacao/post/insert_simulacao",
			Method: http.MethodPost,
			Body:   SampleSimulation(),
		},
	}
}

func closestName(endpoints []Endpoint, name string) (string, float64) {
	var best string
	var bestSimilarity float64
	for _, e := range endpoints {
		similarity := matchr.JaroWinkler(name, e.Name, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = e.Name
		}
	}
	return best, bestSimilarity
}

// Select keeps the endpoints named in `names` (compared after
// textutil.NormalizeName), preserving catalog order.
// an empty `names` selects everything.
func Select(endpoints []Endpoint, names []string) ([]Endpoint, error) {
	if len(names) == 0 {
		return endpoints, nil
	}

	wanted := map[string]struct{}{}
	for _, name := range names {
		normalized := textutil.NormalizeName(name)
		found := false
		for _, e := range endpoints {
			if e.Name == normalized {
				found = true
				break
			}
		}
		if !found {
			suggestion, similarity := closestName(endpoints, normalized)
			if similarity >= 0.7 {
				return nil, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownEndpoint, name, suggestion)
			}
			return nil, fmt.Errorf("%w %q", ErrUnknownEndpoint, name)
		}
		wanted[normalized] = struct{}{}
	}

	var selected []Endpoint
	for _, e := range endpoints {
		if _, ok := wanted[e.Name]; ok {
			selected = append(selected, e)
		}
	}
	return selected, nil
}
