//go:build !ctransformers

package engine

// builtWithEngine indicates this binary was compiled with the native engine.
var builtWithEngine = false

// Open reports the native engine as unavailable. Default builds degrade to
// 503 at the HTTP layer instead of mocking generation.
func Open(modelPath, modelType string) (Engine, error) {
	return nil, ErrUnavailable("native engine not built in: rebuild with -tags ctransformers")
}
