// Command gofeature extracts AlexNet-shaped feature vectors from a
// batch of images, optionally reducing them with a PCA projection, or
// reduces an already-extracted raw feature file when no feature
// network is configured.
package main

import "github.com/gofeature/gofeature/internal/telemetry"

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		telemetry.Fatalf(err)
	}
}
